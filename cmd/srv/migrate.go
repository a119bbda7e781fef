package main

import (
	"github.com/TheoSfak/volunteer-ops-sub005/internal/entity"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/repository"

	"github.com/urfave/cli/v2"
)

// defaultAchievements is the built-in catalog. Rows are upserted by code so
// re-running the migration refreshes thresholds without duplicating rows.
var defaultAchievements = []entity.Achievement{
	{Base: entity.Base{ID: "ach_first_shift"}, Code: "first_shift", Category: entity.CategoryShifts, Threshold: 1, PointsReward: 50, IsActive: true},
	{Base: entity.Base{ID: "ach_ten_shifts"}, Code: "ten_shifts", Category: entity.CategoryShifts, Threshold: 10, PointsReward: 100, IsActive: true},
	{Base: entity.Base{ID: "ach_fifty_shifts"}, Code: "fifty_shifts", Category: entity.CategoryShifts, Threshold: 50, PointsReward: 500, IsActive: true},
	{Base: entity.Base{ID: "ach_marathon"}, Code: "marathon_100h", Category: entity.CategoryHours, Threshold: 100, PointsReward: 300, IsActive: true},
	{Base: entity.Base{ID: "ach_weekend_warrior"}, Code: "weekend_warrior", Category: entity.CategoryWeekend, Threshold: 10, PointsReward: 150, IsActive: true},
	{Base: entity.Base{ID: "ach_night_owl"}, Code: "night_owl", Category: entity.CategoryNight, Threshold: 10, PointsReward: 150, IsActive: true},
	{Base: entity.Base{ID: "ach_field_medic"}, Code: "field_medic", Category: entity.CategoryMedical, Threshold: 5, PointsReward: 200, IsActive: true},
	{Base: entity.Base{ID: "ach_streak_five"}, Code: "streak_five", Category: entity.CategoryStreak, Threshold: 5, PointsReward: 100, IsActive: true},
	{Base: entity.Base{ID: "ach_early_bird"}, Code: "early_bird", Category: entity.CategoryEarlyBird, Threshold: 100, PointsReward: 50, IsActive: true},
}

func (s *srv) startMigrate(ct *cli.Context) error {
	if err := s.loadConfig(ct); err != nil {
		return err
	}

	s.loadLogger()
	s.loadDatabase()
	s.migrateDB()

	achievementRepo := repository.NewAchievementRepository()
	for i := range defaultAchievements {
		a := defaultAchievements[i]
		if err := achievementRepo.Upsert(s.ctx, &a); err != nil {
			return err
		}
	}

	s.logger.Infof("Migration finished")
	return nil
}
