package repository

import (
	"context"

	"github.com/TheoSfak/volunteer-ops-sub005/internal/entity"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type YearlyStatRepository interface {
	// Upsert writes the archive row for (volunteer, year); a second run
	// overwrites instead of duplicating.
	Upsert(ctx context.Context, data *entity.VolunteerYearlyStat) error
	Get(ctx context.Context, volunteerID string, year int) (*entity.VolunteerYearlyStat, error)
	GetByYear(ctx context.Context, year int) ([]entity.VolunteerYearlyStat, error)
}

type yearlyStatRepository struct{}

func NewYearlyStatRepository() *yearlyStatRepository {
	return &yearlyStatRepository{}
}

func (r *yearlyStatRepository) Upsert(ctx context.Context, data *entity.VolunteerYearlyStat) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "volunteer_id"}, {Name: "year"}},
			DoUpdates: clause.Assignments(map[string]any{
				"total_shifts":   data.TotalShifts,
				"total_hours":    data.TotalHours,
				"total_points":   data.TotalPoints,
				"weekend_shifts": data.WeekendShifts,
				"night_shifts":   data.NightShifts,
				"medical_shifts": data.MedicalShifts,
				"best_streak":    data.BestStreak,
				"final_rank":     data.FinalRank,
			}),
		}).Create(data).Error
}

func (r *yearlyStatRepository) Get(
	ctx context.Context, volunteerID string, year int,
) (*entity.VolunteerYearlyStat, error) {
	result := &entity.VolunteerYearlyStat{}
	err := xcontext.DB(ctx).
		Take(result, "volunteer_id=? AND year=?", volunteerID, year).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *yearlyStatRepository) GetByYear(
	ctx context.Context, year int,
) ([]entity.VolunteerYearlyStat, error) {
	result := []entity.VolunteerYearlyStat{}
	err := xcontext.DB(ctx).
		Where("year=?", year).
		Order("final_rank ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
