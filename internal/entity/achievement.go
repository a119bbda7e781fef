package entity

import "github.com/TheoSfak/volunteer-ops-sub005/pkg/enum"

type AchievementCategory string

var (
	CategoryHours     = enum.New(AchievementCategory("hours"))
	CategoryShifts    = enum.New(AchievementCategory("shifts"))
	CategoryStreak    = enum.New(AchievementCategory("streak"))
	CategoryWeekend   = enum.New(AchievementCategory("weekend"))
	CategoryNight     = enum.New(AchievementCategory("night"))
	CategoryMedical   = enum.New(AchievementCategory("medical"))
	CategoryEarlyBird = enum.New(AchievementCategory("early_bird"))
)

// Achievement is a catalog row, static reference data shared by all
// volunteers. For early_bird the threshold is a registration rank ceiling;
// for every other category it is a floor on the lifetime counter.
type Achievement struct {
	Base

	Code         string `gorm:"unique"`
	Category     AchievementCategory
	Threshold    int64
	PointsReward int64
	IsActive     bool
}
