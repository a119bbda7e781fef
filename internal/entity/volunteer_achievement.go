package entity

import "time"

// VolunteerAchievement records an unlock. The composite primary key makes
// re-evaluation idempotent: a second unlock of the same pair is a conflict,
// not a duplicate row.
type VolunteerAchievement struct {
	VolunteerID string `gorm:"primaryKey"`
	Volunteer   User   `gorm:"foreignKey:VolunteerID"`

	AchievementID string      `gorm:"primaryKey"`
	Achievement   Achievement `gorm:"foreignKey:AchievementID"`

	EarnedAt time.Time
	Notified bool
}
