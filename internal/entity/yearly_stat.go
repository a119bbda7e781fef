package entity

import (
	"time"

	"gorm.io/gorm"
)

// VolunteerYearlyStat is the archived aggregate of one volunteer's year,
// upserted on (volunteer, year) by the yearly archiver.
type VolunteerYearlyStat struct {
	VolunteerID string `gorm:"primaryKey"`
	Volunteer   User   `gorm:"foreignKey:VolunteerID"`
	Year        int    `gorm:"primaryKey"`

	TotalShifts   int
	TotalHours    float64
	TotalPoints   int64
	WeekendShifts int
	NightShifts   int
	MedicalShifts int
	BestStreak    int
	FinalRank     int

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
