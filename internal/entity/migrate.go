package entity

import "gorm.io/gorm"

func MigrateTable(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Mission{},
		&Shift{},
		&ParticipationRequest{},
		&VolunteerPoint{},
		&Achievement{},
		&VolunteerAchievement{},
		&VolunteerYearlyStat{},
	)
}
