package entity

import "github.com/TheoSfak/volunteer-ops-sub005/pkg/enum"

type MissionType string

var (
	MissionVolunteer = enum.New(MissionType("volunteer"))
	MissionMedical   = enum.New(MissionType("medical"))
)

type MissionStatus string

var (
	MissionDraft    = enum.New(MissionStatus("draft"))
	MissionActive   = enum.New(MissionStatus("published"))
	MissionCanceled = enum.New(MissionStatus("canceled"))
)

type Mission struct {
	Base

	Title       string
	Description string
	Type        MissionType
	Status      MissionStatus

	CreatedBy string
	Creator   User `gorm:"foreignKey:CreatedBy"`
}
