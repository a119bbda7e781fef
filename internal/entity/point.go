package entity

import (
	"database/sql"

	"github.com/TheoSfak/volunteer-ops-sub005/pkg/enum"
)

type PointReason string

var (
	ReasonShiftCompleted = enum.New(PointReason("shift_completed"))
	ReasonWeekendBonus   = enum.New(PointReason("weekend_bonus"))
	ReasonNightBonus     = enum.New(PointReason("night_bonus"))
	ReasonMedicalBonus   = enum.New(PointReason("medical_bonus"))
	ReasonLastMinute     = enum.New(PointReason("last_minute"))
	ReasonAchievement    = enum.New(PointReason("achievement"))
	ReasonStreakBonus    = enum.New(PointReason("streak_bonus"))
	ReasonManual         = enum.New(PointReason("manual"))
)

// PointSourceKind tags the entity a ledger entry originates from, so
// consumers switch over a closed set instead of trusting a free-form string.
type PointSourceKind string

var (
	SourceParticipation = enum.New(PointSourceKind("participation"))
	SourceAchievement   = enum.New(PointSourceKind("achievement"))
	SourceManual        = enum.New(PointSourceKind("manual"))
)

// VolunteerPoint is an append-only ledger entry. Rows are never updated or
// deleted; every cached counter must be derivable from this table.
type VolunteerPoint struct {
	Base

	VolunteerID string
	Volunteer   User `gorm:"foreignKey:VolunteerID"`

	Points      int64
	Reason      PointReason
	Description string

	SourceKind PointSourceKind
	SourceID   sql.NullString
}
