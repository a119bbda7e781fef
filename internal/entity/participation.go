package entity

import (
	"database/sql"
	"time"

	"github.com/TheoSfak/volunteer-ops-sub005/pkg/enum"
)

type ParticipationStatus string

var (
	ParticipationPending         = enum.New(ParticipationStatus("pending"))
	ParticipationApproved        = enum.New(ParticipationStatus("approved"))
	ParticipationRejected        = enum.New(ParticipationStatus("rejected"))
	ParticipationCanceledByUser  = enum.New(ParticipationStatus("canceled_by_user"))
	ParticipationCanceledByAdmin = enum.New(ParticipationStatus("canceled_by_admin"))
)

// ActiveParticipationStatuses are the states that block a second request for
// the same (volunteer, shift) pair.
var ActiveParticipationStatuses = []ParticipationStatus{
	ParticipationPending, ParticipationApproved,
}

type ParticipationRequest struct {
	Base

	VolunteerID string
	Volunteer   User `gorm:"foreignKey:VolunteerID"`

	ShiftID string
	Shift   Shift `gorm:"foreignKey:ShiftID"`

	Status ParticipationStatus
	Notes  string

	DecidedBy sql.NullString
	DecidedAt sql.NullTime

	// Attendance data, settable until the rewards sweep claims the
	// participation by flipping PointsAwarded.
	Attended        bool `gorm:"default:true"`
	ActualHours     sql.NullFloat64
	ActualStartTime sql.NullTime
	ActualEndTime   sql.NullTime
	ConfirmedBy     sql.NullString
	ConfirmedAt     sql.NullTime

	PointsAwarded bool
}

func (p *ParticipationRequest) IsTerminal() bool {
	return p.Status != ParticipationPending
}

// CreditedWindow is the time interval the volunteer is credited for. Actual
// times recorded at attendance win over the scheduled shift window.
func (p *ParticipationRequest) CreditedWindow(shift *Shift) (time.Time, time.Time) {
	if p.ActualStartTime.Valid && p.ActualEndTime.Valid {
		return p.ActualStartTime.Time, p.ActualEndTime.Time
	}

	return shift.StartTime, shift.EndTime
}

// CreditedHours prefers actual times, then a directly recorded hour count,
// then the scheduled shift duration.
func (p *ParticipationRequest) CreditedHours(shift *Shift) float64 {
	if p.ActualStartTime.Valid && p.ActualEndTime.Valid {
		return p.ActualEndTime.Time.Sub(p.ActualStartTime.Time).Hours()
	}

	if p.ActualHours.Valid {
		return p.ActualHours.Float64
	}

	return shift.ScheduledHours()
}
