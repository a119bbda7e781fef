package entity

import (
	"time"

	"github.com/TheoSfak/volunteer-ops-sub005/pkg/enum"
)

type ShiftStatus string

var (
	ShiftOpen     = enum.New(ShiftStatus("open"))
	ShiftFull     = enum.New(ShiftStatus("full"))
	ShiftLocked   = enum.New(ShiftStatus("locked"))
	ShiftCanceled = enum.New(ShiftStatus("canceled"))
)

// Shift occupies the half-open interval [StartTime, EndTime). CurrentCount
// always equals the number of approved participations of the shift; it is
// mutated only through the guarded updates of the shift repository.
type Shift struct {
	Base

	MissionID string
	Mission   Mission `gorm:"foreignKey:MissionID"`

	StartTime time.Time
	EndTime   time.Time

	MaxCapacity  int
	CurrentCount int
	Status       ShiftStatus
}

func (s *Shift) ScheduledHours() float64 {
	return s.EndTime.Sub(s.StartTime).Hours()
}
