package achieve

import (
	"context"
	"math"
	"time"

	"github.com/TheoSfak/volunteer-ops-sub005/internal/entity"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/repository"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/dateutil"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/xcontext"
)

// CounterScanner derives the lifetime counter of one achievement category
// from first principles, never from a cached value.
type CounterScanner interface {
	Category() entity.AchievementCategory
	Scan(ctx context.Context, volunteerID string) (int64, error)
}

type hoursScanner struct {
	participationRepo repository.ParticipationRepository
}

func NewHoursScanner(participationRepo repository.ParticipationRepository) *hoursScanner {
	return &hoursScanner{participationRepo: participationRepo}
}

func (s *hoursScanner) Category() entity.AchievementCategory { return entity.CategoryHours }

func (s *hoursScanner) Scan(ctx context.Context, volunteerID string) (int64, error) {
	completed, err := s.participationRepo.GetCompleted(ctx, volunteerID)
	if err != nil {
		return 0, err
	}

	var hours float64
	for i := range completed {
		hours += completed[i].CreditedHours(&completed[i].Shift)
	}

	return int64(math.Floor(hours)), nil
}

type shiftsScanner struct {
	participationRepo repository.ParticipationRepository
}

func NewShiftsScanner(participationRepo repository.ParticipationRepository) *shiftsScanner {
	return &shiftsScanner{participationRepo: participationRepo}
}

func (s *shiftsScanner) Category() entity.AchievementCategory { return entity.CategoryShifts }

func (s *shiftsScanner) Scan(ctx context.Context, volunteerID string) (int64, error) {
	completed, err := s.participationRepo.GetCompleted(ctx, volunteerID)
	if err != nil {
		return 0, err
	}

	return int64(len(completed)), nil
}

type weekendScanner struct {
	participationRepo repository.ParticipationRepository
}

func NewWeekendScanner(participationRepo repository.ParticipationRepository) *weekendScanner {
	return &weekendScanner{participationRepo: participationRepo}
}

func (s *weekendScanner) Category() entity.AchievementCategory { return entity.CategoryWeekend }

func (s *weekendScanner) Scan(ctx context.Context, volunteerID string) (int64, error) {
	completed, err := s.participationRepo.GetCompleted(ctx, volunteerID)
	if err != nil {
		return 0, err
	}

	var count int64
	for i := range completed {
		start, end := completed[i].CreditedWindow(&completed[i].Shift)
		if OverlapsWeekend(start, end) {
			count++
		}
	}

	return count, nil
}

// OverlapsWeekend reports whether any day touched by [start, end) is a
// Saturday or Sunday.
func OverlapsWeekend(start, end time.Time) bool {
	for day := dateutil.BeginningOfDay(start); day.Before(end); day = dateutil.NextDay(day) {
		if dateutil.IsWeekend(day) {
			return true
		}
	}

	return false
}

type nightScanner struct {
	participationRepo repository.ParticipationRepository
}

func NewNightScanner(participationRepo repository.ParticipationRepository) *nightScanner {
	return &nightScanner{participationRepo: participationRepo}
}

func (s *nightScanner) Category() entity.AchievementCategory { return entity.CategoryNight }

func (s *nightScanner) Scan(ctx context.Context, volunteerID string) (int64, error) {
	completed, err := s.participationRepo.GetCompleted(ctx, volunteerID)
	if err != nil {
		return 0, err
	}

	pointsCfg := xcontext.Configs(ctx).Points

	var count int64
	for i := range completed {
		start, end := completed[i].CreditedWindow(&completed[i].Shift)
		if dateutil.OverlapsHourWindow(start, end, pointsCfg.NightStartHour, pointsCfg.NightEndHour) {
			count++
		}
	}

	return count, nil
}

type medicalScanner struct {
	participationRepo repository.ParticipationRepository
}

func NewMedicalScanner(participationRepo repository.ParticipationRepository) *medicalScanner {
	return &medicalScanner{participationRepo: participationRepo}
}

func (s *medicalScanner) Category() entity.AchievementCategory { return entity.CategoryMedical }

func (s *medicalScanner) Scan(ctx context.Context, volunteerID string) (int64, error) {
	completed, err := s.participationRepo.GetCompleted(ctx, volunteerID)
	if err != nil {
		return 0, err
	}

	var count int64
	for i := range completed {
		if completed[i].Shift.Mission.Type == entity.MissionMedical {
			count++
		}
	}

	return count, nil
}

type streakScanner struct {
	participationRepo repository.ParticipationRepository
}

func NewStreakScanner(participationRepo repository.ParticipationRepository) *streakScanner {
	return &streakScanner{participationRepo: participationRepo}
}

func (s *streakScanner) Category() entity.AchievementCategory { return entity.CategoryStreak }

// Scan returns the current streak: completed shifts since the last
// cancellation or no-show.
func (s *streakScanner) Scan(ctx context.Context, volunteerID string) (int64, error) {
	history, err := s.participationRepo.GetDecidedHistory(ctx, volunteerID)
	if err != nil {
		return 0, err
	}

	current, _ := Streaks(history)
	return current, nil
}

// Streaks walks the decided history in order and returns the current and the
// best run of completed shifts. Cancellations and no-shows break a run;
// approved but not yet rewarded participations are ignored.
func Streaks(history []entity.ParticipationRequest) (current, best int64) {
	for i := range history {
		p := &history[i]
		switch {
		case p.Status == entity.ParticipationApproved && p.PointsAwarded && p.Attended:
			current++
			if current > best {
				best = current
			}
		case p.Status == entity.ParticipationApproved && !p.PointsAwarded:
			// Still in flight, neither extends nor breaks the run.
		default:
			current = 0
		}
	}

	return current, best
}

type earlyBirdScanner struct {
	userRepo repository.UserRepository
}

func NewEarlyBirdScanner(userRepo repository.UserRepository) *earlyBirdScanner {
	return &earlyBirdScanner{userRepo: userRepo}
}

func (s *earlyBirdScanner) Category() entity.AchievementCategory { return entity.CategoryEarlyBird }

func (s *earlyBirdScanner) Scan(ctx context.Context, volunteerID string) (int64, error) {
	return s.userRepo.RegistrationRank(ctx, volunteerID)
}
