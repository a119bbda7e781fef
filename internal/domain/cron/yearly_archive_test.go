package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/TheoSfak/volunteer-ops-sub005/internal/entity"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/repository"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/testutil"

	"github.com/stretchr/testify/require"
)

func newTestYearlyArchiveJob() *YearlyArchiveCronJob {
	return NewYearlyArchiveCronJob(
		repository.NewUserRepository(),
		repository.NewParticipationRepository(),
		repository.NewPointRepository(),
		repository.NewYearlyStatRepository(),
	)
}

// settledShift seeds a completed participation on a new shift with the given
// window.
func settledShift(
	t *testing.T, ctx context.Context, id, volunteerID, missionID string, start, end time.Time,
) {
	t.Helper()

	shift := &entity.Shift{
		Base:        entity.Base{ID: "shift_" + id},
		MissionID:   missionID,
		StartTime:   start,
		EndTime:     end,
		MaxCapacity: 5,
		Status:      entity.ShiftLocked,
	}
	require.NoError(t, repository.NewShiftRepository().Create(ctx, shift))

	err := repository.NewParticipationRepository().Create(ctx, &entity.ParticipationRequest{
		Base:          entity.Base{ID: id},
		VolunteerID:   volunteerID,
		ShiftID:       shift.ID,
		Status:        entity.ParticipationApproved,
		Attended:      true,
		PointsAwarded: true,
	})
	require.NoError(t, err)
}

func Test_YearlyArchiveCronJob_ArchiveYear(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	job := newTestYearlyArchiveJob()

	// 2025-03-08 is a Saturday, 2025-03-12 a Wednesday.
	saturday := time.Date(2025, 3, 8, 10, 0, 0, 0, time.Local)
	wednesday := time.Date(2025, 3, 12, 23, 0, 0, 0, time.Local)

	settledShift(t, ctx, "p1", testutil.Volunteer1.ID, testutil.Mission1.ID,
		saturday, saturday.Add(4*time.Hour))
	settledShift(t, ctx, "p2", testutil.Volunteer1.ID, testutil.MedicalMission.ID,
		wednesday, wednesday.Add(4*time.Hour))
	settledShift(t, ctx, "p3", testutil.Volunteer2.ID, testutil.Mission1.ID,
		saturday, saturday.Add(2*time.Hour))

	// A shift from another year stays out of the archive.
	otherYear := time.Date(2024, 6, 10, 9, 0, 0, 0, time.Local)
	settledShift(t, ctx, "p4", testutil.Volunteer1.ID, testutil.Mission1.ID,
		otherYear, otherYear.Add(4*time.Hour))

	insertLedgerRow(t, ctx, "e1", testutil.Volunteer1.ID, 100, saturday)
	insertLedgerRow(t, ctx, "e2", testutil.Volunteer2.ID, 40, saturday)
	insertLedgerRow(t, ctx, "e3", testutil.Volunteer1.ID, 70, otherYear)

	require.NoError(t, job.ArchiveYear(ctx, 2025))

	yearlyStatRepo := repository.NewYearlyStatRepository()
	stats, err := yearlyStatRepo.GetByYear(ctx, 2025)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	first := stats[0]
	require.Equal(t, testutil.Volunteer1.ID, first.VolunteerID)
	require.Equal(t, 1, first.FinalRank)
	require.Equal(t, int64(100), first.TotalPoints)
	require.Equal(t, 2, first.TotalShifts)
	require.InDelta(t, 8.0, first.TotalHours, 0.001)
	require.Equal(t, 1, first.WeekendShifts)
	require.Equal(t, 1, first.NightShifts)
	require.Equal(t, 1, first.MedicalShifts)
	require.Equal(t, 2, first.BestStreak)

	second := stats[1]
	require.Equal(t, testutil.Volunteer2.ID, second.VolunteerID)
	require.Equal(t, 2, second.FinalRank)
	require.Equal(t, int64(40), second.TotalPoints)
	require.Equal(t, 1, second.TotalShifts)

	// Re-running upserts the same rows instead of duplicating them.
	require.NoError(t, job.ArchiveYear(ctx, 2025))

	stats, err = yearlyStatRepo.GetByYear(ctx, 2025)
	require.NoError(t, err)
	require.Len(t, stats, 2)
}

// failingParticipationRepo breaks the aggregation of a single volunteer.
type failingParticipationRepo struct {
	repository.ParticipationRepository
	failFor string
}

func (r *failingParticipationRepo) GetCompleted(
	ctx context.Context, volunteerID string,
) ([]entity.ParticipationRequest, error) {
	if volunteerID == r.failFor {
		return nil, errors.New("storage gone away")
	}

	return r.ParticipationRepository.GetCompleted(ctx, volunteerID)
}

func Test_YearlyArchiveCronJob_SkipsFailingVolunteer(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	job := NewYearlyArchiveCronJob(
		repository.NewUserRepository(),
		&failingParticipationRepo{
			ParticipationRepository: repository.NewParticipationRepository(),
			failFor:                 testutil.Volunteer1.ID,
		},
		repository.NewPointRepository(),
		repository.NewYearlyStatRepository(),
	)

	saturday := time.Date(2025, 3, 8, 10, 0, 0, 0, time.Local)
	settledShift(t, ctx, "p1", testutil.Volunteer1.ID, testutil.Mission1.ID,
		saturday, saturday.Add(4*time.Hour))
	settledShift(t, ctx, "p2", testutil.Volunteer2.ID, testutil.Mission1.ID,
		saturday, saturday.Add(2*time.Hour))

	// The failing volunteer is skipped, everyone else is still archived.
	require.NoError(t, job.ArchiveYear(ctx, 2025))

	stats, err := repository.NewYearlyStatRepository().GetByYear(ctx, 2025)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	require.Equal(t, testutil.Volunteer2.ID, stats[0].VolunteerID)
	require.Equal(t, 1, stats[0].FinalRank)
}

func Test_YearlyArchiveCronJob_SkipsEmptyYears(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	job := newTestYearlyArchiveJob()

	require.NoError(t, job.ArchiveYear(ctx, 2025))

	stats, err := repository.NewYearlyStatRepository().GetByYear(ctx, 2025)
	require.NoError(t, err)
	require.Empty(t, stats)
}
