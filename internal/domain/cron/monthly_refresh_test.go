package cron

import (
	"context"
	"testing"
	"time"

	"github.com/TheoSfak/volunteer-ops-sub005/internal/domain/leaderboard"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/entity"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/repository"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/testutil"

	"github.com/stretchr/testify/require"
)

func insertLedgerRow(
	t *testing.T, ctx context.Context, id, volunteerID string, points int64, at time.Time,
) {
	t.Helper()
	err := repository.NewPointRepository().Create(ctx, &entity.VolunteerPoint{
		Base:        entity.Base{ID: id, CreatedAt: at},
		VolunteerID: volunteerID,
		Points:      points,
		Reason:      entity.ReasonManual,
		SourceKind:  entity.SourceManual,
	})
	require.NoError(t, err)
}

func Test_MonthlyRefreshCronJob_Do(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	userRepo := repository.NewUserRepository()
	pointRepo := repository.NewPointRepository()
	lboard := leaderboard.New(pointRepo, testutil.NewInMemoryRedisClient())
	job := NewMonthlyRefreshCronJob(userRepo, pointRepo, lboard)

	now := time.Now()
	insertLedgerRow(t, ctx, "e1", testutil.Volunteer1.ID, 100, now.AddDate(0, -2, 0))
	insertLedgerRow(t, ctx, "e2", testutil.Volunteer1.ID, 30, now)
	insertLedgerRow(t, ctx, "e3", testutil.Volunteer2.ID, 50, now)

	// Drifted counters the refresh must correct.
	require.NoError(t, userRepo.SetMonthlyPoints(ctx, testutil.Volunteer1.ID, 999))
	require.NoError(t, userRepo.SetMonthlyPoints(ctx, testutil.Moderator.ID, 7))

	job.Do(ctx)

	v1, err := userRepo.GetByID(ctx, testutil.Volunteer1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(30), v1.MonthlyPoints)

	v2, err := userRepo.GetByID(ctx, testutil.Volunteer2.ID)
	require.NoError(t, err)
	require.Equal(t, int64(50), v2.MonthlyPoints)

	// No ledger rows this month, so the drifted counter goes back to zero.
	moderator, err := userRepo.GetByID(ctx, testutil.Moderator.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), moderator.MonthlyPoints)

	// The month ranking is rebuilt from the refreshed ledger.
	top, err := lboard.GetTop(ctx, leaderboard.MonthOf(now), 0, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	require.Equal(t, testutil.Volunteer2.ID, top[0].VolunteerID)
	require.Equal(t, int64(50), top[0].Points)
	require.Equal(t, testutil.Volunteer1.ID, top[1].VolunteerID)
	require.Equal(t, int64(30), top[1].Points)
}
