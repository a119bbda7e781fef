package leaderboard

import (
	"context"
	"testing"
	"time"

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

func Test_Leaderboard_LazyLoadFromLedger(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	now := time.Now()
	insertLedgerRow(t, ctx, "e1", testutil.Volunteer1.ID, 100, now)
	insertLedgerRow(t, ctx, "e2", testutil.Volunteer2.ID, 40, now)
	insertLedgerRow(t, ctx, "e3", testutil.Volunteer2.ID, 20, now)

	lboard := New(repository.NewPointRepository(), testutil.NewInMemoryRedisClient())

	top, err := lboard.GetTop(ctx, AllTime(), 0, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	require.Equal(t, testutil.Volunteer1.ID, top[0].VolunteerID)
	require.Equal(t, int64(100), top[0].Points)
	require.Equal(t, uint64(1), top[0].Rank)
	require.Equal(t, testutil.Volunteer2.ID, top[1].VolunteerID)
	require.Equal(t, int64(60), top[1].Points)
	require.Equal(t, uint64(2), top[1].Rank)
}

func Test_Leaderboard_IncreasePoints(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	now := time.Now()
	insertLedgerRow(t, ctx, "e1", testutil.Volunteer1.ID, 100, now)
	insertLedgerRow(t, ctx, "e2", testutil.Volunteer2.ID, 60, now)

	lboard := New(repository.NewPointRepository(), testutil.NewInMemoryRedisClient())

	// Warm both period sets before the increments.
	_, err := lboard.GetTop(ctx, AllTime(), 0, 10)
	require.NoError(t, err)
	_, err = lboard.GetTop(ctx, MonthOf(now), 0, 10)
	require.NoError(t, err)

	require.NoError(t, lboard.IncreasePoints(ctx, testutil.Volunteer2.ID, 50))

	entry, err := lboard.GetRank(ctx, AllTime(), testutil.Volunteer2.ID)
	require.NoError(t, err)
	require.Equal(t, int64(110), entry.Points)
	require.Equal(t, uint64(1), entry.Rank)

	entry, err = lboard.GetRank(ctx, MonthOf(now), testutil.Volunteer2.ID)
	require.NoError(t, err)
	require.Equal(t, int64(110), entry.Points)
}

func Test_Leaderboard_ColdIncreaseDoesNotDoubleCount(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	// The ledger row is already committed when the increment arrives on a
	// cold cache, mirroring the settlement path.
	insertLedgerRow(t, ctx, "e1", testutil.Volunteer1.ID, 100, time.Now())

	lboard := New(repository.NewPointRepository(), testutil.NewInMemoryRedisClient())
	require.NoError(t, lboard.IncreasePoints(ctx, testutil.Volunteer1.ID, 100))

	entry, err := lboard.GetRank(ctx, AllTime(), testutil.Volunteer1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(100), entry.Points)
}

func Test_Leaderboard_MonthlyWindow(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	now := time.Now()
	insertLedgerRow(t, ctx, "e1", testutil.Volunteer1.ID, 100, now.AddDate(0, -2, 0))
	insertLedgerRow(t, ctx, "e2", testutil.Volunteer1.ID, 30, now)
	insertLedgerRow(t, ctx, "e3", testutil.Volunteer2.ID, 50, now)

	lboard := New(repository.NewPointRepository(), testutil.NewInMemoryRedisClient())

	// This month only counts this month's rows.
	top, err := lboard.GetTop(ctx, MonthOf(now), 0, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	require.Equal(t, testutil.Volunteer2.ID, top[0].VolunteerID)
	require.Equal(t, int64(50), top[0].Points)
	require.Equal(t, int64(30), top[1].Points)

	// All-time still sees everything.
	entry, err := lboard.GetRank(ctx, AllTime(), testutil.Volunteer1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(130), entry.Points)
	require.Equal(t, uint64(1), entry.Rank)
}

func Test_Leaderboard_GetRank_Unranked(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	insertLedgerRow(t, ctx, "e1", testutil.Volunteer1.ID, 100, time.Now())

	lboard := New(repository.NewPointRepository(), testutil.NewInMemoryRedisClient())

	entry, err := lboard.GetRank(ctx, AllTime(), testutil.Volunteer2.ID)
	require.NoError(t, err)
	require.Equal(t, testutil.Volunteer2.ID, entry.VolunteerID)
	require.Equal(t, uint64(0), entry.Rank)
	require.Equal(t, int64(0), entry.Points)
}

func Test_Leaderboard_FlushReloads(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	insertLedgerRow(t, ctx, "e1", testutil.Volunteer1.ID, 100, time.Now())

	lboard := New(repository.NewPointRepository(), testutil.NewInMemoryRedisClient())

	_, err := lboard.GetTop(ctx, AllTime(), 0, 10)
	require.NoError(t, err)

	// New ledger rows written behind the cache show up after a flush.
	insertLedgerRow(t, ctx, "e2", testutil.Volunteer1.ID, 25, time.Now())
	require.NoError(t, lboard.Flush(ctx, AllTime()))

	entry, err := lboard.GetRank(ctx, AllTime(), testutil.Volunteer1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(125), entry.Points)
}
