package domain

import (
	"context"
	"testing"
	"time"

	"github.com/TheoSfak/volunteer-ops-sub005/internal/domain/leaderboard"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/entity"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/model"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/repository"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/errorx"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/testutil"

	"github.com/stretchr/testify/require"
)

func newTestStatisticDomain() StatisticDomain {
	return NewStatisticDomain(
		repository.NewUserRepository(),
		repository.NewAchievementRepository(),
		repository.NewYearlyStatRepository(),
		leaderboard.New(repository.NewPointRepository(), testutil.NewInMemoryRedisClient()),
	)
}

func creditPoints(t *testing.T, ctx context.Context, id, volunteerID string, points int64) {
	t.Helper()
	err := repository.NewPointRepository().Create(ctx, &entity.VolunteerPoint{
		Base:        entity.Base{ID: id},
		VolunteerID: volunteerID,
		Points:      points,
		Reason:      entity.ReasonManual,
		SourceKind:  entity.SourceManual,
	})
	require.NoError(t, err)
}

func Test_statisticDomain_GetLeaderboard(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	d := newTestStatisticDomain()

	creditPoints(t, ctx, "e1", testutil.Volunteer1.ID, 120)
	creditPoints(t, ctx, "e2", testutil.Volunteer2.ID, 80)

	achievementRepo := repository.NewAchievementRepository()
	err := achievementRepo.Upsert(ctx, &entity.Achievement{
		Base:      entity.Base{ID: "a1"},
		Code:      "first_shift",
		Category:  entity.CategoryShifts,
		Threshold: 1,
		IsActive:  true,
	})
	require.NoError(t, err)

	_, err = achievementRepo.CreateEarned(ctx, &entity.VolunteerAchievement{
		VolunteerID:   testutil.Volunteer1.ID,
		AchievementID: "a1",
		EarnedAt:      time.Now(),
	})
	require.NoError(t, err)

	resp, err := d.GetLeaderboard(ctx, &model.GetLeaderboardRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Leaderboard, 2)

	require.Equal(t, testutil.Volunteer1.ID, resp.Leaderboard[0].VolunteerID)
	require.Equal(t, testutil.Volunteer1.Name, resp.Leaderboard[0].Name)
	require.Equal(t, int64(120), resp.Leaderboard[0].Points)
	require.Equal(t, uint64(1), resp.Leaderboard[0].Rank)
	require.Equal(t, int64(1), resp.Leaderboard[0].AchievementCount)

	require.Equal(t, testutil.Volunteer2.ID, resp.Leaderboard[1].VolunteerID)
	require.Equal(t, int64(0), resp.Leaderboard[1].AchievementCount)

	_, err = d.GetLeaderboard(ctx, &model.GetLeaderboardRequest{Period: "weekly"})
	requireErrorCode(t, err, errorx.BadRequest)

	_, err = d.GetLeaderboard(ctx, &model.GetLeaderboardRequest{Limit: 100})
	requireErrorCode(t, err, errorx.BadRequest)
}

func Test_statisticDomain_GetRank(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	d := newTestStatisticDomain()

	creditPoints(t, ctx, "e1", testutil.Volunteer1.ID, 120)
	creditPoints(t, ctx, "e2", testutil.Volunteer2.ID, 80)

	// The volunteer id defaults to the requester.
	volunteerCtx := testutil.NewMockContextWithUserID(ctx, testutil.Volunteer2.ID)
	resp, err := d.GetRank(volunteerCtx, &model.GetRankRequest{})
	require.NoError(t, err)
	require.Equal(t, uint64(2), resp.Rank)
	require.Equal(t, int64(80), resp.Points)

	// An unranked volunteer gets the zero rank.
	resp, err = d.GetRank(ctx, &model.GetRankRequest{VolunteerID: testutil.Moderator.ID})
	require.NoError(t, err)
	require.Equal(t, uint64(0), resp.Rank)

	// The month of the period defaults to the current one.
	resp, err = d.GetRank(ctx, &model.GetRankRequest{
		VolunteerID: testutil.Volunteer1.ID,
		Period:      "month",
	})
	require.NoError(t, err)
	require.Equal(t, uint64(1), resp.Rank)

	_, err = d.GetRank(ctx, &model.GetRankRequest{
		VolunteerID: testutil.Volunteer1.ID,
		Period:      "month",
		Month:       "08-2026",
	})
	requireErrorCode(t, err, errorx.BadRequest)
}

func Test_statisticDomain_GetYearlyStat(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)
	d := newTestStatisticDomain()

	err := repository.NewYearlyStatRepository().Upsert(ctx, &entity.VolunteerYearlyStat{
		VolunteerID: testutil.Volunteer1.ID,
		Year:        2025,
		TotalShifts: 12,
		TotalHours:  48,
		TotalPoints: 510,
		FinalRank:   1,
	})
	require.NoError(t, err)

	resp, err := d.GetYearlyStat(ctx, &model.GetYearlyStatRequest{
		VolunteerID: testutil.Volunteer1.ID,
		Year:        2025,
	})
	require.NoError(t, err)
	require.Equal(t, int64(12), resp.TotalShifts)
	require.Equal(t, int64(510), resp.TotalPoints)
	require.Equal(t, int64(1), resp.FinalRank)

	_, err = d.GetYearlyStat(ctx, &model.GetYearlyStatRequest{
		VolunteerID: testutil.Volunteer1.ID,
		Year:        2024,
	})
	requireErrorCode(t, err, errorx.NotFound)

	stats, err := d.GetYearlyStats(ctx, &model.GetYearlyStatsRequest{Year: 2025})
	require.NoError(t, err)
	require.Len(t, stats.Stats, 1)
}
