package cron

import (
	"context"
	"time"

	"github.com/TheoSfak/volunteer-ops-sub005/internal/domain/leaderboard"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/repository"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/dateutil"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/xcontext"
)

// MonthlyRefreshCronJob re-derives every cached monthly counter from the
// point ledger once a day. At a month boundary the window moves, so the same
// pass also performs the monthly reset.
type MonthlyRefreshCronJob struct {
	userRepo  repository.UserRepository
	pointRepo repository.PointRepository
	lboard    leaderboard.Leaderboard
}

func NewMonthlyRefreshCronJob(
	userRepo repository.UserRepository,
	pointRepo repository.PointRepository,
	lboard leaderboard.Leaderboard,
) *MonthlyRefreshCronJob {
	return &MonthlyRefreshCronJob{
		userRepo:  userRepo,
		pointRepo: pointRepo,
		lboard:    lboard,
	}
}

func (job *MonthlyRefreshCronJob) Do(ctx context.Context) {
	now := time.Now()
	start := dateutil.BeginningOfMonth(now)
	end := dateutil.NextMonth(now)

	rows, err := job.pointRepo.Statistic(ctx, repository.PointStatisticFilter{Start: start, End: end})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot aggregate monthly ledger: %v", err)
		return
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	// Zero everyone first, then write back the volunteers the ledger still
	// credits this month.
	if err := job.userRepo.ResetMonthlyPoints(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot reset monthly points: %v", err)
		return
	}

	for _, row := range rows {
		if err := job.userRepo.SetMonthlyPoints(ctx, row.VolunteerID, row.Points); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot set monthly points of %s: %v", row.VolunteerID, err)
			return
		}
	}

	xcontext.WithCommitDBTransaction(ctx)

	// Drop the cached month ranking so the next read reloads it from the
	// refreshed ledger.
	if err := job.lboard.Flush(ctx, leaderboard.MonthOf(now)); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot flush month leaderboard: %v", err)
	}
}

func (job *MonthlyRefreshCronJob) RunNow() bool {
	return false
}

func (job *MonthlyRefreshCronJob) Next() time.Time {
	return dateutil.NextDay(time.Now())
}
