package cron

import (
	"context"
	"time"

	"github.com/TheoSfak/volunteer-ops-sub005/internal/domain/rewards"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/xcontext"
)

// RewardSweepCronJob periodically settles participations of ended shifts into
// point ledger entries.
type RewardSweepCronJob struct {
	engine   *rewards.Engine
	interval time.Duration
}

func NewRewardSweepCronJob(ctx context.Context, engine *rewards.Engine) *RewardSweepCronJob {
	return &RewardSweepCronJob{
		engine:   engine,
		interval: xcontext.Configs(ctx).Cron.SweepInterval,
	}
}

func (job *RewardSweepCronJob) Do(ctx context.Context) {
	settled, err := job.engine.Sweep(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot sweep rewards: %v", err)
		return
	}

	if settled > 0 {
		xcontext.Logger(ctx).Infof("Settled %d participations", settled)
	}
}

func (job *RewardSweepCronJob) RunNow() bool {
	return true
}

func (job *RewardSweepCronJob) Next() time.Time {
	return time.Now().Add(job.interval)
}
