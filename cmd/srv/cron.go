package main

import (
	"github.com/TheoSfak/volunteer-ops-sub005/internal/domain/cron"

	"github.com/urfave/cli/v2"
)

func (s *srv) startCron(ct *cli.Context) error {
	if err := s.loadConfig(ct); err != nil {
		return err
	}

	s.loadLogger()
	s.loadDatabase()
	s.migrateDB()
	s.loadRedisClient()
	s.loadRepos()
	s.loadClients()
	s.loadDomains()

	cronJobManager := cron.NewCronJobManager()
	cronJobManager.Register(cron.NewRewardSweepCronJob(s.ctx, s.engine))
	cronJobManager.Register(cron.NewMonthlyRefreshCronJob(s.userRepo, s.pointRepo, s.lboard))
	cronJobManager.Register(cron.NewYearlyArchiveCronJob(
		s.userRepo, s.participationRepo, s.pointRepo, s.yearlyStatRepo))

	cronJobManager.Start(s.ctx)
	return nil
}
