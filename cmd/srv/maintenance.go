package main

import (
	"errors"
	"time"

	"github.com/TheoSfak/volunteer-ops-sub005/internal/domain/cron"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/domain/leaderboard"

	"github.com/urfave/cli/v2"
)

func (s *srv) startArchive(ct *cli.Context) error {
	if err := s.loadConfig(ct); err != nil {
		return err
	}

	s.loadLogger()
	s.loadDatabase()
	s.loadRepos()

	archiver := cron.NewYearlyArchiveCronJob(
		s.userRepo, s.participationRepo, s.pointRepo, s.yearlyStatRepo)
	return archiver.ArchiveYear(s.ctx, ct.Int("year"))
}

func (s *srv) startSweep(ct *cli.Context) error {
	if err := s.loadConfig(ct); err != nil {
		return err
	}

	s.loadLogger()
	s.loadDatabase()
	s.loadRedisClient()
	s.loadRepos()
	s.loadClients()
	s.loadDomains()

	settled, err := s.engine.Sweep(s.ctx)
	if err != nil {
		return err
	}

	s.logger.Infof("Settled %d participations", settled)
	return nil
}

func (s *srv) startRefreshMonthly(ct *cli.Context) error {
	if err := s.loadConfig(ct); err != nil {
		return err
	}

	s.loadLogger()
	s.loadDatabase()
	s.loadRedisClient()
	s.loadRepos()
	s.loadClients()
	s.loadDomains()

	cron.NewMonthlyRefreshCronJob(s.userRepo, s.pointRepo, s.lboard).Do(s.ctx)
	return nil
}

func (s *srv) startResetPoints(ct *cli.Context) error {
	if !ct.Bool("confirm") {
		return errors.New("refusing to reset points without --confirm")
	}

	if err := s.loadConfig(ct); err != nil {
		return err
	}

	s.loadLogger()
	s.loadDatabase()
	s.loadRedisClient()
	s.loadRepos()
	s.loadClients()
	s.loadDomains()

	if err := s.userRepo.ResetAllPoints(s.ctx); err != nil {
		return err
	}

	now := time.Now()
	err := s.lboard.Flush(s.ctx, leaderboard.AllTime(), leaderboard.MonthOf(now))
	if err != nil {
		return err
	}

	s.logger.Infof("Reset all cached point counters")
	return nil
}
