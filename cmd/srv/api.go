package main

import (
	"fmt"
	"net/http"

	"github.com/TheoSfak/volunteer-ops-sub005/pkg/router"

	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(ct *cli.Context) error {
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
	s.loadRouter()

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%s", s.configs.ApiServer.Port),
		Handler: s.router.Handler(),
	}

	s.logger.Infof("Starting server on port %s", s.configs.ApiServer.Port)
	if err := s.server.ListenAndServe(); err != nil {
		return err
	}

	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.db, s.configs, s.logger)

	// User API
	router.POST(s.router, "/createUser", s.userDomain.Create)
	router.GET(s.router, "/getUser", s.userDomain.Get)

	// Mission API
	router.POST(s.router, "/createMission", s.missionDomain.Create)
	router.POST(s.router, "/publishMission", s.missionDomain.Publish)
	router.POST(s.router, "/cancelMission", s.missionDomain.Cancel)
	router.GET(s.router, "/getMission", s.missionDomain.Get)
	router.GET(s.router, "/getMissions", s.missionDomain.GetList)

	// Shift API
	router.POST(s.router, "/createShift", s.shiftDomain.Create)
	router.POST(s.router, "/lockShift", s.shiftDomain.Lock)
	router.GET(s.router, "/getShift", s.shiftDomain.Get)
	router.GET(s.router, "/getShifts", s.shiftDomain.GetList)

	// Participation API
	router.POST(s.router, "/apply", s.participationDomain.Apply)
	router.POST(s.router, "/approveParticipation", s.participationDomain.Approve)
	router.POST(s.router, "/rejectParticipation", s.participationDomain.Reject)
	router.POST(s.router, "/cancelParticipation", s.participationDomain.Cancel)
	router.POST(s.router, "/confirmAttendance", s.participationDomain.ConfirmAttendance)
	router.GET(s.router, "/getParticipation", s.participationDomain.Get)
	router.GET(s.router, "/getParticipations", s.participationDomain.GetList)

	// Point API
	router.GET(s.router, "/getPointHistory", s.pointDomain.GetHistory)
	router.GET(s.router, "/getBalance", s.pointDomain.GetBalance)

	// Achievement API
	router.GET(s.router, "/getAchievements", s.achievementDomain.GetAll)
	router.GET(s.router, "/getEarnedAchievements", s.achievementDomain.GetEarned)
	router.GET(s.router, "/getAchievementProgress", s.achievementDomain.GetProgress)

	// Statistic API
	router.GET(s.router, "/getLeaderboard", s.statisticDomain.GetLeaderboard)
	router.GET(s.router, "/getRank", s.statisticDomain.GetRank)
	router.GET(s.router, "/getYearlyStat", s.statisticDomain.GetYearlyStat)
	router.GET(s.router, "/getYearlyStats", s.statisticDomain.GetYearlyStats)
}
