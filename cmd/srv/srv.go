package main

import (
	"context"
	"net/http"

	"github.com/TheoSfak/volunteer-ops-sub005/config"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/client"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/domain"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/domain/achieve"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/domain/leaderboard"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/domain/rewards"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/entity"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/repository"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/logger"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/router"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/xcontext"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/xredis"

	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type srv struct {
	app *cli.App
	ctx context.Context

	configs config.Configs
	logger  logger.Logger
	db      *gorm.DB

	redisClient xredis.Client
	auditSink   client.AuditSink
	notifier    client.NotificationDispatcher

	userRepo          repository.UserRepository
	missionRepo       repository.MissionRepository
	shiftRepo         repository.ShiftRepository
	participationRepo repository.ParticipationRepository
	pointRepo         repository.PointRepository
	achievementRepo   repository.AchievementRepository
	yearlyStatRepo    repository.YearlyStatRepository

	lboard    leaderboard.Leaderboard
	evaluator *achieve.Evaluator
	engine    *rewards.Engine

	userDomain          domain.UserDomain
	missionDomain       domain.MissionDomain
	shiftDomain         domain.ShiftDomain
	participationDomain domain.ParticipationDomain
	pointDomain         domain.PointDomain
	achievementDomain   domain.AchievementDomain
	statisticDomain     domain.StatisticDomain

	router *router.Router
	server *http.Server
}

func (s *srv) loadConfig(ct *cli.Context) error {
	cfg, err := config.Load(ct.String("config"))
	if err != nil {
		return err
	}

	s.configs = cfg
	s.ctx = xcontext.WithConfigs(context.Background(), cfg)
	return nil
}

func (s *srv) loadLogger() {
	s.logger = logger.NewLogger(s.configs.LogLevel)
	s.ctx = xcontext.WithLogger(s.ctx, s.logger)
}

func (s *srv) newDatabase() *gorm.DB {
	db, err := gorm.Open(mysql.Open(s.configs.Database.ConnectionString()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		panic(err)
	}

	return db
}

func (s *srv) loadDatabase() {
	s.db = s.newDatabase()
	s.ctx = xcontext.WithDB(s.ctx, s.db)
}

func (s *srv) migrateDB() {
	if err := entity.MigrateTable(s.db); err != nil {
		panic(err)
	}
}

func (s *srv) loadRedisClient() {
	redisClient, err := xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}

	s.redisClient = redisClient
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.missionRepo = repository.NewMissionRepository()
	s.shiftRepo = repository.NewShiftRepository()
	s.participationRepo = repository.NewParticipationRepository()
	s.pointRepo = repository.NewPointRepository()
	s.achievementRepo = repository.NewAchievementRepository()
	s.yearlyStatRepo = repository.NewYearlyStatRepository()
}

func (s *srv) loadClients() {
	s.auditSink = client.NewLoggerAuditSink()
	s.notifier = client.NewLoggerNotificationDispatcher()
}

func (s *srv) loadDomains() {
	s.lboard = leaderboard.New(s.pointRepo, s.redisClient)
	s.evaluator = achieve.NewEvaluator(
		s.achievementRepo, s.pointRepo, s.userRepo, s.participationRepo, s.lboard, s.notifier)
	s.engine = rewards.NewEngine(
		s.participationRepo, s.shiftRepo, s.missionRepo, s.userRepo, s.pointRepo,
		s.lboard, s.evaluator)

	s.userDomain = domain.NewUserDomain(s.userRepo)
	s.missionDomain = domain.NewMissionDomain(
		s.missionRepo, s.shiftRepo, s.participationRepo, s.userRepo, s.auditSink, s.notifier)
	s.shiftDomain = domain.NewShiftDomain(s.shiftRepo, s.missionRepo, s.userRepo, s.auditSink)
	s.participationDomain = domain.NewParticipationDomain(
		s.participationRepo, s.shiftRepo, s.missionRepo, s.userRepo, s.auditSink, s.notifier)
	s.pointDomain = domain.NewPointDomain(s.pointRepo, s.userRepo)
	s.achievementDomain = domain.NewAchievementDomain(s.achievementRepo, s.evaluator)
	s.statisticDomain = domain.NewStatisticDomain(
		s.userRepo, s.achievementRepo, s.yearlyStatRepo, s.lboard)
}
