package testutil

import (
	"context"
	"time"

	"github.com/TheoSfak/volunteer-ops-sub005/config"
	"github.com/TheoSfak/volunteer-ops-sub005/internal/entity"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/logger"
	"github.com/TheoSfak/volunteer-ops-sub005/pkg/xcontext"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func NewMockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	cfg := config.Configs{
		ApiServer: config.ServerConfigs{
			MaxLimit:     50,
			DefaultLimit: 20,
		},
		Shift: config.ShiftConfigs{DefaultCapacity: 10},
		Points: config.PointsConfigs{
			PointsPerHour:     10,
			WeekendMultiplier: 1.5,
			NightMultiplier:   1.5,
			MedicalMultiplier: 2.0,
			NightStartHour:    22,
			NightEndHour:      6,
			LastMinuteBonus:   20,
			LastMinuteWindow:  24 * time.Hour,
			NoShowPolicy:      config.NoShowForfeit,
		},
		LogLevel: logger.SILENCE,
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(cfg.LogLevel))
	ctx = xcontext.WithDB(ctx, db)

	if err := entity.MigrateTable(db); err != nil {
		panic(err)
	}

	return ctx
}

func NewMockContextWithUserID(ctx context.Context, userID string) context.Context {
	return xcontext.WithRequestUserID(ctx, userID)
}
