package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Configs struct {
	Env string `toml:"env"`

	Database  DatabaseConfigs `toml:"database"`
	ApiServer ServerConfigs   `toml:"api_server"`
	Redis     RedisConfigs    `toml:"redis"`
	Shift     ShiftConfigs    `toml:"shift"`
	Points    PointsConfigs   `toml:"points"`
	Cron      CronConfigs     `toml:"cron"`
	LogLevel  int             `toml:"log_level"`
}

type DatabaseConfigs struct {
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	Database string `toml:"database"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host         string `toml:"host"`
	Port         string `toml:"port"`
	DefaultLimit int    `toml:"default_limit"`
	MaxLimit     int    `toml:"max_limit"`
}

type RedisConfigs struct {
	Addr string `toml:"addr"`
}

type ShiftConfigs struct {
	// DefaultCapacity is used when a shift is created without an explicit
	// max capacity.
	DefaultCapacity int `toml:"default_capacity"`
}

// PointsConfigs drives the rewards engine. All values are read at evaluation
// time so an operator can tune them without re-deploying.
type PointsConfigs struct {
	PointsPerHour float64 `toml:"points_per_hour"`

	WeekendMultiplier float64 `toml:"weekend_multiplier"`
	NightMultiplier   float64 `toml:"night_multiplier"`
	MedicalMultiplier float64 `toml:"medical_multiplier"`

	// The night window wraps midnight when NightStartHour > NightEndHour.
	NightStartHour int `toml:"night_start_hour"`
	NightEndHour   int `toml:"night_end_hour"`

	LastMinuteBonus  int64         `toml:"last_minute_bonus"`
	LastMinuteWindow time.Duration `toml:"last_minute_window"`

	// NoShowPolicy is "forfeit" (default) or "partial". With "partial" a
	// no-show earns base points scaled by NoShowPartialRate and no bonuses.
	NoShowPolicy      string  `toml:"no_show_policy"`
	NoShowPartialRate float64 `toml:"no_show_partial_rate"`
}

type CronConfigs struct {
	SweepInterval time.Duration `toml:"sweep_interval"`
}

const (
	NoShowForfeit = "forfeit"
	NoShowPartial = "partial"
)

// Default returns the configuration used when no file overrides it.
func Default() Configs {
	return Configs{
		Env: "local",
		ApiServer: ServerConfigs{
			Port:         "8080",
			DefaultLimit: 20,
			MaxLimit:     50,
		},
		Shift: ShiftConfigs{DefaultCapacity: 10},
		Points: PointsConfigs{
			PointsPerHour:     10,
			WeekendMultiplier: 1.5,
			NightMultiplier:   1.5,
			MedicalMultiplier: 2.0,
			NightStartHour:    22,
			NightEndHour:      6,
			LastMinuteBonus:   20,
			LastMinuteWindow:  24 * time.Hour,
			NoShowPolicy:      NoShowForfeit,
		},
		Cron:     CronConfigs{SweepInterval: 5 * time.Minute},
		LogLevel: 1,
	}
}

// Load reads a TOML file over the defaults. Database credentials may be
// overridden by MYSQL_DSN-style environment variables for deployments that
// inject secrets.
func Load(path string) (Configs, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Configs{}, err
		}
	}

	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Database.Host = host
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		cfg.Database.Password = password
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}

	return cfg, nil
}
