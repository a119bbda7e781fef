package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Action = cli.ShowAppHelp
	app.Name = "volunteer-ops"
	app.Usage = "Volunteer mission and shift coordination"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "path to a toml configuration file",
		},
	}
	app.Commands = []*cli.Command{
		{
			Action:      s.startApi,
			Name:        "api",
			Usage:       "Start the coordination api",
			Category:    "Service",
			Description: "Serves every coordination operation over http.",
		},
		{
			Action:      s.startCron,
			Name:        "cron",
			Usage:       "Start the background jobs",
			Category:    "Service",
			Description: "Runs the reward sweep, the monthly refresh and the yearly archiver.",
		},
		{
			Action:   s.startMigrate,
			Name:     "migrate",
			Usage:    "Create or update the database tables",
			Category: "Maintenance",
		},
		{
			Action:   s.startSweep,
			Name:     "sweep",
			Usage:    "Settle rewards for every ended shift",
			Category: "Maintenance",
		},
		{
			Action:   s.startRefreshMonthly,
			Name:     "refresh-monthly",
			Usage:    "Re-derive the cached monthly points from the ledger",
			Category: "Maintenance",
		},
		{
			Action:   s.startArchive,
			Name:     "archive",
			Usage:    "Archive the yearly stats of a closed year",
			Category: "Maintenance",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "year", Usage: "the calendar year to archive", Required: true},
			},
		},
		{
			Action:   s.startResetPoints,
			Name:     "reset-points",
			Usage:    "Zero every cached point counter and drop the leaderboards",
			Category: "Maintenance",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "confirm", Usage: "required, the reset cannot be undone"},
			},
			Description: "The ledger is kept; only derived counters and caches are reset. " +
				"Usually run right after the yearly archive.",
		},
	}

	s.app = app
}
