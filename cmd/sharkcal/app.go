package main

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/schoolofsharks/trainingcal/internal/client"
	"github.com/schoolofsharks/trainingcal/internal/components/calendar"
	"github.com/schoolofsharks/trainingcal/internal/shared/config"
	"github.com/schoolofsharks/trainingcal/internal/shared/logging"
)

// session is what every command works with: a REST client, and a calendar aggregator with its own
// cache running on top of it.
type session struct {
	client   *client.Client
	cache    *calendar.Cache
	calendar *calendar.Service
	logger   zerolog.Logger
}

func newSession(c *cli.Context) *session {
	level := zerolog.InfoLevel
	if c.Bool("verbose") {
		level = zerolog.DebugLevel
	}
	logger := logging.NewConsoleLogger(c.App.ErrWriter, level)

	timeout := c.Duration("timeout")
	api := client.New(c.String("server"), timeout, logger)
	cache := calendar.NewCache(logger)
	return &session{
		client:   api,
		cache:    cache,
		calendar: calendar.NewService(api, api, cache, &config.Config{CalendarFetchTimeout: timeout}, logger),
		logger:   logger,
	}
}

func newApp() *cli.App {
	now := time.Now()
	monthFlags := []cli.Flag{
		&cli.Int64Flag{
			Name:     "user",
			Aliases:  []string{"u"},
			Required: true,
			Usage:    "athlete user id",
			EnvVars:  []string{"SHARKCAL_USER"},
		},
		&cli.IntFlag{
			Name:  "year",
			Value: now.Year(),
			Usage: "calendar year",
		},
		&cli.IntFlag{
			Name:  "month",
			Value: int(now.Month()),
			Usage: "calendar month, 1-12",
		},
	}

	return &cli.App{
		Name:     "sharkcal",
		HelpName: "sharkcal",
		Usage:    "School of Sharks training calendar",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Value:   "http://localhost:8080",
				Usage:   "calendar server base URL",
				EnvVars: []string{"SHARKCAL_SERVER"},
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Value:   10 * time.Second,
				Usage:   "timeout for loading one month",
				EnvVars: []string{"SHARKCAL_TIMEOUT"},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log backend calls",
			},
		},
		ExitErrHandler: func(c *cli.Context, err error) {
			if err == nil {
				return
			}
			logger := logging.NewConsoleLogger(c.App.ErrWriter, zerolog.InfoLevel)
			logger.Error().Err(err).Msg(c.App.Name)
		},
		Commands: []*cli.Command{
			{
				Name:   "month",
				Usage:  "print one month of activities and assigned workouts",
				Flags:  append(monthFlags, &cli.BoolFlag{Name: "json", Usage: "print the month as JSON"}),
				Action: monthAction,
			},
			{
				Name:   "browse",
				Usage:  "navigate months interactively (n: next, p: previous, r: reload, q: quit)",
				Flags:  monthFlags,
				Action: browseAction,
			},
			{
				Name:      "assign",
				Usage:     "assign a library workout to an athlete",
				ArgsUsage: " ",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "user", Aliases: []string{"u"}, Required: true, Usage: "athlete user id", EnvVars: []string{"SHARKCAL_USER"}},
					&cli.Int64Flag{Name: "coach", Required: true, Usage: "coach user id", EnvVars: []string{"SHARKCAL_COACH"}},
					&cli.Int64Flag{Name: "workout", Aliases: []string{"w"}, Required: true, Usage: "workout library id"},
					&cli.StringFlag{Name: "date", Aliases: []string{"d"}, Required: true, Usage: "scheduled date, YYYY-MM-DD"},
					&cli.StringFlag{Name: "priority", Value: "normal", Usage: "low, normal, high or urgent"},
					&cli.Float64Flag{Name: "duration", Value: 1.0, Usage: "duration multiplier"},
					&cli.Float64Flag{Name: "intensity", Value: 1.0, Usage: "intensity multiplier"},
					&cli.StringFlag{Name: "notes", Usage: "notes for the athlete"},
				},
				Action: assignAction,
			},
			{
				Name:      "unassign",
				Usage:     "delete an assignment",
				ArgsUsage: "ASSIGNMENT_ID",
				Action:    unassignAction,
			},
			{
				Name:      "status",
				Usage:     "change the status of an assignment",
				ArgsUsage: "ASSIGNMENT_ID STATUS",
				Action:    statusAction,
			},
		},
	}
}
