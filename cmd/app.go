package cmd

import (
	"fmt"

	"github.com/rnwolfe/reps/internal/calendar"
	"github.com/rnwolfe/reps/internal/config"
	"github.com/rnwolfe/reps/internal/logging"
	"github.com/rnwolfe/reps/internal/store"
	"github.com/rnwolfe/reps/internal/workout"
	"go.uber.org/multierr"
)

// clock is the source of "today" for every command.
var clock = calendar.SystemClock

// app bundles what most commands need: config, the log file, the database
// and the workout store on top of it.
type app struct {
	cfg      *config.Config
	log      *logging.Logger
	db       *store.DB
	workouts *workout.Store
}

func openApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logFile := cfg.Log.File
	if logFile == "" {
		logFile = config.GetPaths().LogFile
	}
	log, err := logging.Setup(logging.Params{FileName: logFile, Level: cfg.Log.Level})
	if err != nil {
		return nil, fmt.Errorf("opening log: %w", err)
	}

	db, err := store.Open()
	if err != nil {
		return nil, multierr.Append(fmt.Errorf("opening store: %w", err), log.Close())
	}
	log.WithField("path", db.Path()).Debug("database opened")

	return &app{cfg: cfg, log: log, db: db, workouts: workout.NewStore(db.Conn())}, nil
}

func (a *app) Close() error {
	return multierr.Combine(a.db.Close(), a.log.Close())
}

func (a *app) today() calendar.Date {
	return clock.CurrentDate()
}
