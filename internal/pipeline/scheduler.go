package pipeline

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// SchedulerConfig configures the daily runner.
type SchedulerConfig struct {
	// Hour is the hour of day (0-23) the daily run starts.
	Hour int

	// Location is the timezone Hour and the logical date are evaluated in.
	Location *time.Location

	// CatchupStart, when set, is the first date loaded on startup; every
	// date up to yesterday is backfilled before daily runs begin.
	CatchupStart time.Time

	// Workers bounds catchup concurrency.
	Workers int
}

// Scheduler triggers one pipeline run per day for the current logical date.
type Scheduler struct {
	runner Runner
	cfg    SchedulerConfig
	logger logrus.FieldLogger
	now    func() time.Time
}

func NewScheduler(runner Runner, cfg SchedulerConfig, logger logrus.FieldLogger) *Scheduler {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Scheduler{
		runner: runner,
		cfg:    cfg,
		logger: logger.WithField("component", "scheduler"),
		now:    time.Now,
	}
}

// Run blocks until ctx is cancelled. A failed daily run is logged and the
// next day is still scheduled.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.WithFields(logrus.Fields{
		"hour":     s.cfg.Hour,
		"timezone": s.cfg.Location.String(),
	}).Info("Starting scheduler")

	s.catchup(ctx)

	for {
		nextRun := NextRunTime(s.now(), s.cfg.Hour, s.cfg.Location)
		s.logger.WithField("next_run", nextRun.Format(time.RFC3339)).Info("Scheduled")

		timer := time.NewTimer(time.Until(nextRun))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
			s.runToday(ctx)
		}
	}
}

func (s *Scheduler) runToday(ctx context.Context) {
	ds := s.now().In(s.cfg.Location).Format(time.DateOnly)
	res, err := s.runner.Run(ctx, ds)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.WithError(err).WithField("logical_date", ds).Error("Daily run failed")
		}
		return
	}
	s.logger.WithFields(logrus.Fields{
		"logical_date": res.LogicalDate,
		"rows":         res.Loaded,
	}).Info("Daily run succeeded")
}

// catchup loads every date from CatchupStart up to the last date whose run
// time has passed: yesterday, or today when the run hour is already behind.
func (s *Scheduler) catchup(ctx context.Context) {
	if s.cfg.CatchupStart.IsZero() {
		return
	}
	now := s.now()
	local := now.In(s.cfg.Location)
	end := time.Date(local.Year(), local.Month(), local.Day()-1, 0, 0, 0, 0, time.UTC)
	if next := NextRunTime(now, s.cfg.Hour, s.cfg.Location); next.Day() != local.Day() {
		end = end.AddDate(0, 0, 1)
	}

	start := s.cfg.CatchupStart
	if time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC).After(end) {
		return
	}
	if _, err := Backfill(ctx, s.runner, start, end, s.cfg.Workers, s.logger); err != nil {
		s.logger.WithError(err).Error("Catchup incomplete")
	}
}

// NextRunTime returns the next occurrence of hour:00 in loc strictly after now.
func NextRunTime(now time.Time, hour int, loc *time.Location) time.Time {
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), hour, 0, 0, 0, loc)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, hour, 0, 0, 0, loc)
	}
	return next
}
