package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// BackfillReport collects the outcome of every date in a backfill.
type BackfillReport struct {
	Results []Result
	Failed  map[string]error
}

// Err joins every failed date's error, oldest first, or returns nil.
func (r *BackfillReport) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	dates := make([]string, 0, len(r.Failed))
	for d := range r.Failed {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	errs := make([]error, 0, len(dates))
	for _, d := range dates {
		errs = append(errs, r.Failed[d])
	}
	return fmt.Errorf("backfill: %d of %d dates failed: %w",
		len(r.Failed), len(r.Failed)+len(r.Results), errors.Join(errs...))
}

// Backfill runs every logical date in [from, to] with at most workers runs
// in flight. A failed date does not stop the others; the returned error
// lists every failure.
func Backfill(ctx context.Context, runner Runner, from, to time.Time, workers int, logger logrus.FieldLogger) (*BackfillReport, error) {
	dates, err := DatesBetween(from, to)
	if err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = 1
	}

	log := logger.WithField("component", "backfill")
	log.WithFields(logrus.Fields{
		"from":    dates[0],
		"to":      dates[len(dates)-1],
		"dates":   len(dates),
		"workers": workers,
	}).Info("Starting backfill")

	report := &BackfillReport{Failed: make(map[string]error)}
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(workers)
	for _, ds := range dates {
		g.Go(func() error {
			if ctx.Err() != nil {
				mu.Lock()
				report.Failed[ds] = ctx.Err()
				mu.Unlock()
				return nil
			}

			res, err := runner.Run(ctx, ds)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.WithError(err).WithField("logical_date", ds).Error("Run failed")
				report.Failed[ds] = err
				return nil
			}
			report.Results = append(report.Results, res)
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(report.Results, func(i, j int) bool {
		return report.Results[i].LogicalDate < report.Results[j].LogicalDate
	})

	log.WithFields(logrus.Fields{
		"succeeded": len(report.Results),
		"failed":    len(report.Failed),
	}).Info("Backfill finished")

	return report, report.Err()
}

// DatesBetween lists the YYYY-MM-DD dates from from to to inclusive.
func DatesBetween(from, to time.Time) ([]string, error) {
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	if start.After(end) {
		return nil, fmt.Errorf("backfill: from %s is after to %s",
			start.Format(time.DateOnly), end.Format(time.DateOnly))
	}

	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(time.DateOnly))
	}
	return dates, nil
}
