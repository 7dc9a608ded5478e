// Package pipeline runs the extract, transform, load sequence that moves one
// logical day of NBU exchange rates into the destination table.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/navid-fn/nbu-rates/internal/models"
	"github.com/navid-fn/nbu-rates/internal/nbu"

	"github.com/sirupsen/logrus"
)

// ErrNoRates is returned when extraction yields nothing; a run never
// succeeds with zero rows.
var ErrNoRates = errors.New("no rates extracted")

// Extractor fetches validated upstream rates for a DD.MM.YYYY date.
type Extractor interface {
	GetRates(ctx context.Context, date string) ([]nbu.ExchangeRate, error)
}

// Loader writes canonical rows and returns how many were written.
type Loader interface {
	UpsertRates(ctx context.Context, rows []*models.Rate) (int, error)
}

// Publisher announces loaded rows.
type Publisher interface {
	Publish(ctx context.Context, rows []*models.Rate) error
}

// Runner runs the pipeline for one logical date (YYYY-MM-DD).
type Runner interface {
	Run(ctx context.Context, logicalDate string) (Result, error)
}

// Result summarises one run.
type Result struct {
	LogicalDate string
	Fetched     int
	Loaded      int
}

// StageError tells which stage failed a run.
type StageError struct {
	Stage       string
	LogicalDate string
	Err         error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("pipeline %s: %s: %v", e.LogicalDate, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Pipeline runs extract, transform and load in sequence. Runs for
// different logical dates are independent and may execute concurrently.
type Pipeline struct {
	extractor Extractor
	loader    Loader
	publisher Publisher
	logger    logrus.FieldLogger
	now       func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithPublisher announces loaded rows after each successful load.
func WithPublisher(p Publisher) Option {
	return func(pl *Pipeline) { pl.publisher = p }
}

// WithClock overrides the clock stamping UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(pl *Pipeline) { pl.now = now }
}

func New(extractor Extractor, loader Loader, logger logrus.FieldLogger, opts ...Option) *Pipeline {
	p := &Pipeline{
		extractor: extractor,
		loader:    loader,
		logger:    logger.WithField("component", "pipeline"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run loads the rates for logicalDate (YYYY-MM-DD). Any stage failure fails
// the run; nothing partial is reported as success.
func (p *Pipeline) Run(ctx context.Context, logicalDate string) (Result, error) {
	result := Result{LogicalDate: logicalDate}
	log := p.logger.WithField("logical_date", logicalDate)

	date, err := ParseLogicalDate(logicalDate)
	if err != nil {
		return result, &StageError{Stage: "parse", LogicalDate: logicalDate, Err: err}
	}

	rates, err := p.extractor.GetRates(ctx, UpstreamDate(date))
	if err != nil {
		return result, &StageError{Stage: "extract", LogicalDate: logicalDate, Err: err}
	}
	if len(rates) == 0 {
		return result, &StageError{Stage: "extract", LogicalDate: logicalDate, Err: ErrNoRates}
	}
	result.Fetched = len(rates)
	log.WithField("rates", len(rates)).Debug("Extracted")

	rows := Transform(rates, p.now().UTC())

	loaded, err := p.loader.UpsertRates(ctx, rows)
	if err != nil {
		return result, &StageError{Stage: "load", LogicalDate: logicalDate, Err: err}
	}
	result.Loaded = loaded
	log.WithField("rows", loaded).Info("Loaded rates")

	if p.publisher != nil {
		// Rows are committed already; a re-run re-publishes them.
		if err := p.publisher.Publish(ctx, rows); err != nil {
			log.WithError(err).Warn("Failed to publish loaded rates")
		}
	}

	return result, nil
}

// ParseLogicalDate parses a YYYY-MM-DD logical date.
func ParseLogicalDate(ds string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, ds)
	if err != nil {
		return time.Time{}, fmt.Errorf("logical date %q is not YYYY-MM-DD", ds)
	}
	return t, nil
}

// UpstreamDate formats a date the way the API expects it.
func UpstreamDate(t time.Time) string {
	return t.Format(nbu.DateLayout)
}
