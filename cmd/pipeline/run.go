package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/navid-fn/nbu-rates/configs"
	"github.com/navid-fn/nbu-rates/internal/logger"
	"github.com/navid-fn/nbu-rates/internal/nbu"
	"github.com/navid-fn/nbu-rates/internal/pipeline"
	"github.com/navid-fn/nbu-rates/internal/publisher"
	"github.com/navid-fn/nbu-rates/internal/storage"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// app holds everything a command needs. close releases the store and the
// publisher.
type app struct {
	cfg      *configs.AppConfig
	log      *logrus.Logger
	pipeline *pipeline.Pipeline
	close    func()
}

func newApp() (*app, error) {
	cfg, err := configs.AppLoad()
	if err != nil {
		return nil, err
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	client := nbu.NewClient(nbu.ClientConfig{
		BaseURL:           cfg.NBU.BaseURL,
		RequestTimeout:    cfg.NBU.RequestTimeout,
		RequestsPerSecond: cfg.NBU.RequestsPerSecond,
	}, log)
	extractor := nbu.NewRepository(client, cfg.NBU.Format)

	store, err := storage.NewClickHouseStorage(cfg.ClickHouse.DSN())
	if err != nil {
		return nil, err
	}

	var opts []pipeline.Option
	closers := []func() error{store.Close}
	if cfg.Kafka.Enabled() {
		pub := publisher.NewKafkaPublisher(publisher.NewKafkaWriter(cfg.Kafka.Broker, cfg.Kafka.Topic))
		opts = append(opts, pipeline.WithPublisher(pub))
		closers = append(closers, pub.Close)
		log.WithFields(logrus.Fields{
			"broker": cfg.Kafka.Broker,
			"topic":  cfg.Kafka.Topic,
		}).Info("Publishing loaded rates")
	}

	return &app{
		cfg:      cfg,
		log:      log,
		pipeline: pipeline.New(extractor, store, log, opts...),
		close: func() {
			for _, c := range closers {
				if err := c(); err != nil {
					log.WithError(err).Warn("Close failed")
				}
			}
		},
	}, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runOnce(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	date := runDate
	if date == "" {
		date = time.Now().In(a.cfg.Schedule.Location).Format(time.DateOnly)
	}

	ctx, cancel := signalContext()
	defer cancel()

	result, err := a.pipeline.Run(ctx, date)
	if err != nil {
		return err
	}
	a.log.WithFields(logrus.Fields{
		"logical_date": result.LogicalDate,
		"fetched":      result.Fetched,
		"loaded":       result.Loaded,
	}).Info("Run complete")
	return nil
}

func backfill(cmd *cobra.Command, args []string) error {
	from, err := pipeline.ParseLogicalDate(backfillFrom)
	if err != nil {
		return fmt.Errorf("--from: %w", err)
	}
	to, err := pipeline.ParseLogicalDate(backfillTo)
	if err != nil {
		return fmt.Errorf("--to: %w", err)
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	n := workers
	if n <= 0 {
		n = a.cfg.Schedule.BackfillWorkers
	}

	ctx, cancel := signalContext()
	defer cancel()

	report, err := pipeline.Backfill(ctx, a.pipeline, from, to, n, a.log)
	if err != nil {
		return err
	}
	return report.Err()
}

func schedule(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := signalContext()
	defer cancel()

	s := pipeline.NewScheduler(a.pipeline, pipeline.SchedulerConfig{
		Hour:         a.cfg.Schedule.Hour,
		Location:     a.cfg.Schedule.Location,
		CatchupStart: a.cfg.Schedule.CatchupStart,
		Workers:      a.cfg.Schedule.BackfillWorkers,
	}, a.log)
	return s.Run(ctx)
}
