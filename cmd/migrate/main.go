package main

import (
	"fmt"
	"os"

	"github.com/navid-fn/nbu-rates/configs"
	"github.com/navid-fn/nbu-rates/internal/logger"
	"github.com/navid-fn/nbu-rates/internal/storage"
)

func main() {
	cfg, err := configs.AppLoad()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.WithComponent(logger.New(cfg.Log.Level, cfg.Log.Format), "migrate")

	db, err := storage.OpenDB(cfg.ClickHouse.DSN())
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	log.Info("Running database migrations...")
	if err := storage.Migrate(db); err != nil {
		db.Close()
		log.WithError(err).Fatal("Goose migration failed")
	}

	log.Info("Migrations completed successfully")
}
