package main

import (
	"fmt"
	"os"

	"github.com/navid-fn/nbu-rates/configs"
	"github.com/navid-fn/nbu-rates/internal/logger"
	"github.com/navid-fn/nbu-rates/server/internal/handler"
	"github.com/navid-fn/nbu-rates/server/internal/repository"
	"github.com/navid-fn/nbu-rates/server/internal/router"
	"github.com/navid-fn/nbu-rates/server/internal/service"
	"gorm.io/driver/clickhouse"
	"gorm.io/gorm"
)

func main() {
	cfg, err := configs.AppLoad()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.WithComponent(logger.New(cfg.Log.Level, cfg.Log.Format), "api")

	db, err := gorm.Open(clickhouse.Open(cfg.ClickHouse.DSN()), &gorm.Config{})
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	rateRepo := repository.NewGormRateRepository(db)
	rateService := service.NewRatesService(rateRepo)
	rateHandler := handler.NewRateHandler(rateService, log)

	routerConfig := &router.Config{
		RateHandler: rateHandler,
	}

	r := router.NewRouter(routerConfig)

	log.WithField("port", cfg.ServerPort).Info("Serving rates API")
	if err := r.Run(fmt.Sprintf(":%s", cfg.ServerPort)); err != nil {
		log.WithError(err).Fatal("Server stopped")
	}
}
