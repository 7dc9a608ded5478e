package router

import (
	"github.com/gin-gonic/gin"
	"github.com/navid-fn/nbu-rates/server/internal/handler"
)

type Config struct {
	RateHandler *handler.RateHandler
}

func NewRouter(cfg *Config) *gin.Engine {
	router := gin.Default()

	api := router.Group("/v1/")
	registerRateRoutes(api, cfg.RateHandler)

	return router
}
