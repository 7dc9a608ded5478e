package router

import (
	"github.com/gin-gonic/gin"
	"github.com/navid-fn/nbu-rates/server/internal/handler"
)

func registerRateRoutes(router *gin.RouterGroup, rateHandler *handler.RateHandler) {
	rates := router.Group("/rates")
	{
		rates.GET("", rateHandler.GetByDate)
		rates.GET("/:currency/latest", rateHandler.GetLatest)
	}
}
