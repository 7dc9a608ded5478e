package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/navid-fn/nbu-rates/server/internal/repository"
	"github.com/navid-fn/nbu-rates/server/internal/service"
	"github.com/sirupsen/logrus"
)

type RateHandler struct {
	rateService *service.RatesService
	logger      logrus.FieldLogger
}

func NewRateHandler(service *service.RatesService, logger logrus.FieldLogger) *RateHandler {
	return &RateHandler{
		rateService: service,
		logger:      logger.WithField("component", "rate-handler"),
	}
}

// GetByDate serves GET /v1/rates?date=YYYY-MM-DD[&currency=usd].
func (h *RateHandler) GetByDate(c *gin.Context) {
	date, err := time.Parse(time.DateOnly, c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	rates, err := h.rateService.RatesForDate(c.Request.Context(), date, c.Query("currency"))
	if err != nil {
		h.logger.WithError(err).Error("Query rates by date failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, rates)
}

// GetLatest serves GET /v1/rates/:currency/latest.
func (h *RateHandler) GetLatest(c *gin.Context) {
	currency := c.Param("currency")
	if len(currency) != 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "currency must be a 3 letter code"})
		return
	}

	rate, err := h.rateService.LatestRate(c.Request.Context(), currency)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no rate for " + currency})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Query latest rate failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, rate)
}
