package service

import (
	"context"
	"strings"
	"time"

	"github.com/navid-fn/nbu-rates/internal/models"
	"github.com/navid-fn/nbu-rates/server/internal/repository"
)

type RatesService struct {
	repo repository.RateRepository
}

func NewRatesService(repo repository.RateRepository) *RatesService {
	return &RatesService{
		repo: repo,
	}
}

// RatesForDate returns the rates quoted on date, optionally for one currency.
func (rs *RatesService) RatesForDate(ctx context.Context, date time.Time, currency string) ([]models.Rate, error) {
	rates, err := rs.repo.GetRatesByDate(ctx, date, strings.ToLower(currency))
	if err != nil {
		return nil, err
	}
	if rates == nil {
		rates = []models.Rate{}
	}
	return rates, nil
}

// LatestRate returns the most recent quotation for currency.
func (rs *RatesService) LatestRate(ctx context.Context, currency string) (*models.Rate, error) {
	return rs.repo.GetLatestRate(ctx, strings.ToLower(currency))
}
