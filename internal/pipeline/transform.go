package pipeline

import (
	"strings"
	"time"

	"github.com/navid-fn/nbu-rates/internal/models"
	"github.com/navid-fn/nbu-rates/internal/nbu"

	"github.com/shopspring/decimal"
)

// ratePlaces is the precision of a stored per-unit rate.
const ratePlaces = 4

// Transform converts validated upstream rates into canonical rows, one-to-one
// and in order. now becomes UpdatedAt on every row.
func Transform(rates []nbu.ExchangeRate, now time.Time) []*models.Rate {
	rows := make([]*models.Rate, 0, len(rates))
	for _, r := range rates {
		currency := strings.ToLower(r.CurrencyCodeL)
		date := time.Date(r.StartDate.Year(), r.StartDate.Month(), r.StartDate.Day(), 0, 0, 0, 0, time.UTC)

		rows = append(rows, &models.Rate{
			ID:        models.RateID(currency, date),
			Currency:  currency,
			Rate:      PerUnitRate(r.Amount, r.Units),
			Date:      date,
			UpdatedAt: now,
		})
	}
	return rows
}

// PerUnitRate divides amount by units and rounds half away from zero to 4
// places. Non-positive units count as 1.
func PerUnitRate(amount float64, units int) float64 {
	if units <= 0 {
		units = 1
	}
	return decimal.NewFromFloat(amount).
		Div(decimal.NewFromInt(int64(units))).
		Round(ratePlaces).
		InexactFloat64()
}
