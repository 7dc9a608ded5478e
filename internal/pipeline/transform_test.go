package pipeline

import (
	"testing"
	"time"

	"github.com/navid-fn/nbu-rates/internal/nbu"
)

func TestTransform(t *testing.T) {
	now := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	rates := []nbu.ExchangeRate{
		{TimeSign: "0000", StartDate: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), Units: 1, CurrencyCode: "840", CurrencyCodeL: "USD", Amount: 41.9654},
		{TimeSign: "0000", StartDate: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), Units: 100, CurrencyCode: "392", CurrencyCodeL: "JPY", Amount: 250.1234},
	}

	rows := Transform(rates, now)

	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}

	usd := rows[0]
	if usd.ID != "usd_20260105" {
		t.Errorf("Expected id usd_20260105, got %s", usd.ID)
	}
	if usd.Currency != "usd" {
		t.Errorf("Expected currency usd, got %s", usd.Currency)
	}
	if usd.Rate != 41.9654 {
		t.Errorf("Expected rate 41.9654, got %v", usd.Rate)
	}
	if !usd.Date.Equal(time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected date 2026-01-05, got %v", usd.Date)
	}
	if !usd.UpdatedAt.Equal(now) {
		t.Errorf("Expected updated_at %v, got %v", now, usd.UpdatedAt)
	}

	jpy := rows[1]
	if jpy.ID != "jpy_20260105" || jpy.Rate != 2.5012 {
		t.Errorf("Expected jpy_20260105 at 2.5012, got %s at %v", jpy.ID, jpy.Rate)
	}
}

func TestTransformEmpty(t *testing.T) {
	rows := Transform(nil, time.Now())
	if len(rows) != 0 {
		t.Errorf("Expected no rows, got %d", len(rows))
	}
}

func TestPerUnitRate(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		units    int
		expected float64
	}{
		{"Single unit", 41.9654, 1, 41.9654},
		{"Hundred units", 250.1234, 100, 2.5012},
		{"Half rounds up", 1.00005, 1, 1.0001},
		{"Half away from zero not to even", 0.00025, 1, 0.0003},
		{"Below half rounds down", 1.000049, 1, 1.0},
		{"Half after division", 0.0015, 10, 0.0002},
		{"Missing units default to one", 12.34567, 0, 12.3457},
		{"Ten units", 4.5678, 10, 0.4568},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PerUnitRate(tt.amount, tt.units); got != tt.expected {
				t.Errorf("PerUnitRate(%v, %d) = %v, want %v", tt.amount, tt.units, got, tt.expected)
			}
		})
	}
}
