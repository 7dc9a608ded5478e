// Package models defines the domain models used across the application.
package models

import "time"

// Rate represents a single canonical exchange-rate row in the ClickHouse database.
// It is derived one-to-one from an upstream NBU observation.
type Rate struct {
	// ID is the natural key: "{currency}_{YYYYMMDD}", e.g. "usd_20260105".
	// At most one row exists per currency per quotation date.
	ID string `gorm:"column:id;primaryKey" json:"id"`

	// Currency is the lowercase three letter code (e.g., "usd", "eur").
	Currency string `gorm:"column:currency" json:"currency"`

	// Rate is the price in hryvnias of a single unit, rounded to 4 places.
	Rate float64 `gorm:"column:rate;type:Float64" json:"rate"`

	// Date is the quotation date, not the run date.
	Date time.Time `gorm:"column:date;type:Date" json:"date"`

	// UpdatedAt is when the row was produced; refreshed on every (re)load.
	// It is the version column for ReplacingMergeTree deduplication.
	UpdatedAt time.Time `gorm:"column:updated_at;type:DateTime64(3, 'UTC')" json:"updated_at"`
}

func (Rate) TableName() string {
	return "rates"
}

// RateID builds the natural key for a currency and quotation date.
func RateID(currency string, date time.Time) string {
	return currency + "_" + date.Format("20060102")
}
