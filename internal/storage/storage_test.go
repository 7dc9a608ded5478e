package storage

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/navid-fn/nbu-rates/internal/models"
)

func TestRateValuesMatchInsertColumns(t *testing.T) {
	now := time.Now()
	row := &models.Rate{
		ID:        "usd_20260105",
		Currency:  "usd",
		Rate:      41.9654,
		Date:      time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		UpdatedAt: now,
	}

	values := rateValues(row)
	columns := strings.Split(strings.Trim(strings.Split(insertRates, "(")[1], " \n\t)"), ",")

	if len(values) != len(columns) {
		t.Fatalf("Expected %d values for columns %v, got %d", len(columns), columns, len(values))
	}
	if values[0] != "usd_20260105" || values[2] != 41.9654 {
		t.Errorf("Unexpected values %v", values)
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	data, err := fs.ReadFile(migrations, "migrations/00001_create_rates.sql")
	if err != nil {
		t.Fatalf("Expected embedded migration: %v", err)
	}

	sql := string(data)
	for _, want := range []string{"-- +goose Up", "ReplacingMergeTree(updated_at)", "ORDER BY id"} {
		if !strings.Contains(sql, want) {
			t.Errorf("Expected migration to contain %q", want)
		}
	}
}

func TestStoreErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := error(&StoreError{Op: "send batch", Err: cause})

	if !errors.Is(err, cause) {
		t.Error("Expected StoreError to unwrap to its cause")
	}
	if err.Error() != "storage: send batch: connection reset" {
		t.Errorf("Unexpected message %q", err.Error())
	}
}
