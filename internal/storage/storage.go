// Package storage provides the ClickHouse destination for canonical exchange rates.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/navid-fn/nbu-rates/internal/models"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

const insertRates = `
	INSERT INTO rates (
		id, currency, rate, date, updated_at
	)
`

// Storage defines the interface for persisting canonical rate rows.
// Implementations must be safe for concurrent use.
type Storage interface {
	// UpsertRates writes one logical date's rows keyed by id and returns the
	// number of rows written. The batch is all-or-nothing.
	UpsertRates(ctx context.Context, rows []*models.Rate) (int, error)

	// Close releases database connection resources.
	Close() error
}

// StoreError reports a failed destination write.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// clickhouseStorage implements Storage using the native ClickHouse driver.
//
// The rates table is a ReplacingMergeTree keyed by id with updated_at as
// version, so re-inserting a row is an upsert: merges (and FINAL reads) keep
// the newest version. Each call sends a single native block, which MergeTree
// writes atomically per partition; concurrent loads of different dates do not
// interact.
type clickhouseStorage struct {
	conn driver.Conn
}

// NewClickHouseStorage creates a new ClickHouse storage connection.
// It parses the DSN, opens a connection, and verifies connectivity with a ping.
// Returns an error if connection cannot be established within 5 seconds.
func NewClickHouseStorage(dsn string) (Storage, error) {
	opts, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, &StoreError{Op: "parse dsn", Err: err}
	}

	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, &StoreError{Op: "open", Err: err}
	}

	// Test connection with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.Ping(ctx); err != nil {
		conn.Close()
		return nil, &StoreError{Op: "ping", Err: err}
	}

	return &clickhouseStorage{conn: conn}, nil
}

// UpsertRates inserts rows using one ClickHouse batch. A failure at any
// point aborts the batch so nothing of this date is half written.
func (s *clickhouseStorage) UpsertRates(ctx context.Context, rows []*models.Rate) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	batch, err := s.conn.PrepareBatch(ctx, insertRates)
	if err != nil {
		return 0, &StoreError{Op: "prepare batch", Err: err}
	}

	for _, r := range rows {
		if err := batch.Append(rateValues(r)...); err != nil {
			_ = batch.Abort()
			return 0, &StoreError{Op: fmt.Sprintf("append %s", r.ID), Err: err}
		}
	}

	if err := batch.Send(); err != nil {
		return 0, &StoreError{Op: "send batch", Err: err}
	}
	return len(rows), nil
}

// Close closes the ClickHouse connection.
func (s *clickhouseStorage) Close() error {
	return s.conn.Close()
}

// rateValues orders a row's fields as the insert statement's columns.
func rateValues(r *models.Rate) []any {
	return []any{
		r.ID,
		r.Currency,
		r.Rate,
		r.Date,
		r.UpdatedAt,
	}
}
