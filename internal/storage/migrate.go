package storage

import (
	"database/sql"
	"embed"

	_ "github.com/ClickHouse/clickhouse-go/v2" // ClickHouse driver
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// OpenDB opens a database/sql handle for migrations and verifies it.
func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("clickhouse", dsn)
	if err != nil {
		return nil, &StoreError{Op: "open", Err: err}
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &StoreError{Op: "ping", Err: err}
	}
	return db, nil
}

// Migrate applies the embedded schema migrations.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("clickhouse"); err != nil {
		return &StoreError{Op: "goose dialect", Err: err}
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return &StoreError{Op: "migrate", Err: err}
	}
	return nil
}
