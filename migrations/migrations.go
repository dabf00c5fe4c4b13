// Package migrations embeds the goose migrations for the ClickHouse event journal.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var FS embed.FS

// Up applies all pending migrations
func Up(db *sql.DB) error {
	if err := Setup(); err != nil {
		return err
	}
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Setup points goose at the embedded migrations and the ClickHouse dialect
func Setup() error {
	goose.SetBaseFS(FS)
	if err := goose.SetDialect("clickhouse"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	return nil
}
