package db

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/AdamBeresnev/mariolympics/migrations"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// DSN builds the go-sqlite3 connection string. Foreign keys are enabled per
// connection so cascades work on every pooled connection.
func DSN(path string) string {
	return fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", path)
}

func InitDB(path string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", DSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", path, err)
	}

	slog.Info("database connected", "path", path)
	return db, nil
}

// RunMigrations applies every embedded migration that has not run yet.
func RunMigrations(db *sql.DB) error {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to open migration source: %w", err)
	}

	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migrate driver instance: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	slog.Info("migrations applied", "version", version, "dirty", dirty)
	return nil
}
