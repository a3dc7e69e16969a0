package repository

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations applies the PostgreSQL schema. SQLite creates its schema on open.
func RunMigrations(databaseURL string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return fmt.Errorf("create migration instance: %w", err)
	}
	defer m.Close()

	err = m.Up()
	var dirtyErr migrate.ErrDirty
	switch {
	case err == nil, errors.Is(err, migrate.ErrNoChange):
		return nil
	case errors.As(err, &dirtyErr):
		return recoverDirty(m, dirtyErr.Version)
	default:
		return fmt.Errorf("run migrations: %w", err)
	}
}

// recoverDirty rolls the version marker back past a half-applied migration and
// applies it again. Every up migration is written to be re-runnable.
func recoverDirty(m *migrate.Migrate, version int) error {
	previous := max(version-1, 0)
	if err := m.Force(previous); err != nil {
		return fmt.Errorf("force clean migration version %d: %w", previous, err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("rerun migrations after dirty state at version %d: %w", version, err)
	}

	return nil
}
