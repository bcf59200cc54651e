// Package migrations wraps golang-migrate so the migrate command and the
// server can bring the cinema schema up to date from the SQL files in
// ./migrations.
package migrations

import (
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/uptrace/bun"
)

type Options struct {
	// MigrationsDir is the directory containing the *.up.sql / *.down.sql files.
	MigrationsDir string
}

func DefaultOptions() Options {
	return Options{MigrationsDir: "./migrations"}
}

type Runner struct {
	bunDB    *bun.DB
	options  Options
	migrator *migrate.Migrate
}

func NewRunner(bunDB *bun.DB, opts Options) *Runner {
	return &Runner{bunDB: bunDB, options: opts}
}

func (r *Runner) initialize() error {
	if r.migrator != nil {
		return nil
	}

	driver, err := postgres.WithInstance(r.bunDB.DB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create postgres migration driver: %w", err)
	}

	if _, err := os.Stat(r.options.MigrationsDir); os.IsNotExist(err) {
		return fmt.Errorf("migrations directory does not exist: %s", r.options.MigrationsDir)
	}

	migrator, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", r.options.MigrationsDir),
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	r.migrator = migrator
	return nil
}

// Up applies all pending migrations. No pending migrations is not an error.
func (r *Runner) Up() error {
	if err := r.initialize(); err != nil {
		return err
	}
	if err := r.migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// Down rolls back the most recent migration.
func (r *Runner) Down() error {
	if err := r.initialize(); err != nil {
		return err
	}
	if err := r.migrator.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}
	return nil
}

// Version reports the current schema version and whether it is dirty.
func (r *Runner) Version() (uint, bool, error) {
	if err := r.initialize(); err != nil {
		return 0, false, err
	}
	version, dirty, err := r.migrator.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}
