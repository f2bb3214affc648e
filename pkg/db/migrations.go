package db

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"
)

// RunMigrations applies every pending migration found in dir
func RunMigrations(cfg *Config, dir string, logger *logrus.Logger) error {
	migrationsPath := "file://" + dir

	logger.WithFields(logrus.Fields{
		"migrations_path": migrationsPath,
	}).Debug("Running database migrations")

	m, err := migrate.New(migrationsPath, cfg.URL())
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// MigrationStatus returns the current migration version and dirty state
func MigrationStatus(cfg *Config, logger *logrus.Logger) (uint, bool, error) {
	logger.Debug("Checking migration status")

	dir, err := cfg.migrationsDir()
	if err != nil {
		return 0, false, fmt.Errorf("failed to locate migrations: %w", err)
	}

	m, err := migrate.New("file://"+dir, cfg.URL())
	if err != nil {
		return 0, false, fmt.Errorf("failed to create migrator: %w", err)
	}
	defer m.Close()

	version, dirty, err := m.Version()
	if err != nil {
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"version": version,
		"dirty":   dirty,
	}).Debug("Migration status retrieved")

	return version, dirty, nil
}
