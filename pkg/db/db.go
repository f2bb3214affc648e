package db

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ErrDirtySchema means a previous migration failed halfway and needs manual repair
var ErrDirtySchema = errors.New("database schema is dirty")

// SetupDatabase runs the migrations, checks the schema version and opens a
// gorm connection. A dirty schema refuses to start.
func SetupDatabase(cfg *Config, logger *logrus.Logger) (*gorm.DB, error) {
	logger.Debug("Starting database setup")

	dir, err := cfg.migrationsDir()
	if err != nil {
		return nil, fmt.Errorf("failed to locate migrations: %w", err)
	}

	if err := RunMigrations(cfg, dir, logger); err != nil {
		return nil, err
	}

	version, dirty, err := MigrationStatus(cfg, logger)
	if err != nil {
		return nil, err
	}
	if dirty {
		return nil, fmt.Errorf("%w at version %d", ErrDirtySchema, version)
	}

	logger.Debug("Establishing GORM database connection")

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: NewGormLogrusLogger(logger),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"host":           cfg.Host,
		"database":       cfg.Name,
		"schema_version": version,
	}).Info("Database setup completed successfully")
	return db, nil
}

// Close releases the underlying connection pool
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
