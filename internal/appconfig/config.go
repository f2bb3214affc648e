// Package appconfig assembles the daemon's components from the environment.
package appconfig

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/lisanmuaddib/bridge-gasprice/pkg/api"
	"github.com/lisanmuaddib/bridge-gasprice/pkg/db"
	"github.com/lisanmuaddib/bridge-gasprice/pkg/gasprice"
)

const (
	// DefaultHistoryRetention keeps a week of snapshots
	DefaultHistoryRetention = 7 * 24 * time.Hour
	// DefaultPruneInterval is how often old snapshots are removed
	DefaultPruneInterval = time.Hour
	// DefaultShutdownTimeout bounds the graceful HTTP shutdown
	DefaultShutdownTimeout = 10 * time.Second
)

// Config is the process-wide configuration.
// Environment variables:
//   - LOG_LEVEL: logrus level (default: info)
//   - LOG_FORMAT: "json" for JSON logs, colored text otherwise
//   - API_ADDR: query API listen address (default: :8080)
//   - DB_*: history store connection, see db.NewConfig
//   - HISTORY_RETENTION_HOURS: snapshot retention (default: 168)
type Config struct {
	LogLevel         string
	JSONLogs         bool
	APIAddr          string
	DB               *db.Config
	HistoryRetention time.Duration
	PruneInterval    time.Duration
	ShutdownTimeout  time.Duration
	Sides            []gasprice.Side
}

// LoadEnv loads .env when present. A missing file is not an error.
func LoadEnv(logger *logrus.Logger) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.WithError(err).Warn("Error loading .env file")
	}
}

// Load reads the process configuration from the environment
func Load(logger *logrus.Logger) *Config {
	cfg := &Config{
		LogLevel:         os.Getenv("LOG_LEVEL"),
		JSONLogs:         os.Getenv("LOG_FORMAT") == "json",
		APIAddr:          api.AddrFromEnv(),
		DB:               db.NewConfig(),
		HistoryRetention: DefaultHistoryRetention,
		PruneInterval:    DefaultPruneInterval,
		ShutdownTimeout:  DefaultShutdownTimeout,
		Sides:            []gasprice.Side{gasprice.SideHome, gasprice.SideForeign},
	}

	if raw := os.Getenv("HISTORY_RETENTION_HOURS"); raw != "" {
		if h, err := strconv.Atoi(raw); err == nil && h > 0 {
			cfg.HistoryRetention = time.Duration(h) * time.Hour
		} else {
			logger.WithFields(logrus.Fields{
				"value":   raw,
				"default": DefaultHistoryRetention.String(),
			}).Warn("Invalid history retention, using default")
		}
	}

	return cfg
}
