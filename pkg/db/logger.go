package db

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lisanmuaddib/bridge-gasprice/pkg/logging"
)

// DefaultSlowQueryThreshold is the query duration that triggers a warning
const DefaultSlowQueryThreshold = 200 * time.Millisecond

// GormLogrusLogger implements GORM's logger.Interface using logrus
type GormLogrusLogger struct {
	logger        *logrus.Logger
	slowThreshold time.Duration
}

// NewGormLogrusLogger creates a GORM logger that writes through baseLogger.
// A logger without the daemon's formatter gets the colored one.
func NewGormLogrusLogger(baseLogger *logrus.Logger) *GormLogrusLogger {
	switch baseLogger.Formatter.(type) {
	case *logging.ColoredFormatter, *logrus.JSONFormatter:
	default:
		baseLogger.SetFormatter(logging.NewColoredFormatter())
	}

	return &GormLogrusLogger{
		logger:        baseLogger,
		slowThreshold: DefaultSlowQueryThreshold,
	}
}

// SlowThreshold returns the duration above which queries log a warning
func (l *GormLogrusLogger) SlowThreshold() time.Duration {
	return l.slowThreshold
}

// LogMode implements logger.Interface. Levels are controlled by logrus.
func (l *GormLogrusLogger) LogMode(logger.LogLevel) logger.Interface {
	return l
}

func (l *GormLogrusLogger) entry(ctx context.Context, kind string) *logrus.Entry {
	return l.logger.WithContext(ctx).WithFields(logrus.Fields{
		"component": "gorm",
		"type":      kind,
	})
}

// Info implements logger.Interface
func (l *GormLogrusLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	l.entry(ctx, "query_info").Debugf(msg, args...)
}

// Warn implements logger.Interface
func (l *GormLogrusLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	l.entry(ctx, "query_warn").Warnf(msg, args...)
}

// Error implements logger.Interface
func (l *GormLogrusLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	l.entry(ctx, "query_error").Errorf(msg, args...)
}

// Trace implements logger.Interface
func (l *GormLogrusLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()

	entry := l.entry(ctx, "query_trace").WithFields(logrus.Fields{
		"rows":     rows,
		"sql":      sql,
		"duration": elapsed.String(),
	})

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		entry.WithError(err).Error("Database query failed")
	case elapsed > l.slowThreshold:
		entry.Warn("Slow query detected")
	default:
		entry.Debug("Database query executed")
	}
}
