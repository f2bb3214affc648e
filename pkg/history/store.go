// Package history persists every cached gas price state to postgres.
package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/lisanmuaddib/bridge-gasprice/pkg/db/models"
	"github.com/lisanmuaddib/bridge-gasprice/pkg/gasprice"
)

const (
	// DefaultLimit is the number of snapshots Recent returns when limit <= 0
	DefaultLimit = 20
	// MaxLimit caps the number of snapshots Recent returns
	MaxLimit = 500
)

// ErrNoSnapshots is returned by Latest when a side has no recorded rows
var ErrNoSnapshots = errors.New("no gas price snapshots recorded")

// Store records gas price states through gorm. It implements gasprice.Recorder.
type Store struct {
	db     *gorm.DB
	logger *logrus.Logger
	newID  func() uuid.UUID
}

// NewStore wraps an open gorm connection
func NewStore(db *gorm.DB, logger *logrus.Logger) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("history store requires a database connection")
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Store{
		db:     db,
		logger: logger,
		newID:  uuid.New,
	}, nil
}

// Record inserts one snapshot row for side
func (s *Store) Record(ctx context.Context, side gasprice.Side, state gasprice.State) error {
	row := SnapshotFromState(side, state)
	row.ID = s.newID()

	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to save gas price snapshot for %s: %w", side, err)
	}

	s.logger.WithFields(logrus.Fields{
		"chain_side":  side,
		"source":      row.Source,
		"snapshot_id": row.ID,
	}).Debug("Recorded gas price snapshot")
	return nil
}

// Recent returns up to limit snapshots for side, newest first
func (s *Store) Recent(ctx context.Context, side gasprice.Side, limit int) ([]models.GasPriceSnapshot, error) {
	limit = ClampLimit(limit)

	var rows []models.GasPriceSnapshot
	err := s.db.WithContext(ctx).
		Where("side = ?", string(side)).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load gas price history for %s: %w", side, err)
	}
	return rows, nil
}

// Latest returns the newest snapshot for side
func (s *Store) Latest(ctx context.Context, side gasprice.Side) (*models.GasPriceSnapshot, error) {
	var row models.GasPriceSnapshot
	err := s.db.WithContext(ctx).
		Where("side = ?", string(side)).
		Order("created_at DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoSnapshots
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest gas price for %s: %w", side, err)
	}
	return &row, nil
}

// Prune deletes snapshots older than the retention window
func (s *Store) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	result := s.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.GasPriceSnapshot{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to prune gas price history: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// ClampLimit applies DefaultLimit and MaxLimit
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// SnapshotFromState maps a cached state onto a row. The ID is left empty.
func SnapshotFromState(side gasprice.Side, state gasprice.State) models.GasPriceSnapshot {
	createdAt := state.UpdatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	row := models.GasPriceSnapshot{
		Side:      string(side),
		Source:    string(state.Source),
		CreatedAt: createdAt.UTC(),
	}
	if state.GasPrice != nil {
		v := state.GasPrice.String()
		row.GasPrice = &v
	}

	if t := state.Speeds; t != nil {
		row.Slow = decimalString(t.Slow)
		row.Standard = decimalString(t.Standard)
		row.Fast = decimalString(t.Fast)
		row.Instant = decimalString(t.Instant)

		block := int64(t.BlockNumber)
		row.BlockNumber = &block
		health := t.Health
		row.Health = &health

		tiers := pq.StringArray{}
		for _, speed := range t.AvailableSpeeds() {
			tiers = append(tiers, string(speed))
		}
		row.AvailableTiers = tiers
	}
	return row
}

func decimalString(v *decimal.Decimal) *string {
	if v == nil {
		return nil
	}
	s := v.String()
	return &s
}
