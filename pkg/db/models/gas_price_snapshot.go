package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// GasPriceSnapshot is one refresh cycle's outcome for one side.
// Gas prices are stored as decimal strings in wei; tiers in gwei.
type GasPriceSnapshot struct {
	ID             uuid.UUID      `gorm:"primaryKey;column:id;type:uuid" json:"id"`
	Side           string         `gorm:"column:side;not null;index:idx_gas_price_snapshots_side_created" json:"side"`
	GasPrice       *string        `gorm:"column:gas_price" json:"gas_price"`
	Source         string         `gorm:"column:source;not null" json:"source"`
	Slow           *string        `gorm:"column:slow" json:"slow"`
	Standard       *string        `gorm:"column:standard" json:"standard"`
	Fast           *string        `gorm:"column:fast" json:"fast"`
	Instant        *string        `gorm:"column:instant" json:"instant"`
	BlockNumber    *int64         `gorm:"column:block_number" json:"block_number"`
	Health         *bool          `gorm:"column:health" json:"health"`
	AvailableTiers pq.StringArray `gorm:"column:available_tiers;type:text[]" json:"available_tiers"`
	CreatedAt      time.Time      `gorm:"column:created_at;not null;index:idx_gas_price_snapshots_side_created" json:"created_at"`
}

// TableName specifies the table name for the GasPriceSnapshot model
func (GasPriceSnapshot) TableName() string {
	return "gas_price_snapshots"
}
