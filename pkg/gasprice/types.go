// Package gasprice resolves the gas price a bridge relayer uses on each chain
// side. It combines an external oracle, the bridge contract default and a
// per-side cache refreshed on a fixed schedule.
package gasprice

import (
	"math/big"
	"time"

	"github.com/lisanmuaddib/bridge-gasprice/pkg/oracle"
)

// Side identifies one end of the bridge
type Side string

const (
	// SideHome is the chain the bridge validators live on
	SideHome Side = "home"
	// SideForeign is the chain on the other end of the bridge
	SideForeign Side = "foreign"
)

// ParseSide converts a name into a Side
func ParseSide(name string) (Side, bool) {
	switch Side(name) {
	case SideHome, SideForeign:
		return Side(name), true
	}
	return "", false
}

// Source records where a resolved gas price came from
type Source string

const (
	SourceOracle   Source = "oracle"
	SourceContract Source = "contract"
	SourceNone     Source = "none"
)

// Result is the outcome of one resolution cycle. A nil GasPrice or Speeds
// means the value is unavailable.
type Result struct {
	GasPrice *big.Int
	Speeds   *oracle.SpeedTable
	Source   Source
}

// State is a point-in-time copy of a side's cached gas price. Snapshots own
// their GasPrice and Speeds; changing them does not touch the cache.
type State struct {
	GasPrice  *big.Int
	Speeds    *oracle.SpeedTable
	Source    Source
	UpdatedAt time.Time
}
