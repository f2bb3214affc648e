// Package oracle provides a client for external gas price oracles that report
// a table of prices per confirmation speed.
package oracle

import (
	"github.com/shopspring/decimal"
)

// Speed names a confirmation speed tier reported by the oracle
type Speed string

const (
	// SpeedSlow is the cheapest tier with the longest expected inclusion time
	SpeedSlow Speed = "slow"
	// SpeedStandard is the tier used by default for relayed transactions
	SpeedStandard Speed = "standard"
	// SpeedFast pays a premium for quicker inclusion
	SpeedFast Speed = "fast"
	// SpeedInstant is the most expensive tier
	SpeedInstant Speed = "instant"
)

// AllSpeeds lists every tier in ascending price order
var AllSpeeds = []Speed{SpeedSlow, SpeedStandard, SpeedFast, SpeedInstant}

// ParseSpeed converts a tier name into a Speed.
// It reports false for names the oracle does not publish.
func ParseSpeed(name string) (Speed, bool) {
	for _, s := range AllSpeeds {
		if string(s) == name {
			return s, true
		}
	}
	return "", false
}

// SpeedTable is one oracle reading. Tier values are denominated in gwei.
// A nil tier means the oracle did not report it.
type SpeedTable struct {
	Slow     *decimal.Decimal `json:"slow,omitempty"`
	Standard *decimal.Decimal `json:"standard,omitempty"`
	Fast     *decimal.Decimal `json:"fast,omitempty"`
	Instant  *decimal.Decimal `json:"instant,omitempty"`

	// BlockTime is the average block time in seconds as seen by the oracle
	BlockTime *decimal.Decimal `json:"block_time,omitempty"`
	// BlockNumber is the block the reading was taken at
	BlockNumber uint64 `json:"block_number"`
	// Health is false when the oracle itself considers its data stale
	Health bool `json:"health"`
}

// Tier returns the price reported for speed.
func (t *SpeedTable) Tier(speed Speed) (decimal.Decimal, bool) {
	if t == nil {
		return decimal.Decimal{}, false
	}

	var v *decimal.Decimal
	switch speed {
	case SpeedSlow:
		v = t.Slow
	case SpeedStandard:
		v = t.Standard
	case SpeedFast:
		v = t.Fast
	case SpeedInstant:
		v = t.Instant
	}
	if v == nil {
		return decimal.Decimal{}, false
	}
	return *v, true
}

// Clone returns an independent copy of the table; nil stays nil
func (t *SpeedTable) Clone() *SpeedTable {
	if t == nil {
		return nil
	}
	c := *t
	c.Slow = cloneDecimal(t.Slow)
	c.Standard = cloneDecimal(t.Standard)
	c.Fast = cloneDecimal(t.Fast)
	c.Instant = cloneDecimal(t.Instant)
	c.BlockTime = cloneDecimal(t.BlockTime)
	return &c
}

func cloneDecimal(v *decimal.Decimal) *decimal.Decimal {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// AvailableSpeeds returns the tiers present in the table
func (t *SpeedTable) AvailableSpeeds() []Speed {
	var speeds []Speed
	for _, s := range AllSpeeds {
		if _, ok := t.Tier(s); ok {
			speeds = append(speeds, s)
		}
	}
	return speeds
}
