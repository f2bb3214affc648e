package gasprice

import (
	"math/big"
	"sync"
	"time"
)

// Cache holds the latest resolution result for one chain side. It is written
// by the side's Monitor and read by everyone else through Snapshot.
type Cache struct {
	mu    sync.RWMutex
	state State
}

// NewCache returns an empty cache
func NewCache() *Cache {
	return &Cache{state: State{Source: SourceNone}}
}

// Store replaces the cached state with result. Nil fields overwrite
// previous values.
func (c *Cache) Store(result Result, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = State{
		GasPrice:  copyInt(result.GasPrice),
		Speeds:    result.Speeds.Clone(),
		Source:    result.Source,
		UpdatedAt: at,
	}
	if c.state.Source == "" {
		c.state.Source = SourceNone
	}
}

// Snapshot returns a deep copy of the cached state
func (c *Cache) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := c.state
	s.GasPrice = copyInt(c.state.GasPrice)
	s.Speeds = c.state.Speeds.Clone()
	return s
}

// GasPrice returns the cached gas price, nil when unavailable
func (c *Cache) GasPrice() *big.Int {
	return c.Snapshot().GasPrice
}
