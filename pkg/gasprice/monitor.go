package gasprice

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lisanmuaddib/bridge-gasprice/pkg/scheduler"
)

// ErrAlreadyStarted is returned by Start on a monitor that is already scheduled
var ErrAlreadyStarted = errors.New("gas price monitor already started")

// GasPriceResolver produces one resolution result per call
type GasPriceResolver interface {
	FetchGasPrice(ctx context.Context) Result
}

// Recorder receives every state the monitor caches, e.g. to persist history
type Recorder interface {
	Record(ctx context.Context, side Side, state State) error
}

// Observer is notified of each cycle outcome, e.g. to export metrics
type Observer interface {
	ObserveCycle(side Side, result Result, elapsed time.Duration)
}

// MonitorConfig holds the settings for one side's Monitor
type MonitorConfig struct {
	Side       Side
	Resolver   GasPriceResolver
	Normalizer Normalizer
	// Interval between cycles; scheduler.DefaultUpdateInterval when zero
	Interval    time.Duration
	Recorders   []Recorder
	Observer    Observer
	Logger      *logrus.Logger
	TaskOptions []scheduler.TaskOption
}

// Monitor keeps one chain side's gas price fresh. It owns the side's Cache,
// refreshes it on a schedule and answers option queries from it.
type Monitor struct {
	side      Side
	resolver  GasPriceResolver
	processor *Processor
	cache     *Cache
	task      *scheduler.Task
	recorders []Recorder
	observer  Observer
	logger    *logrus.Logger

	mu      sync.Mutex
	started bool
	wg      sync.WaitGroup
}

// NewMonitor creates a stopped monitor with an empty cache
func NewMonitor(config MonitorConfig) (*Monitor, error) {
	if config.Resolver == nil {
		return nil, fmt.Errorf("monitor for %s side: resolver is required", config.Side)
	}
	if _, ok := ParseSide(string(config.Side)); !ok {
		return nil, fmt.Errorf("unknown chain side %q", config.Side)
	}
	if config.Logger == nil {
		config.Logger = logrus.New()
	}

	m := &Monitor{
		side:      config.Side,
		resolver:  config.Resolver,
		processor: NewProcessor(config.Side, config.Normalizer, config.Logger),
		cache:     NewCache(),
		recorders: config.Recorders,
		observer:  config.Observer,
		logger:    config.Logger,
	}
	m.task = scheduler.NewTask(
		fmt.Sprintf("gas-price-%s", config.Side),
		config.Interval,
		m.refresh,
		config.Logger,
		config.TaskOptions...,
	)

	return m, nil
}

// Start schedules the refresh cycle; the first cycle runs immediately.
// The schedule ends when ctx is cancelled or Stop is called.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return ErrAlreadyStarted
	}
	m.started = true

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if err := m.task.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			m.logger.WithError(err).WithField("chain_side", m.side).Error("Gas price schedule ended")
		}
	}()

	return nil
}

// Stop ends the schedule and waits for the running cycle to finish
func (m *Monitor) Stop() {
	m.task.Stop()
	m.wg.Wait()
}

// Side returns the chain side this monitor serves
func (m *Monitor) Side() Side {
	return m.side
}

// Interval returns the refresh interval
func (m *Monitor) Interval() time.Duration {
	return m.task.Interval()
}

// Snapshot returns the current cached state
func (m *Monitor) Snapshot() State {
	return m.cache.Snapshot()
}

// GasPriceFor applies opt to the current cached state
func (m *Monitor) GasPriceFor(opt Option) *big.Int {
	return m.processor.ProcessGasPriceOptions(opt, m.cache.Snapshot())
}

// refresh runs one resolution cycle and overwrites the cache with its result
func (m *Monitor) refresh(ctx context.Context) {
	began := time.Now()
	result := m.resolver.FetchGasPrice(ctx)
	m.cache.Store(result, time.Now())

	fields := logrus.Fields{
		"chain_side": m.side,
		"source":     result.Source,
	}
	if result.GasPrice != nil {
		fields["gas_price"] = result.GasPrice.String()
		fields["gas_price_gwei"] = WeiToGwei(result.GasPrice).String()
		m.logger.WithFields(fields).Info("Updated gas price")
	} else {
		m.logger.WithFields(fields).Warn("Gas price unavailable, cache cleared")
	}

	if m.observer != nil {
		m.observer.ObserveCycle(m.side, result, time.Since(began))
	}

	state := m.cache.Snapshot()
	for _, r := range m.recorders {
		if err := r.Record(ctx, m.side, state); err != nil {
			m.logger.WithFields(logrus.Fields{
				"chain_side": m.side,
				"stage":      "record",
				"error":      err,
			}).Error("Failed to record gas price")
		}
	}
}
