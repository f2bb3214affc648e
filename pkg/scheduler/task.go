package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrAlreadyRunning is returned when Run is called on a task that was started before
var ErrAlreadyRunning = errors.New("task already running")

// Job is one cycle of a periodic task
type Job func(ctx context.Context)

// Ticker delivers the ticks that trigger cycles after the first one
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory creates a Ticker firing every d
type TickerFactory func(d time.Duration) Ticker

type timeTicker struct {
	t *time.Ticker
}

func (t *timeTicker) C() <-chan time.Time { return t.t.C }
func (t *timeTicker) Stop()               { t.t.Stop() }

// NewTimeTicker wraps time.NewTicker
func NewTimeTicker(d time.Duration) Ticker {
	return &timeTicker{t: time.NewTicker(d)}
}

// TaskOption customizes a Task
type TaskOption func(*Task)

// WithTicker replaces the wall-clock ticker, mainly for tests
func WithTicker(f TickerFactory) TaskOption {
	return func(t *Task) {
		t.newTicker = f
	}
}

// Task runs a Job immediately and then once per interval until its context
// is cancelled or Stop is called. Cycles never overlap: a tick that fires
// while a cycle is running is held (at most one) and served afterwards.
type Task struct {
	name      string
	interval  time.Duration
	job       Job
	newTicker TickerFactory
	logger    *logrus.Logger

	running  atomic.Bool
	stopped  chan struct{}
	stopOnce sync.Once
}

// NewTask creates a periodic task. A non-positive interval uses DefaultUpdateInterval.
func NewTask(name string, interval time.Duration, job Job, logger *logrus.Logger, opts ...TaskOption) *Task {
	if logger == nil {
		logger = logrus.New()
	}
	if interval <= 0 {
		interval = DefaultUpdateInterval
	}

	t := &Task{
		name:      name,
		interval:  interval,
		job:       job,
		newTicker: NewTimeTicker,
		logger:    logger,
		stopped:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name returns the task name
func (t *Task) Name() string {
	return t.name
}

// Interval returns the time between cycles
func (t *Task) Interval() time.Duration {
	return t.interval
}

// Run blocks, executing the job right away and on every tick afterwards.
// It returns ctx.Err() on cancellation and nil after Stop.
func (t *Task) Run(ctx context.Context) error {
	if !t.running.CompareAndSwap(false, true) {
		return fmt.Errorf("%s: %w", t.name, ErrAlreadyRunning)
	}

	log := t.logger.WithFields(logrus.Fields{
		"task":     t.name,
		"interval": t.interval.String(),
	})
	log.Info("Starting periodic task")

	ticker := t.newTicker(t.interval)
	defer ticker.Stop()

	t.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Info("Context cancelled, stopping periodic task")
			return ctx.Err()
		case <-t.stopped:
			log.Info("Periodic task stopped")
			return nil
		case <-ticker.C():
			t.runCycle(ctx)
		}
	}
}

// Stop ends the task after the current cycle. It is safe to call more than once.
func (t *Task) Stop() {
	t.stopOnce.Do(func() {
		close(t.stopped)
	})
}

// runCycle executes one cycle; a panic is logged so later cycles still run
func (t *Task) runCycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.WithFields(logrus.Fields{
				"task":  t.name,
				"panic": fmt.Sprint(r),
			}).Error("Periodic task cycle panicked")
		}
	}()

	if ctx.Err() != nil {
		return
	}
	t.job(ctx)
}
