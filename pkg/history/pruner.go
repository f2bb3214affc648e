package history

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lisanmuaddib/bridge-gasprice/pkg/scheduler"
)

// Pruneable removes snapshots older than a retention window
type Pruneable interface {
	Prune(ctx context.Context, retention time.Duration) (int64, error)
}

// Pruner periodically deletes expired snapshots
type Pruner struct {
	target    Pruneable
	retention time.Duration
	task      *scheduler.Task
	logger    *logrus.Logger

	mu      sync.Mutex
	started bool
	wg      sync.WaitGroup
}

// NewPruner creates a stopped pruner running every interval
func NewPruner(target Pruneable, retention, interval time.Duration, logger *logrus.Logger, opts ...scheduler.TaskOption) *Pruner {
	if logger == nil {
		logger = logrus.New()
	}
	p := &Pruner{
		target:    target,
		retention: retention,
		logger:    logger,
	}
	p.task = scheduler.NewTask("history-prune", interval, p.prune, logger, opts...)
	return p
}

// Start runs the first prune immediately and then on every interval
func (p *Pruner) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if err := p.task.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			p.logger.WithError(err).WithField("stage", "prune").Error("History prune schedule ended")
		}
	}()
}

// Stop ends the schedule and waits for an in-flight prune
func (p *Pruner) Stop() {
	p.task.Stop()
	p.wg.Wait()
}

func (p *Pruner) prune(ctx context.Context) {
	n, err := p.target.Prune(ctx, p.retention)
	if err != nil {
		p.logger.WithFields(logrus.Fields{
			"stage": "prune",
			"error": err,
		}).Error("Failed to prune gas price history")
		return
	}
	p.logger.WithField("rows", n).Debug("Pruned gas price history")
}
