package history_test

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"

	"github.com/lisanmuaddib/bridge-gasprice/pkg/history"
	"github.com/lisanmuaddib/bridge-gasprice/pkg/scheduler"
)

type manualTicker struct {
	ch chan time.Time
}

func (m *manualTicker) C() <-chan time.Time { return m.ch }
func (m *manualTicker) Stop()               {}

type fakePruneable struct {
	calls     atomic.Int32
	retention atomic.Int64
	err       error
	block     chan struct{}
	finished  atomic.Bool
}

func (f *fakePruneable) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	f.calls.Add(1)
	f.retention.Store(int64(retention))
	if f.block != nil {
		<-f.block
	}
	f.finished.Store(true)
	return 3, f.err
}

var _ = Describe("Pruner", func() {
	var (
		logger *logrus.Logger
		ticker *manualTicker
		target *fakePruneable
		ctx    context.Context
		cancel context.CancelFunc
	)

	newPruner := func() *history.Pruner {
		tk := ticker
		return history.NewPruner(target, 48*time.Hour, time.Hour, logger,
			scheduler.WithTicker(func(time.Duration) scheduler.Ticker { return tk }))
	}

	BeforeEach(func() {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
		ticker = &manualTicker{ch: make(chan time.Time)}
		target = &fakePruneable{}
		ctx, cancel = context.WithCancel(context.Background())
	})

	AfterEach(func() {
		cancel()
	})

	It("prunes immediately and on every tick", func() {
		p := newPruner()
		p.Start(ctx)
		defer p.Stop()

		Eventually(target.calls.Load).Should(BeEquivalentTo(1))
		Expect(time.Duration(target.retention.Load())).To(Equal(48 * time.Hour))

		ticker.ch <- time.Now()
		Eventually(target.calls.Load).Should(BeEquivalentTo(2))
	})

	It("keeps its schedule after a failed prune", func() {
		target.err = errors.New("connection reset")
		p := newPruner()
		p.Start(ctx)
		defer p.Stop()

		Eventually(target.calls.Load).Should(BeEquivalentTo(1))
		ticker.ch <- time.Now()
		Eventually(target.calls.Load).Should(BeEquivalentTo(2))
	})

	It("waits for an in-flight prune on Stop", func() {
		target.block = make(chan struct{})
		p := newPruner()
		p.Start(ctx)
		Eventually(target.calls.Load).Should(BeEquivalentTo(1))

		stopped := make(chan struct{})
		go func() {
			p.Stop()
			close(stopped)
		}()
		Consistently(stopped, 100*time.Millisecond).ShouldNot(BeClosed())

		close(target.block)
		Eventually(stopped).Should(BeClosed())
		Expect(target.finished.Load()).To(BeTrue())
	})

	It("ignores a second Start", func() {
		p := newPruner()
		p.Start(ctx)
		p.Start(ctx)
		defer p.Stop()

		Eventually(target.calls.Load).Should(BeEquivalentTo(1))
		Consistently(target.calls.Load, 100*time.Millisecond).Should(BeEquivalentTo(1))
	})
})
