// Package poller provides the repeating refetch task behind the
// notification and workflow polling surfaces. Unlike a fire-and-forget
// interval, a Poller has an explicit start/stop lifecycle so tests can shut
// it down deterministically.
package poller

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Poller runs fn once on start, then on every tick until stopped.
type Poller struct {
	name     string
	interval time.Duration
	fn       func(context.Context)
	logger   *zap.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// New creates a poller. fn must respect ctx cancellation.
func New(name string, interval time.Duration, fn func(context.Context), logger *zap.Logger) *Poller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{
		name:     name,
		interval: interval,
		fn:       fn,
		logger:   logger,
	}
}

// Start launches the polling loop. Starting an already-running poller is a
// no-op. The loop also exits when ctx is cancelled.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	loopCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true

	p.logger.Info("Poller started",
		zap.String("poller", p.name),
		zap.Duration("interval", p.interval),
	)

	go p.loop(loopCtx, p.done)
}

func (p *Poller) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	p.fn(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Poller stopped", zap.String("poller", p.name))
			return
		case <-ticker.C:
			p.fn(ctx)
		}
	}
}

// Stop cancels the loop and blocks until it has exited. Safe to call on a
// poller that was never started.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	cancel, done := p.cancel, p.done
	p.running = false
	p.mu.Unlock()

	cancel()
	<-done
}

// Running reports whether the loop is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}
