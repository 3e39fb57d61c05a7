// internal/poll/poll.go
package poll

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Refresher periodically invokes a refresh function on a fixed interval,
// driving the background task-list sync.
type Refresher struct {
	interval time.Duration
	fn       func()

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
}

// New creates a stopped refresher. Intervals below one second are clamped.
func New(interval time.Duration, fn func()) *Refresher {
	if interval < time.Second {
		interval = time.Second
	}
	return &Refresher{interval: interval, fn: fn}
}

// Start begins ticking. Calling Start on a running refresher is a no-op.
func (r *Refresher) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return nil
	}

	c := cron.New(cron.WithParser(cron.NewParser(cron.Descriptor)))
	spec := fmt.Sprintf("@every %s", r.interval)
	if _, err := c.AddFunc(spec, r.fn); err != nil {
		return fmt.Errorf("schedule refresh: %w", err)
	}
	c.Start()
	r.cron = c
	r.running = true
	slog.Info("task refresh started", "interval", r.interval)
	return nil
}

// Stop halts ticking; a refresh already in flight finishes.
func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		return
	}
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.cron = nil
	r.running = false
	slog.Info("task refresh stopped")
}

// Running reports whether the refresher is ticking.
func (r *Refresher) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}
