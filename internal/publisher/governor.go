package publisher

import (
	"context"
	"sync"
	"time"
)

const (
	// DefaultBatchSize is the budget restored after each cool-down.
	DefaultBatchSize = 30
	// DefaultCooldown is how long an exhausted budget blocks the pipeline.
	DefaultCooldown = 40 * time.Minute
)

// GovernorOptions configures a Governor.
type GovernorOptions struct {
	BatchSize int
	Cooldown  time.Duration
	// Tick is the OnProgress interval; default one second.
	Tick time.Duration
	// OnLimit is called once when a cool-down starts.
	OnLimit func()
	// OnProgress is called every Tick with the time left in the cool-down.
	OnProgress func(left time.Duration)
}

// Governor tracks the remaining call budget reported by the remote service.
// The tracked value only goes down until a cool-down resets it.
type Governor struct {
	mu        sync.Mutex
	remaining int
	opts      GovernorOptions
}

// NewGovernor creates a Governor with a full budget.
func NewGovernor(opts GovernorOptions) *Governor {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.Cooldown < 0 {
		opts.Cooldown = 0
	}
	if opts.Tick <= 0 {
		opts.Tick = time.Second
	}
	return &Governor{remaining: opts.BatchSize, opts: opts}
}

// Observe records a server-reported remaining quota.
func (g *Governor) Observe(serverRemaining int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if serverRemaining < g.remaining {
		g.remaining = serverRemaining
	}
}

// Remaining returns the tracked budget.
func (g *Governor) Remaining() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.remaining
}

// CheckAndWait blocks for the cool-down when at most one call is left, then
// restores the full budget. It returns immediately otherwise. A cancelled
// context ends the wait early and leaves the budget untouched.
func (g *Governor) CheckAndWait(ctx context.Context) error {
	if g.Remaining() > 1 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if g.opts.OnLimit != nil {
		g.opts.OnLimit()
	}

	deadline := time.Now().Add(g.opts.Cooldown)
	timer := time.NewTimer(g.opts.Cooldown)
	defer timer.Stop()
	ticker := time.NewTicker(g.opts.Tick)
	defer ticker.Stop()

	g.progress(g.opts.Cooldown)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if left := time.Until(deadline); left > 0 {
				g.progress(left)
			}
		case <-timer.C:
			g.progress(0)
			g.mu.Lock()
			g.remaining = g.opts.BatchSize
			g.mu.Unlock()
			return nil
		}
	}
}

func (g *Governor) progress(left time.Duration) {
	if g.opts.OnProgress != nil {
		g.opts.OnProgress(left)
	}
}
