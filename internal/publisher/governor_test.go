package publisher

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestGovernorObserveNeverRaises(t *testing.T) {
	g := NewGovernor(GovernorOptions{BatchSize: 30})
	g.Observe(300)
	if g.Remaining() != 30 {
		t.Fatalf("remaining = %d, want 30", g.Remaining())
	}
	g.Observe(12)
	g.Observe(20)
	if g.Remaining() != 12 {
		t.Fatalf("remaining = %d, want 12", g.Remaining())
	}
}

func TestGovernorCheckReturnsImmediately(t *testing.T) {
	limited := false
	g := NewGovernor(GovernorOptions{Cooldown: time.Hour, OnLimit: func() { limited = true }})
	g.Observe(2)
	if err := g.CheckAndWait(context.Background()); err != nil {
		t.Fatal(err)
	}
	if limited {
		t.Fatal("limit hook fired with budget left")
	}
}

func TestGovernorCooldownResets(t *testing.T) {
	var limits int
	var progress []time.Duration
	g := NewGovernor(GovernorOptions{
		BatchSize:  30,
		Cooldown:   60 * time.Millisecond,
		Tick:       10 * time.Millisecond,
		OnLimit:    func() { limits++ },
		OnProgress: func(left time.Duration) { progress = append(progress, left) },
	})
	g.Observe(1)
	start := time.Now()
	if err := g.CheckAndWait(context.Background()); err != nil {
		t.Fatal(err)
	}
	if el := time.Since(start); el < 60*time.Millisecond {
		t.Fatalf("waited %v, want the full cool-down", el)
	}
	if limits != 1 {
		t.Errorf("limit hook calls = %d", limits)
	}
	if g.Remaining() != 30 {
		t.Errorf("remaining = %d, want reset to 30", g.Remaining())
	}
	if len(progress) < 2 || progress[0] != 60*time.Millisecond || progress[len(progress)-1] != 0 {
		t.Errorf("progress = %v", progress)
	}
}

func TestGovernorCancel(t *testing.T) {
	g := NewGovernor(GovernorOptions{Cooldown: time.Hour})
	g.Observe(0)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := g.CheckAndWait(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if g.Remaining() != 0 {
		t.Fatalf("budget reset after cancelled wait")
	}
}

func TestGovernorCancelledBeforeLimit(t *testing.T) {
	var limits, ticks int
	g := NewGovernor(GovernorOptions{
		Cooldown:   time.Hour,
		OnLimit:    func() { limits++ },
		OnProgress: func(time.Duration) { ticks++ },
	})
	g.Observe(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := g.CheckAndWait(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if limits != 0 || ticks != 0 {
		t.Fatalf("callbacks ran for a cancelled wait: limit=%d progress=%d", limits, ticks)
	}
}
