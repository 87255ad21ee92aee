package services

import (
	"context"
	"sync"
	"time"

	"github.com/yeremiapane/restaurant-dashboard/models"
	"github.com/yeremiapane/restaurant-dashboard/utils"
)

// GateState is the gate's decision about the protected UI.
type GateState int

const (
	// GateBlocked replaces the protected subtree with the blocking
	// notice. It is the initial state: until a snapshot proves the
	// subscription valid, nothing protected renders.
	GateBlocked GateState = iota
	// GateActive lets the protected subtree render.
	GateActive
)

func (s GateState) String() string {
	if s == GateActive {
		return "active"
	}
	return "blocked"
}

// SubscriptionFetchFunc fetches the current subscription record.
type SubscriptionFetchFunc func(ctx context.Context) (models.SubscriptionSnapshot, error)

// StateFunc observes every gate evaluation, not just transitions.
type StateFunc func(state GateState, snap models.SubscriptionSnapshot)

// SubscriptionGate re-validates the subscription on its own cadence,
// independent of the notification poller. Every tick evaluates the
// fresh snapshot from scratch: no hysteresis, no debounce. An expiry
// passing is caught within one interval, and so is a renewal.
type SubscriptionGate struct {
	fetch    SubscriptionFetchFunc
	interval time.Duration
	onState  StateFunc
	now      func() time.Time

	mu      sync.Mutex
	state   GateState
	last    models.SubscriptionSnapshot
	running bool
	cancel  context.CancelFunc
	stop    chan struct{}
	done    chan struct{}
}

// NewSubscriptionGate creates a gate in the Blocked state. onState is
// invoked after every evaluation; it may be nil.
func NewSubscriptionGate(fetch SubscriptionFetchFunc, interval time.Duration, onState StateFunc) *SubscriptionGate {
	return &SubscriptionGate{
		fetch:    fetch,
		interval: interval,
		onState:  onState,
		now:      time.Now,
		state:    GateBlocked,
	}
}

// SetClock replaces the gate's clock; tests use it to move time past
// an expiry without waiting.
func (g *SubscriptionGate) SetClock(now func() time.Time) {
	g.mu.Lock()
	g.now = now
	g.mu.Unlock()
}

// Start begins re-validation: one immediate evaluation, then one per
// interval. Idempotent while running.
func (g *SubscriptionGate) Start() {
	g.mu.Lock()
	if g.running {
		g.mu.Unlock()
		utils.InfoLogger.Print("Subscription gate already running, ignoring Start")
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	g.running = true
	g.cancel = cancel
	g.stop = make(chan struct{})
	g.done = make(chan struct{})
	stop, done := g.stop, g.done
	g.mu.Unlock()

	go g.run(ctx, stop, done)
}

func (g *SubscriptionGate) run(ctx context.Context, stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	g.evaluate(ctx)
	for {
		select {
		case <-ticker.C:
			g.evaluate(ctx)
		case <-stop:
			return
		}
	}
}

// evaluate fetches and re-decides from scratch. A transient fetch
// failure skips the tick and keeps the previous decision; a snapshot
// that cannot be normalized blocks. The gate fails closed, never
// open, on ambiguous input.
func (g *SubscriptionGate) evaluate(ctx context.Context) {
	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	snap, err := g.fetch(fetchCtx)
	if err != nil {
		if ctx.Err() == nil {
			utils.ErrorLogger.Printf("Subscription re-validation failed, keeping %s: %v", g.State(), err)
		}
		return
	}
	if ctx.Err() != nil {
		return
	}

	g.mu.Lock()
	now := g.now()
	state := GateBlocked
	if snap.ActiveAt(now) {
		state = GateActive
	}
	changed := state != g.state
	g.state = state
	g.last = snap
	onState := g.onState
	g.mu.Unlock()

	if changed {
		utils.InfoLogger.Printf("Subscription gate is now %s (status=%s)", state, snap.Status)
	}
	if onState != nil {
		onState(state, snap)
	}
}

// Stop halts re-validation. Safe to call twice or when never started.
func (g *SubscriptionGate) Stop() {
	g.mu.Lock()
	if !g.running {
		g.mu.Unlock()
		return
	}
	g.running = false
	cancel, stop, done := g.cancel, g.stop, g.done
	g.mu.Unlock()

	cancel()
	close(stop)
	<-done
}

// State returns the current decision.
func (g *SubscriptionGate) State() GateState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// LastSnapshot returns the most recently evaluated snapshot.
func (g *SubscriptionGate) LastSnapshot() models.SubscriptionSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last
}
