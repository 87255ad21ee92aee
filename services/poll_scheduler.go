package services

import (
	"context"
	"sync"
	"time"

	"github.com/yeremiapane/restaurant-dashboard/models"
	"github.com/yeremiapane/restaurant-dashboard/utils"
)

// fetchTimeout bounds a single tick's fetch.
const fetchTimeout = 30 * time.Second

// FetchFunc fetches the current notification collection for a context.
type FetchFunc func(ctx context.Context, pc models.PollContext) ([]models.NotificationRecord, error)

// SnapshotFunc consumes the result of one successful tick.
type SnapshotFunc func(pc models.PollContext, records []models.NotificationRecord)

// PollScheduler owns one recurring timer per active context. Each
// context runs its own goroutine in which fetch, diff, and dispatch
// are strictly sequential: a slow fetch delays that context's next
// tick instead of overlapping it, so no older tick can stomp a newer
// one's snapshot.
type PollScheduler struct {
	fetch    FetchFunc
	interval time.Duration

	mu    sync.Mutex
	loops map[string]*pollLoop
}

type pollLoop struct {
	cancel context.CancelFunc
	stop   chan struct{}
	done   chan struct{}
}

// NewPollScheduler creates a scheduler polling at the given interval.
func NewPollScheduler(fetch FetchFunc, interval time.Duration) *PollScheduler {
	return &PollScheduler{
		fetch:    fetch,
		interval: interval,
		loops:    make(map[string]*pollLoop),
	}
}

// Start begins polling for the context. The very first tick fires
// immediately so the UI is populated before the first interval
// elapses. Calling Start again for a context that is already running
// is a no-op; redundant mount effects must not create a second timer.
func (s *PollScheduler) Start(pc models.PollContext, onSnapshot SnapshotFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pc.Key()
	if _, running := s.loops[key]; running {
		utils.InfoLogger.Printf("Poller for %s already running, ignoring Start", pc)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	loop := &pollLoop{
		cancel: cancel,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	s.loops[key] = loop

	go s.run(ctx, pc, onSnapshot, loop)
	utils.InfoLogger.Printf("Poller started for %s (interval %s)", pc, s.interval)
}

func (s *PollScheduler) run(ctx context.Context, pc models.PollContext, onSnapshot SnapshotFunc, loop *pollLoop) {
	defer close(loop.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.tick(ctx, pc, onSnapshot)
	for {
		select {
		case <-ticker.C:
			s.tick(ctx, pc, onSnapshot)
		case <-loop.stop:
			return
		}
	}
}

// tick runs one fetch. Failures are logged and swallowed: the tick is
// skipped and the next scheduled tick is the retry.
func (s *PollScheduler) tick(ctx context.Context, pc models.PollContext, onSnapshot SnapshotFunc) {
	if ctx.Err() != nil {
		return
	}
	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	records, err := s.fetch(fetchCtx, pc)
	if err != nil {
		if ctx.Err() == nil {
			utils.ErrorLogger.Printf("Poll tick failed for %s: %v", pc, err)
		}
		return
	}
	if ctx.Err() != nil {
		return
	}
	onSnapshot(pc, records)
}

// Stop cancels the context's timer. No further snapshot callbacks are
// delivered once Stop returns. Safe to call repeatedly or for a
// context that was never started.
func (s *PollScheduler) Stop(pc models.PollContext) {
	s.mu.Lock()
	key := pc.Key()
	loop, running := s.loops[key]
	if running {
		delete(s.loops, key)
	}
	s.mu.Unlock()

	if !running {
		return
	}
	loop.cancel()
	close(loop.stop)
	<-loop.done
	utils.InfoLogger.Printf("Poller stopped for %s", pc)
}

// StopAll stops every running context; used on shutdown and logout.
func (s *PollScheduler) StopAll() {
	s.mu.Lock()
	loops := s.loops
	s.loops = make(map[string]*pollLoop)
	s.mu.Unlock()

	for _, loop := range loops {
		loop.cancel()
		close(loop.stop)
		<-loop.done
	}
}

// Running reports whether a timer is active for the context.
func (s *PollScheduler) Running(pc models.PollContext) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, running := s.loops[pc.Key()]
	return running
}
