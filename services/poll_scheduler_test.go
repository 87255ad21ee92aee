package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yeremiapane/restaurant-dashboard/models"
)

func testContext() models.PollContext {
	return models.PollContext{RestaurantID: 1}
}

func TestPollSchedulerFirstTickImmediate(t *testing.T) {
	var fetches atomic.Int64
	fetch := func(ctx context.Context, pc models.PollContext) ([]models.NotificationRecord, error) {
		fetches.Add(1)
		return nil, nil
	}

	s := NewPollScheduler(fetch, time.Hour)
	s.Start(testContext(), func(models.PollContext, []models.NotificationRecord) {})
	defer s.StopAll()

	assert.Eventually(t, func() bool {
		return fetches.Load() == 1
	}, time.Second, 5*time.Millisecond)
}

func TestPollSchedulerStartIsIdempotentPerContext(t *testing.T) {
	var ticks atomic.Int64
	fetch := func(ctx context.Context, pc models.PollContext) ([]models.NotificationRecord, error) {
		return nil, nil
	}
	onSnapshot := func(models.PollContext, []models.NotificationRecord) {
		ticks.Add(1)
	}

	s := NewPollScheduler(fetch, 20*time.Millisecond)
	pc := testContext()
	s.Start(pc, onSnapshot)
	s.Start(pc, onSnapshot)
	s.Start(pc, onSnapshot)
	defer s.StopAll()

	assert.True(t, s.Running(pc))

	// Over ~5 intervals a duplicated timer would roughly double the
	// tick count; a single timer stays well under the ceiling.
	time.Sleep(110 * time.Millisecond)
	got := ticks.Load()
	assert.GreaterOrEqual(t, got, int64(3))
	assert.LessOrEqual(t, got, int64(8))
}

func TestPollSchedulerStopIsSafeWhenNeverStarted(t *testing.T) {
	s := NewPollScheduler(func(ctx context.Context, pc models.PollContext) ([]models.NotificationRecord, error) {
		return nil, nil
	}, time.Hour)

	pc := testContext()
	s.Stop(pc)
	s.Stop(pc)
	assert.False(t, s.Running(pc))
}

func TestPollSchedulerNoCallbackAfterStop(t *testing.T) {
	var mu sync.Mutex
	stopped := false
	violated := false

	fetch := func(ctx context.Context, pc models.PollContext) ([]models.NotificationRecord, error) {
		return nil, nil
	}
	onSnapshot := func(models.PollContext, []models.NotificationRecord) {
		mu.Lock()
		if stopped {
			violated = true
		}
		mu.Unlock()
	}

	s := NewPollScheduler(fetch, 5*time.Millisecond)
	pc := testContext()
	s.Start(pc, onSnapshot)
	time.Sleep(30 * time.Millisecond)

	s.Stop(pc)
	mu.Lock()
	stopped = true
	mu.Unlock()

	time.Sleep(40 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.False(t, violated)
	assert.False(t, s.Running(pc))
}

func TestPollSchedulerSurvivesFetchErrors(t *testing.T) {
	var fetches atomic.Int64
	var snapshots atomic.Int64

	fetch := func(ctx context.Context, pc models.PollContext) ([]models.NotificationRecord, error) {
		n := fetches.Add(1)
		if n%2 == 1 {
			return nil, errors.New("backend unavailable")
		}
		return []models.NotificationRecord{}, nil
	}

	s := NewPollScheduler(fetch, 10*time.Millisecond)
	s.Start(testContext(), func(models.PollContext, []models.NotificationRecord) {
		snapshots.Add(1)
	})
	defer s.StopAll()

	// Failed ticks are skipped, not fatal: fetching keeps going and
	// successful ticks still deliver snapshots.
	assert.Eventually(t, func() bool {
		return fetches.Load() >= 4 && snapshots.Load() >= 2
	}, time.Second, 5*time.Millisecond)
}

func TestPollSchedulerIndependentContexts(t *testing.T) {
	var mu sync.Mutex
	seen := map[string]int{}

	fetch := func(ctx context.Context, pc models.PollContext) ([]models.NotificationRecord, error) {
		return nil, nil
	}
	onSnapshot := func(pc models.PollContext, _ []models.NotificationRecord) {
		mu.Lock()
		seen[pc.Key()]++
		mu.Unlock()
	}

	branch := uint(2)
	pcA := models.PollContext{RestaurantID: 1}
	pcB := models.PollContext{RestaurantID: 1, BranchID: &branch}

	s := NewPollScheduler(fetch, 10*time.Millisecond)
	s.Start(pcA, onSnapshot)
	s.Start(pcB, onSnapshot)

	time.Sleep(35 * time.Millisecond)
	s.Stop(pcA)
	assert.False(t, s.Running(pcA))
	assert.True(t, s.Running(pcB))
	s.StopAll()

	mu.Lock()
	defer mu.Unlock()
	assert.Greater(t, seen[pcA.Key()], 0)
	assert.Greater(t, seen[pcB.Key()], 0)
}
