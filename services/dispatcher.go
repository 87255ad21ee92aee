package services

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/yeremiapane/restaurant-dashboard/audio"
	"github.com/yeremiapane/restaurant-dashboard/models"
	"github.com/yeremiapane/restaurant-dashboard/notify"
	"github.com/yeremiapane/restaurant-dashboard/utils"
)

// DispatchMetrics counts what the dispatcher has done since start.
type DispatchMetrics struct {
	Ticks         int64
	BaselineTicks int64
	NewOrders     int64
	StatusChanges int64
}

// Dispatcher turns successive snapshots into deltas and side effects:
// desktop notifications for new and changed records, the audio cue
// and toast slot for genuinely new orders only.
type Dispatcher struct {
	notifier notify.Notifier
	player   audio.Player
	slot     *LatestSlot
	toastTTL time.Duration

	mu        sync.Mutex
	baselines map[string][]models.NotificationRecord
	metrics   DispatchMetrics
}

// NewDispatcher wires the dispatcher to its sinks. toastTTL is how
// long a toast value lives in the slot before self-clearing.
func NewDispatcher(notifier notify.Notifier, player audio.Player, slot *LatestSlot, toastTTL time.Duration) *Dispatcher {
	return &Dispatcher{
		notifier:  notifier,
		player:    player,
		slot:      slot,
		toastTTL:  toastTTL,
		baselines: make(map[string][]models.NotificationRecord),
	}
}

// HandleSnapshot is the scheduler's SnapshotFunc. The first snapshot
// for a context only establishes the baseline: pre-existing records
// must not fire notifications on initial load, so no effects run
// until the second tick.
func (d *Dispatcher) HandleSnapshot(pc models.PollContext, current []models.NotificationRecord) {
	key := pc.Key()

	d.mu.Lock()
	d.metrics.Ticks++
	previous, hasBaseline := d.baselines[key]
	d.baselines[key] = current
	if !hasBaseline {
		d.metrics.BaselineTicks++
		d.mu.Unlock()
		utils.InfoLogger.Printf("Baseline established for %s with %d records", pc, len(current))
		return
	}
	d.mu.Unlock()

	delta := DiffSnapshots(previous, current)
	if delta.Empty() {
		return
	}
	d.dispatch(delta)
}

func (d *Dispatcher) dispatch(delta Delta) {
	added := make([]models.NotificationRecord, len(delta.Added))
	copy(added, delta.Added)
	sort.SliceStable(added, func(i, j int) bool {
		return added[i].CreatedAt.After(added[j].CreatedAt)
	})

	for i, rec := range added {
		if i == 0 {
			d.slot.Set(rec, d.toastTTL)
			d.player.PlayNewOrder()
		}
		title := rec.Title
		if title == "" {
			title = "New order"
		}
		body := rec.Body
		if body == "" {
			body = fmt.Sprintf("%s — order %s, Rp %s (%d items)",
				rec.CustomerName, rec.OrderNumber, utils.FormatCurrency(rec.Total), rec.ItemCount)
		}
		if err := d.notifier.Send("new-"+rec.ID, title, body); err != nil {
			utils.ErrorLogger.Printf("Notify new order %s failed: %v", rec.ID, err)
		}
	}

	for _, change := range delta.Changed {
		rec := change.Record
		title := rec.Title
		if title == "" {
			title = "Order update"
		}
		body := rec.Body
		if body == "" {
			body = fmt.Sprintf("Order %s moved from %s to %s",
				rec.OrderNumber, change.PreviousStatus, rec.Status)
		}
		if err := d.notifier.Send("status-"+rec.ID, title, body); err != nil {
			utils.ErrorLogger.Printf("Notify status change %s failed: %v", rec.ID, err)
		}
	}

	d.mu.Lock()
	d.metrics.NewOrders += int64(len(added))
	d.metrics.StatusChanges += int64(len(delta.Changed))
	d.mu.Unlock()
}

// ResetContext forgets the baseline for a context. The next snapshot
// after a branch switch or logout is treated as a fresh first tick
// and suppressed again.
func (d *Dispatcher) ResetContext(pc models.PollContext) {
	d.mu.Lock()
	delete(d.baselines, pc.Key())
	d.mu.Unlock()
}

// Snapshot returns the last committed collection for the context.
func (d *Dispatcher) Snapshot(pc models.PollContext) []models.NotificationRecord {
	d.mu.Lock()
	defer d.mu.Unlock()
	records := d.baselines[pc.Key()]
	out := make([]models.NotificationRecord, len(records))
	copy(out, records)
	return out
}

// Metrics returns a copy of the dispatch counters.
func (d *Dispatcher) Metrics() DispatchMetrics {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.metrics
}
