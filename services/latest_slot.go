package services

import (
	"sync"
	"time"

	"github.com/yeremiapane/restaurant-dashboard/models"
)

// LatestSlot is the single-value cell holding the most recent new
// order destined for the toast. Writing pairs the value with exactly
// one auto-clear timer: replacing the value cancels the previous
// timer under the same lock, so two competing clears can never be
// live at once.
type LatestSlot struct {
	mu       sync.Mutex
	rec      *models.NotificationRecord
	timer    *time.Timer
	gen      uint64
	onChange func(*models.NotificationRecord)
}

func NewLatestSlot() *LatestSlot {
	return &LatestSlot{}
}

// OnChange registers the observer invoked with the new value on every
// write and with nil on every clear. Set it before the dispatcher
// starts writing.
func (s *LatestSlot) OnChange(fn func(*models.NotificationRecord)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Set replaces the slot's value and schedules its expiry. The
// previous pending clear, if any, is cancelled in the same critical
// section as the write.
func (s *LatestSlot) Set(rec models.NotificationRecord, ttl time.Duration) {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
	gen := s.gen
	value := rec
	s.rec = &value
	if ttl > 0 {
		s.timer = time.AfterFunc(ttl, func() {
			s.expire(gen)
		})
	}
	fn := s.onChange
	s.mu.Unlock()

	if fn != nil {
		fn(&value)
	}
}

// expire clears the slot only if the write it was scheduled for is
// still the current one; a timer that lost the race to a newer write
// or a manual clear does nothing.
func (s *LatestSlot) expire(gen uint64) {
	s.mu.Lock()
	if s.gen != gen || s.rec == nil {
		s.mu.Unlock()
		return
	}
	s.rec = nil
	s.timer = nil
	fn := s.onChange
	s.mu.Unlock()

	if fn != nil {
		fn(nil)
	}
}

// Clear empties the slot and cancels the pending auto-clear.
// Idempotent: clearing an empty slot is a no-op and observers are not
// re-notified.
func (s *LatestSlot) Clear() {
	s.mu.Lock()
	if s.rec == nil && s.timer == nil {
		s.mu.Unlock()
		return
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
	cleared := s.rec != nil
	s.rec = nil
	fn := s.onChange
	s.mu.Unlock()

	if cleared && fn != nil {
		fn(nil)
	}
}

// Peek returns a copy of the current value, or nil when empty.
func (s *LatestSlot) Peek() *models.NotificationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rec == nil {
		return nil
	}
	value := *s.rec
	return &value
}

// PendingClear reports whether an auto-clear timer is armed.
func (s *LatestSlot) PendingClear() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}
