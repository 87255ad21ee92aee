package services

import (
	"github.com/yeremiapane/restaurant-dashboard/models"
)

// Delta is the result of comparing two successive snapshots.
type Delta struct {
	Added   []models.NotificationRecord
	Changed []StatusChange
}

// StatusChange pairs a record's current state with the status it held
// in the previous snapshot.
type StatusChange struct {
	Record         models.NotificationRecord
	PreviousStatus string
}

// Empty reports whether the delta carries nothing to dispatch.
func (d Delta) Empty() bool {
	return len(d.Added) == 0 && len(d.Changed) == 0
}

// DiffSnapshots compares two snapshots of the notification collection.
// Added holds records whose id is absent from previous; Changed holds
// records present in both whose status differs. The function is pure:
// same inputs, same output, no side effects.
//
// The backend is assumed to de-duplicate by id. Should current carry
// a duplicate id anyway, the last occurrence is canonical.
func DiffSnapshots(previous, current []models.NotificationRecord) Delta {
	prevByID := make(map[string]models.NotificationRecord, len(previous))
	for _, rec := range previous {
		prevByID[rec.ID] = rec
	}

	lastIndex := make(map[string]int, len(current))
	for i, rec := range current {
		lastIndex[rec.ID] = i
	}

	var delta Delta
	for i, rec := range current {
		if lastIndex[rec.ID] != i {
			continue
		}
		prev, existed := prevByID[rec.ID]
		if !existed {
			delta.Added = append(delta.Added, rec)
			continue
		}
		if prev.Status != rec.Status {
			delta.Changed = append(delta.Changed, StatusChange{
				Record:         rec,
				PreviousStatus: prev.Status,
			})
		}
	}
	return delta
}
