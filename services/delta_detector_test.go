package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yeremiapane/restaurant-dashboard/models"
)

func rec(id, status string) models.NotificationRecord {
	return models.NotificationRecord{ID: id, Status: status}
}

func TestDiffSnapshotsAddedAndChanged(t *testing.T) {
	previous := []models.NotificationRecord{rec("1", models.StatusPending)}
	current := []models.NotificationRecord{
		rec("1", models.StatusConfirmed),
		rec("2", models.StatusPending),
	}

	delta := DiffSnapshots(previous, current)

	assert.Len(t, delta.Added, 1)
	assert.Equal(t, "2", delta.Added[0].ID)
	assert.Len(t, delta.Changed, 1)
	assert.Equal(t, "1", delta.Changed[0].Record.ID)
	assert.Equal(t, models.StatusPending, delta.Changed[0].PreviousStatus)
	assert.Equal(t, models.StatusConfirmed, delta.Changed[0].Record.Status)
}

func TestDiffSnapshotsNoChanges(t *testing.T) {
	snapshot := []models.NotificationRecord{
		rec("1", models.StatusPending),
		rec("2", models.StatusReady),
	}

	delta := DiffSnapshots(snapshot, snapshot)
	assert.True(t, delta.Empty())
}

func TestDiffSnapshotsEmptyPrevious(t *testing.T) {
	current := []models.NotificationRecord{
		rec("1", models.StatusPending),
		rec("2", models.StatusPending),
	}

	// The detector always reports genuine differences; first-load
	// suppression is the dispatcher's job.
	delta := DiffSnapshots(nil, current)
	assert.Len(t, delta.Added, 2)
	assert.Empty(t, delta.Changed)
}

func TestDiffSnapshotsDuplicateIDLastWins(t *testing.T) {
	previous := []models.NotificationRecord{rec("1", models.StatusPending)}
	current := []models.NotificationRecord{
		rec("1", models.StatusConfirmed),
		rec("1", models.StatusDelivered),
	}

	delta := DiffSnapshots(previous, current)

	assert.Empty(t, delta.Added)
	assert.Len(t, delta.Changed, 1)
	assert.Equal(t, models.StatusDelivered, delta.Changed[0].Record.Status)
}

func TestDiffSnapshotsIdempotent(t *testing.T) {
	previous := []models.NotificationRecord{
		rec("1", models.StatusPending),
		rec("2", models.StatusPreparing),
	}
	current := []models.NotificationRecord{
		rec("2", models.StatusReady),
		rec("3", models.StatusPending),
	}

	first := DiffSnapshots(previous, current)
	second := DiffSnapshots(previous, current)
	assert.Equal(t, first, second)
}
