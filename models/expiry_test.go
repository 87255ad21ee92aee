package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedInstant struct {
	t time.Time
}

func (f fixedInstant) AsTime() time.Time {
	return f.t
}

func TestNormalizeExpiryNativeTime(t *testing.T) {
	want := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	got, err := NormalizeExpiry(want)
	require.NoError(t, err)
	assert.True(t, got.Equal(want))
}

func TestNormalizeExpiryInstantProvider(t *testing.T) {
	want := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	got, err := NormalizeExpiry(fixedInstant{t: want})
	require.NoError(t, err)
	assert.True(t, got.Equal(want))
}

func TestNormalizeExpiryEpochSecondsObject(t *testing.T) {
	want := time.Unix(1705314600, 0)

	for _, key := range []string{"seconds", "_seconds"} {
		got, err := NormalizeExpiry(map[string]any{key: float64(1705314600)})
		require.NoError(t, err, key)
		assert.True(t, got.Equal(want), key)
	}
}

func TestNormalizeExpiryBareEpochSeconds(t *testing.T) {
	want := time.Unix(1705314600, 0)

	got, err := NormalizeExpiry(float64(1705314600))
	require.NoError(t, err)
	assert.True(t, got.Equal(want))

	got, err = NormalizeExpiry(json.Number("1705314600"))
	require.NoError(t, err)
	assert.True(t, got.Equal(want))
}

func TestNormalizeExpirySQLAndISOFormsAgree(t *testing.T) {
	sqlForm, err := NormalizeExpiry("2024-01-15 10:30:00")
	require.NoError(t, err)

	isoForm, err := NormalizeExpiry("2024-01-15T10:30:00")
	require.NoError(t, err)

	assert.True(t, sqlForm.Equal(isoForm))
}

func TestNormalizeExpiryRFC3339(t *testing.T) {
	got, err := NormalizeExpiry("2024-01-15T10:30:00Z")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)))
}

func TestNormalizeExpiryFailsClosed(t *testing.T) {
	cases := []struct {
		name string
		in   any
	}{
		{"nil", nil},
		{"garbage string", "not-a-date"},
		{"empty string", ""},
		{"object without seconds", map[string]any{"nanos": 5}},
		{"bool", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NormalizeExpiry(tc.in)
			assert.ErrorIs(t, err, ErrUnparseableInstant)
		})
	}
}

func TestSubscriptionActiveAt(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	active := SubscriptionSnapshot{
		Status:    SubscriptionActive,
		RawExpiry: "2024-01-15T13:00:00",
	}
	assert.True(t, active.ActiveAt(now))

	// Exactly at expiry is not strictly in the future.
	atBoundary := SubscriptionSnapshot{
		Status:    SubscriptionActive,
		RawExpiry: time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
	}
	assert.False(t, atBoundary.ActiveAt(now))

	wrongStatus := SubscriptionSnapshot{
		Status:    SubscriptionPaused,
		RawExpiry: "2024-01-15T13:00:00",
	}
	assert.False(t, wrongStatus.ActiveAt(now))

	unparseable := SubscriptionSnapshot{
		Status:    SubscriptionActive,
		RawExpiry: "soon",
	}
	assert.False(t, unparseable.ActiveAt(now))
}

func TestSubscriptionSnapshotUnmarshal(t *testing.T) {
	payload := []byte(`{"status":"active","plan_name":"pro","expires_at":"2024-01-15 10:30:00"}`)

	var snap SubscriptionSnapshot
	require.NoError(t, json.Unmarshal(payload, &snap))
	assert.Equal(t, SubscriptionActive, snap.Status)
	assert.Equal(t, "pro", snap.Plan)

	expiry, err := snap.ExpiryInstant()
	require.NoError(t, err)
	assert.Equal(t, 2024, expiry.Year())
}

func TestSubscriptionSnapshotUnmarshalCamelAndEpoch(t *testing.T) {
	payload := []byte(`{"status":"active","expiresAt":1705314600}`)

	var snap SubscriptionSnapshot
	require.NoError(t, json.Unmarshal(payload, &snap))

	expiry, err := snap.ExpiryInstant()
	require.NoError(t, err)
	assert.True(t, expiry.Equal(time.Unix(1705314600, 0)))
}

func TestSubscriptionSnapshotMissingExpiryFailsClosed(t *testing.T) {
	payload := []byte(`{"status":"active"}`)

	var snap SubscriptionSnapshot
	require.NoError(t, json.Unmarshal(payload, &snap))
	assert.False(t, snap.ActiveAt(time.Now()))
}
