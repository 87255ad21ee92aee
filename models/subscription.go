package models

import (
	"encoding/json"
	"time"
)

// Subscription statuses as delivered by subscriptions/current.
const (
	SubscriptionActive  = "active"
	SubscriptionExpired = "expired"
	SubscriptionPaused  = "paused"
	SubscriptionUnknown = "unknown"
)

// SubscriptionSnapshot is one fetch of the restaurant's subscription
// record. RawExpiry keeps the expiry exactly as delivered; it is only
// interpreted through ExpiryInstant so that every consumer shares one
// normalization path.
type SubscriptionSnapshot struct {
	Status    string
	Plan      string
	RawExpiry any
}

func (s *SubscriptionSnapshot) UnmarshalJSON(data []byte) error {
	f, err := newRawFields(data)
	if err != nil {
		return err
	}
	s.Status = f.str("status")
	s.Plan = f.str("plan", "plan_name", "planName")
	if v, ok := f.raw("expires_at", "expiresAt", "expiry", "valid_until", "validUntil"); ok {
		var decoded any
		if err := json.Unmarshal(v, &decoded); err != nil {
			return err
		}
		s.RawExpiry = decoded
	}
	return nil
}

// ExpiryInstant normalizes the raw expiry value into a comparable
// instant. The error is ErrUnparseableInstant-wrapped on any shape or
// parse failure.
func (s SubscriptionSnapshot) ExpiryInstant() (time.Time, error) {
	return NormalizeExpiry(s.RawExpiry)
}

// ActiveAt reports whether the subscription permits rendering at the
// given instant. It fails closed: any normalization failure counts as
// inactive regardless of Status.
func (s SubscriptionSnapshot) ActiveAt(now time.Time) bool {
	if s.Status != SubscriptionActive {
		return false
	}
	expiry, err := s.ExpiryInstant()
	if err != nil {
		return false
	}
	return expiry.After(now)
}
