package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// InstantProvider is implemented by values that can surrender a
// concrete instant without arguments (protobuf timestamps and the
// like).
type InstantProvider interface {
	AsTime() time.Time
}

// ErrUnparseableInstant marks an expiry value that could not be
// normalized. Callers must treat it as "not valid", never as now or
// epoch zero.
var ErrUnparseableInstant = errors.New("unparseable instant")

// instantLayouts are tried in order for string timestamps after the
// SQL-form rewrite.
var instantLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// NormalizeExpiry converts the heterogeneous expiry shapes the backend
// is known to emit into a single comparable instant. Handled, in
// priority order: a native time value, a zero-argument "to instant"
// capability, an object carrying epoch seconds under "seconds" or
// "_seconds", a bare epoch-seconds number, and date/time strings in
// either ISO or space-separated SQL form. Anything else is an error.
func NormalizeExpiry(v any) (time.Time, error) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, fmt.Errorf("%w: missing value", ErrUnparseableInstant)
	case time.Time:
		return t, nil
	case InstantProvider:
		return t.AsTime(), nil
	case map[string]any:
		for _, key := range []string{"seconds", "_seconds"} {
			if sec, ok := t[key]; ok {
				return epochSeconds(sec)
			}
		}
		return time.Time{}, fmt.Errorf("%w: object without seconds field", ErrUnparseableInstant)
	case float64:
		return time.Unix(int64(t), 0), nil
	case int:
		return time.Unix(int64(t), 0), nil
	case int64:
		return time.Unix(t, 0), nil
	case json.Number:
		return epochSeconds(t)
	case string:
		return parseInstantString(t)
	default:
		return time.Time{}, fmt.Errorf("%w: unsupported type %T", ErrUnparseableInstant, v)
	}
}

func epochSeconds(v any) (time.Time, error) {
	switch s := v.(type) {
	case float64:
		return time.Unix(int64(s), 0), nil
	case int:
		return time.Unix(int64(s), 0), nil
	case int64:
		return time.Unix(s, 0), nil
	case json.Number:
		n, err := s.Int64()
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %v", ErrUnparseableInstant, err)
		}
		return time.Unix(n, 0), nil
	default:
		return time.Time{}, fmt.Errorf("%w: seconds field of type %T", ErrUnparseableInstant, v)
	}
}

func parseInstantString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty string", ErrUnparseableInstant)
	}
	// SQL form "2006-01-02 15:04:05": rewrite the separator so a
	// single set of layouts covers both conventions.
	if strings.Contains(s, " ") && !strings.Contains(s, "T") {
		s = strings.Replace(s, " ", "T", 1)
	}
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableInstant, s)
}
