package models

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// rawFields is the single decode step at the ingestion boundary that
// tolerates both snake_case and camelCase field names from the backend.
// Every lookup takes the list of accepted spellings; the first key
// present in the payload wins.
type rawFields map[string]json.RawMessage

func newRawFields(data []byte) (rawFields, error) {
	var f rawFields
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return f, nil
}

func (f rawFields) raw(keys ...string) (json.RawMessage, bool) {
	for _, k := range keys {
		if v, ok := f[k]; ok && string(v) != "null" {
			return v, true
		}
	}
	return nil, false
}

// str returns the field as a string. Numeric ids are accepted and
// rendered in decimal, since some endpoints serialize ids as numbers.
func (f rawFields) str(keys ...string) string {
	v, ok := f.raw(keys...)
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err == nil {
		return n.String()
	}
	return ""
}

func (f rawFields) boolean(keys ...string) bool {
	v, ok := f.raw(keys...)
	if !ok {
		return false
	}
	var b bool
	if err := json.Unmarshal(v, &b); err == nil {
		return b
	}
	// Some backends encode flags as 0/1.
	var n float64
	if err := json.Unmarshal(v, &n); err == nil {
		return n != 0
	}
	return false
}

func (f rawFields) number(keys ...string) float64 {
	v, ok := f.raw(keys...)
	if !ok {
		return 0
	}
	var n float64
	if err := json.Unmarshal(v, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return parsed
		}
	}
	return 0
}

// instant parses a timestamp field through the shared normalization
// path. A missing or unparseable value yields the zero time.
func (f rawFields) instant(keys ...string) time.Time {
	v, ok := f.raw(keys...)
	if !ok {
		return time.Time{}
	}
	var decoded any
	if err := json.Unmarshal(v, &decoded); err != nil {
		return time.Time{}
	}
	t, err := NormalizeExpiry(decoded)
	if err != nil {
		return time.Time{}
	}
	return t
}
