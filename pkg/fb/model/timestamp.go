package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// localLayout is an ISO date-time without zone, read as UTC.
const localLayout = "2006-01-02T15:04:05"

// ParseTimestamp parses an RFC 3339 time or a zone-less ISO date-time.
// The result is in UTC.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.ParseInLocation(localLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
	}
	return t, nil
}

// Timestamp is a time.Time that also accepts zone-less ISO date-times in JSON.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	ts.Time = t
	return nil
}

// Ptr returns the wrapped time, or nil for a nil Timestamp.
func (ts *Timestamp) Ptr() *time.Time {
	if ts == nil {
		return nil
	}
	t := ts.Time
	return &t
}
