package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Timestamp is a point in time decoded from any of the backend's date shapes:
// an ISO-8601 string (with or without zone), a [y, m, d, h, min(, s(, ns))]
// array, or null. The zero value means "no date". It always encodes as
// RFC 3339 or null.
type Timestamp struct {
	time.Time
}

// At wraps t as a Timestamp.
func At(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// isoLayouts are tried in order for string dates without an explicit zone.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 date or date-time. Zone-less values are UTC.
func ParseTimestamp(s string) (Timestamp, error) {
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("invalid date: %s", s)
}

// UnmarshalJSON implements json.Unmarshaler.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*ts = Timestamp{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*ts = Timestamp{}
			return nil
		}
		parsed, err := ParseTimestamp(s)
		if err != nil {
			return err
		}
		*ts = parsed
		return nil
	case '[':
		var parts []int
		if err := json.Unmarshal(data, &parts); err != nil {
			return fmt.Errorf("invalid date array: %w", err)
		}
		t, err := fromComponents(parts)
		if err != nil {
			return err
		}
		*ts = Timestamp{Time: t}
		return nil
	}
	return fmt.Errorf("invalid date: %s", data)
}

// fromComponents builds a UTC time from [year, month, day, hour, minute, second, nanos].
// At least year, month and day are required.
func fromComponents(p []int) (time.Time, error) {
	if len(p) < 3 || len(p) > 7 {
		return time.Time{}, fmt.Errorf("invalid date array: %d components", len(p))
	}
	c := make([]int, 7)
	copy(c, p)
	if c[3] < 0 || c[3] > 23 || c[4] < 0 || c[4] > 59 || c[5] < 0 || c[5] > 59 || c[6] < 0 || c[6] > 999999999 {
		return time.Time{}, fmt.Errorf("invalid date array: %v", p)
	}
	t := time.Date(c[0], time.Month(c[1]), c[2], c[3], c[4], c[5], c[6], time.UTC)
	// time.Date normalizes out-of-range days and months; reject instead
	if t.Year() != c[0] || int(t.Month()) != c[1] || t.Day() != c[2] {
		return time.Time{}, fmt.Errorf("invalid date array: %v", p)
	}
	return t, nil
}

// MarshalJSON implements json.Marshaler.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.UTC().Format(time.RFC3339))
}

// String returns the date in RFC 3339, or "" for the zero value.
func (ts Timestamp) String() string {
	if ts.IsZero() {
		return ""
	}
	return ts.UTC().Format(time.RFC3339)
}
