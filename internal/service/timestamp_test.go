package service

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimestamp_ShapesDecodeToSameInstant(t *testing.T) {
	want := time.Date(2024, time.October, 3, 14, 30, 0, 0, time.UTC)

	inputs := []string{
		`"2024-10-03T14:30:00Z"`,
		`"2024-10-03T14:30:00"`,
		`"2024-10-03T14:30"`,
		`"2024-10-03T16:30:00+02:00"`,
		`[2024, 10, 3, 14, 30]`,
		`[2024, 10, 3, 14, 30, 0]`,
	}
	for _, in := range inputs {
		var ts Timestamp
		if err := json.Unmarshal([]byte(in), &ts); err != nil {
			t.Errorf("%s: unexpected error: %v", in, err)
			continue
		}
		if !ts.Equal(want) {
			t.Errorf("%s: expected %v, got %v", in, want, ts.Time)
		}
	}
}

func TestTimestamp_Null(t *testing.T) {
	var task Task
	if err := json.Unmarshal([]byte(`{"id":1,"due_Date":null}`), &task); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !task.DueDate.IsZero() {
		t.Errorf("expected zero due date, got %v", task.DueDate)
	}

	data, err := json.Marshal(task.DueDate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "null" {
		t.Errorf("expected null, got %s", data)
	}
}

func TestTimestamp_Invalid(t *testing.T) {
	for _, in := range []string{`"next tuesday"`, `[2024]`, `[2024, 13, 1]`, `true`} {
		var ts Timestamp
		if err := json.Unmarshal([]byte(in), &ts); err == nil {
			t.Errorf("%s: expected error", in)
		}
	}
}

func TestTimestamp_ArrayOutOfRange(t *testing.T) {
	inputs := []string{
		`[2024, 2, 31, 10, 0]`,
		`[2023, 2, 29]`,
		`[2024, 4, 31]`,
		`[2024, 13, 1]`,
		`[2024, 1, 1, 25, 0]`,
		`[2024, 1, 1, 10, 99]`,
		`[2024, 1, 1, 10, 0, 60]`,
		`[2024, 1, 1, 10, 0, 0, -1]`,
	}
	for _, in := range inputs {
		var ts Timestamp
		if err := json.Unmarshal([]byte(in), &ts); err == nil {
			t.Errorf("%s: expected error, got %v", in, ts.Time)
		}
	}

	var ts Timestamp
	if err := json.Unmarshal([]byte(`[2024, 2, 29, 23, 59, 59]`), &ts); err != nil {
		t.Errorf("leap day rejected: %v", err)
	}
}

func TestTimestamp_MarshalsRFC3339(t *testing.T) {
	ts := At(time.Date(2024, time.January, 2, 3, 4, 5, 0, time.UTC))
	data, err := json.Marshal(ts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `"2024-01-02T03:04:05Z"` {
		t.Errorf("unexpected encoding %s", data)
	}
}

func TestParsePriority(t *testing.T) {
	cases := map[string]Priority{"low": PriorityLow, "2": PriorityMedium, "HIGH": PriorityHigh}
	for in, want := range cases {
		got, err := ParsePriority(in)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", in, err)
		}
		if got != want {
			t.Errorf("%s: expected %v, got %v", in, want, got)
		}
	}
	if _, err := ParsePriority("urgent"); err == nil {
		t.Error("expected error for unknown priority")
	}
}

func TestParseStatus(t *testing.T) {
	got, err := ParseStatus("in-progress")
	if err != nil || got != StatusInProgress {
		t.Errorf("expected %q, got %q (%v)", StatusInProgress, got, err)
	}
	if _, err := ParseStatus("blocked"); err == nil {
		t.Error("expected error for unknown status")
	}
}
