package output

import (
	"bytes"
	"testing"
	"time"

	"taskboard/internal/service"
)

func TestFormatTask(t *testing.T) {
	tests := []struct {
		name string
		task service.Task
		want string
	}{
		{
			name: "pending default priority",
			task: service.Task{ID: 7, Title: "Buy milk", Status: service.StatusPending},
			want: "   7  [ ] Buy milk  (low)\n",
		},
		{
			name: "completed with due date",
			task: service.Task{
				ID:       12,
				Title:    "Ship",
				Status:   service.StatusCompleted,
				Priority: service.PriorityHigh,
				DueDate:  service.At(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)),
			},
			want: "  12  [x] Ship  (high, due 2026-03-01)\n",
		},
		{
			name: "untitled with labels",
			task: service.Task{
				ID:       3,
				Title:    " \n",
				Status:   service.StatusInProgress,
				Priority: service.PriorityLow,
				Labels:   []service.Label{{Title: "home"}, {Title: "urgent"}},
			},
			want: "   3  [~] (untitled)  (low)  #home #urgent\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			FormatTask(&buf, tt.task)
			if got := buf.String(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestFormatWorkspace(t *testing.T) {
	var buf bytes.Buffer
	FormatWorkspace(&buf, service.Workspace{ID: 5, Name: "Home", Type: service.WorkspacePublic, AccessCode: "ab12cd34"})
	if got, want := buf.String(), "   5  Home  [public] ab12cd34\n"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFormatListHeader(t *testing.T) {
	var buf bytes.Buffer
	FormatListHeader(&buf, service.List{ID: 42, Title: "Backlog"})
	want := ListSeparator + "\n42  Backlog\n" + ListSeparator + "\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestFormatLabel(t *testing.T) {
	var buf bytes.Buffer
	FormatLabel(&buf, service.Label{ID: 9, Title: "urgent", Color: "#ff0000"})
	FormatLabel(&buf, service.Label{ID: 10, Title: "misc"})
	want := "   9  #ff0000  urgent\n  10  -        misc\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}
