package commands

import (
	"errors"
	"flag"
	"io"
	"testing"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"5", 5, false},
		{" 42 ", 42, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"a1", 0, true},
		{"1.5", 0, true},
		{"99999999999999999999", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseID(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseID(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseID(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseID_Empty(t *testing.T) {
	if _, err := ParseID(""); !errors.Is(err, ErrIDRequired) {
		t.Errorf("expected ErrIDRequired, got %v", err)
	}
}

func TestParseIDs(t *testing.T) {
	ids, err := ParseIDs([]string{"3", "4", "extra"}, "task id", "list id")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 2 || ids[0] != 3 || ids[1] != 4 {
		t.Errorf("unexpected ids %v", ids)
	}
}

func TestParseIDs_Errors(t *testing.T) {
	_, err := ParseIDs([]string{"3"}, "task id", "list id")
	if err == nil || err.Error() != "list id required" {
		t.Errorf("expected 'list id required', got %v", err)
	}

	_, err = ParseIDs([]string{"x"}, "task id")
	if err == nil || err.Error() != "invalid task id: x" {
		t.Errorf("expected 'invalid task id: x', got %v", err)
	}
}

func TestIDList_RepeatedAndComma(t *testing.T) {
	var l idList
	fs := flag.NewFlagSet("t", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Var(&l, "label", "")

	if err := fs.Parse([]string{"--label", "7", "--label", "9,11"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.String() != "7,9,11" {
		t.Errorf("got %q, want 7,9,11", l.String())
	}

	if err := fs.Parse([]string{"--label", "x"}); err == nil {
		t.Error("expected error for non-numeric label")
	}
}

func TestNormalizeColor(t *testing.T) {
	for in, want := range map[string]string{"#A0b1C2": "#a0b1c2", "a0b1c2": "#a0b1c2"} {
		got, err := normalizeColor(in)
		if err != nil || got != want {
			t.Errorf("normalizeColor(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	for _, in := range []string{"red", "#fff", "#a0b1c2ff", ""} {
		if _, err := normalizeColor(in); err == nil {
			t.Errorf("normalizeColor(%q) should fail", in)
		}
	}
}

func TestRegistryLookup(t *testing.T) {
	tests := []struct {
		args     []string
		wantName string
		wantRest int
	}{
		{[]string{"list", "create", "10"}, "list create", 1},
		{[]string{"list", "20"}, "tasks", 1},
		{[]string{"createlist", "10"}, "list create", 1},
		{[]string{"ws"}, "workspaces", 0},
	}
	for _, tt := range tests {
		cmd, rest, ok := DefaultRegistry.Lookup(tt.args)
		if !ok {
			t.Errorf("Lookup(%v) found nothing", tt.args)
			continue
		}
		if cmd.Name() != tt.wantName || len(rest) != tt.wantRest {
			t.Errorf("Lookup(%v) = %s %v, want %s with %d args", tt.args, cmd.Name(), rest, tt.wantName, tt.wantRest)
		}
	}

	if _, _, ok := DefaultRegistry.Lookup([]string{"workspace"}); ok {
		t.Error("a bare group should not resolve to a command")
	}
	if !DefaultRegistry.IsGroup("workspace") {
		t.Error("workspace should be a group")
	}
}

func TestRegistry_DuplicateName(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&VersionCmd{}); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(&VersionCmd{}); err == nil {
		t.Error("expected duplicate registration error")
	}
}
