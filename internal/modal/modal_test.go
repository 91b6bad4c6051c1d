package modal

import (
	"strings"
	"testing"
)

func TestRender_ClosedSkipsBody(t *testing.T) {
	m := New("New task")
	called := false
	out := m.Render(40, func() string {
		called = true
		return "body"
	})
	if out != "" {
		t.Errorf("expected empty output while closed, got %q", out)
	}
	if called {
		t.Error("body must not be evaluated while closed")
	}
}

func TestRender_Open(t *testing.T) {
	m := New("New task")
	m.Open()
	out := m.Render(40, func() string { return "Title: _" })
	for _, want := range []string{"New task", "Title: _", "esc to close"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestHandleKey(t *testing.T) {
	m := New("")
	if m.HandleKey("esc") {
		t.Error("closed modal must not consume keys")
	}

	m.Open()
	if m.HandleKey("x") {
		t.Error("only esc is consumed")
	}
	if !m.IsOpen() {
		t.Fatal("expected modal to stay open")
	}
	if !m.HandleKey("esc") {
		t.Error("expected esc to be consumed")
	}
	if m.IsOpen() {
		t.Error("expected esc to close the modal")
	}
}

func TestOnClose_OncePerTransition(t *testing.T) {
	closes := 0
	m := &Modal{OnClose: func() { closes++ }}

	m.Close()
	if closes != 0 {
		t.Fatalf("closing a closed modal must not fire OnClose")
	}

	m.Open()
	m.Backdrop()
	m.Close()
	m.HandleKey("esc")
	if closes != 1 {
		t.Errorf("expected 1 close, got %d", closes)
	}

	m.Toggle()
	m.Toggle()
	if closes != 2 || m.IsOpen() {
		t.Errorf("expected toggle round trip to close once more (closes=%d open=%v)", closes, m.IsOpen())
	}
}
