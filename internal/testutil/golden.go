package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// UpdateGoldenEnv rewrites golden files with the current output when set.
const UpdateGoldenEnv = "TASKBOARD_UPDATE_GOLDEN"

// GoldenString compares got with testdata/<name>.golden and reports the
// first line that differs.
func GoldenString(t *testing.T, name, got string) {
	t.Helper()
	path := filepath.Join("testdata", name+".golden")

	if os.Getenv(UpdateGoldenEnv) != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("create testdata: %v", err)
		}
		if err := os.WriteFile(path, []byte(got), 0644); err != nil {
			t.Fatalf("update %s: %v", path, err)
		}
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v\ngot:\n%s", path, err, got)
	}
	want := string(data)
	if got == want {
		return
	}

	wantLines := strings.Split(want, "\n")
	gotLines := strings.Split(got, "\n")
	for i := 0; i < len(wantLines) || i < len(gotLines); i++ {
		var w, g string
		if i < len(wantLines) {
			w = wantLines[i]
		}
		if i < len(gotLines) {
			g = gotLines[i]
		}
		if w != g {
			t.Errorf("%s: line %d differs\nwant: %q\ngot:  %q\nfull output:\n%s", name, i+1, w, g, got)
			return
		}
	}
	t.Errorf("%s: output differs from golden file", name)
}
