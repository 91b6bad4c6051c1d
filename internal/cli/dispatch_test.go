package cli_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"taskboard/internal/cli"
	"taskboard/internal/commands"
	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/service"
	"taskboard/internal/session"
	"taskboard/internal/testutil"
)

// testFactory creates a service factory that returns the given FakeService
// and counts how often it was asked to.
func testFactory(svc *testutil.FakeService, calls *int) cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config, sess *session.Session) (service.Service, error) {
		if calls != nil {
			*calls++
		}
		return svc, nil
	}
}

func run(t *testing.T, factory cli.ServiceFactory, args ...string) (int, string, string) {
	t.Helper()
	d := cli.NewDispatcher(commands.DefaultRegistry, factory)
	var stdout, stderr bytes.Buffer
	code := d.Run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

// loggedInDir returns a config dir holding a valid session for user 7.
func loggedInDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	store := session.FileStore{Path: filepath.Join(dir, config.TokenFile)}
	if err := store.Save(session.Record{Token: testutil.Token(t, 7), UserID: 7}); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	code, _, stderr := run(t, testFactory(testutil.NewFakeService(), nil), "unknowncmd")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	code, _, stderr := run(t, testFactory(testutil.NewFakeService(), nil), "--quiet")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	code, stdout, stderr := run(t, testFactory(testutil.NewFakeService(), nil), "help", "--config", t.TempDir())

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Error("expected help output to contain 'Usage:'")
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	code, stdout, _ := run(t, testFactory(testutil.NewFakeService(), nil), "version", "--config", t.TempDir())

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "taskboard 0.1.0\n" {
		t.Errorf("expected %q, got %q", "taskboard 0.1.0\n", stdout)
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	code, _, stderr := run(t, testFactory(testutil.NewFakeService(), nil), "version", "--unknown")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: -unknown\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagMissingValue(t *testing.T) {
	code, _, stderr := run(t, testFactory(testutil.NewFakeService(), nil), "done", "--list")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: flag needs an argument: -list\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_AuthRequired(t *testing.T) {
	var calls int
	code, _, stderr := run(t, testFactory(testutil.NewFakeService(), &calls), "workspaces", "--config", t.TempDir())

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stderr != commands.NotLoggedIn+"\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if calls != 0 {
		t.Error("backend was created without a session")
	}
}

func TestDispatcher_GroupAlone(t *testing.T) {
	code, stdout, _ := run(t, testFactory(testutil.NewFakeService(), nil), "workspace")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	for _, want := range []string{"workspace create", "workspace edit", "workspace rm"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("group usage missing %q:\n%s", want, stdout)
		}
	}
}

func TestDispatcher_GroupWordThatIsAlsoAnAlias(t *testing.T) {
	var calls int
	code, stdout, stderr := run(t, testFactory(testutil.NewFakeService(), &calls), "list")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if strings.Contains(stderr, "list id required") {
		t.Errorf("bare group word ran the aliased command: %q", stderr)
	}
	for _, want := range []string{"list create", "list edit", "list rm", "taskboard tasks"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("group usage missing %q:\n%s", want, stdout)
		}
	}
	if calls != 0 {
		t.Error("group usage should not create a backend")
	}
}

func TestDispatcher_GroupWordAliasWithArgs(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddList(service.List{ID: 20, Title: "Todo", WorkspaceID: 10})
	svc.AddTask(service.Task{ID: 200, Title: "Buy milk", ListID: 20})

	code, stdout, stderr := run(t, testFactory(svc, nil), "list", "20", "--config", loggedInDir(t))

	if code != exitcode.Success {
		t.Fatalf("expected success, got %d: %s", code, stderr)
	}
	if !strings.Contains(stdout, "Buy milk") {
		t.Errorf("expected tasks of list 20, got %q", stdout)
	}
}

func TestDispatcher_InterspersedFlags(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddList(service.List{ID: 20, Title: "Todo", WorkspaceID: 10})
	svc.AddTask(service.Task{ID: 200, Title: "Buy milk", ListID: 20})

	code, stdout, stderr := run(t, testFactory(svc, nil), "done", "200", "--list", "20", "--config", loggedInDir(t))

	if code != exitcode.Success {
		t.Fatalf("expected success, got %d: %s", code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected ok, got %q", stdout)
	}
	if svc.Tasks()[0].Status != service.StatusCompleted {
		t.Error("task was not completed")
	}
}

func TestDispatcher_DoubleDash(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddWorkspace(7, service.Workspace{ID: 10, Name: "Home"})

	code, _, stderr := run(t, testFactory(svc, nil), "workspace", "create", "--config", loggedInDir(t), "--", "--quiet")

	if code != exitcode.Success {
		t.Fatalf("expected success, got %d: %s", code, stderr)
	}
	found := false
	for _, c := range svc.Calls() {
		if strings.HasPrefix(c, "CreateWorkspace") && strings.Contains(c, "--quiet") {
			found = true
		}
	}
	if !found {
		t.Errorf("args after -- should be positional, calls: %v", svc.Calls())
	}
}

func TestDispatcher_FactoryError(t *testing.T) {
	factory := func(ctx context.Context, cfg *config.Config, sess *session.Session) (service.Service, error) {
		return nil, errors.New("no route")
	}
	code, _, stderr := run(t, factory, "workspaces", "--config", loggedInDir(t))

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: backend error: no route\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}
