package commands_test

import (
	"errors"
	"path/filepath"
	"testing"

	"taskboard/internal/commands"
	"taskboard/internal/exitcode"
	"taskboard/internal/service"
	"taskboard/internal/session"
	"taskboard/internal/testutil"
)

// TestLoginCommand_StoresSession verifies a successful login persists the token
func TestLoginCommand_StoresSession(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.LoginToken = testutil.Token(t, 42)
	store := session.FileStore{Path: filepath.Join(t.TempDir(), "token.json")}
	sess := session.Open(store)

	stdout, stderr, code := runCommand(t, &commands.LoginCmd{}, svc, sess,
		[]string{"--email", "a@example.com", "--password", "secret"}, false)

	expectCode(t, code, exitcode.Success, stderr)
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	if !sess.Authenticated() || sess.UserID() != 42 {
		t.Errorf("session not established: authenticated=%v user=%d", sess.Authenticated(), sess.UserID())
	}

	// A fresh process sees the same session
	reopened := session.Open(store)
	if reopened.UserID() != 42 {
		t.Errorf("expected persisted user 42, got %d", reopened.UserID())
	}
}

// TestLoginCommand_PasswordFromEnv verifies the password falls back to the environment
func TestLoginCommand_PasswordFromEnv(t *testing.T) {
	t.Setenv(commands.EnvPassword, "from-env")
	svc := testutil.NewFakeService()
	svc.LoginToken = testutil.Token(t, 42)

	_, stderr, code := runCommand(t, &commands.LoginCmd{}, svc, nil, []string{"--email", "a@example.com"}, true)

	expectCode(t, code, exitcode.Success, stderr)
}

// TestLoginCommand_MissingCredentials verifies nothing is sent without credentials
func TestLoginCommand_MissingCredentials(t *testing.T) {
	t.Setenv(commands.EnvPassword, "")
	svc := testutil.NewFakeService()

	_, stderr, code := runCommand(t, &commands.LoginCmd{}, svc, nil, []string{"--email", "a@example.com"}, false)

	expectCode(t, code, exitcode.UserError, stderr)
	if len(svc.Calls()) != 0 {
		t.Errorf("expected no calls, got %v", svc.Calls())
	}
}

// TestLoginCommand_Rejected verifies bad credentials are an auth error
func TestLoginCommand_Rejected(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.LoginErr = service.ErrInvalidCredentials
	sess := session.Open(session.NewMemoryStore(""))

	stdout, stderr, code := runCommand(t, &commands.LoginCmd{}, svc, sess,
		[]string{"--email", "a@example.com", "--password", "wrong"}, false)

	expectCode(t, code, exitcode.AuthError, stderr)
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: auth error: invalid email or password\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if sess.Authenticated() {
		t.Error("rejected login established a session")
	}
}

// TestLoginCommand_UndecodableToken verifies a token that cannot be decoded is not stored
func TestLoginCommand_UndecodableToken(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.LoginToken = "not-a-token"
	sess := session.Open(session.NewMemoryStore(""))

	_, stderr, code := runCommand(t, &commands.LoginCmd{}, svc, sess,
		[]string{"--email", "a@example.com", "--password", "secret"}, false)

	expectCode(t, code, exitcode.AuthError, stderr)
	if sess.Authenticated() {
		t.Error("undecodable token established a session")
	}
}

// TestLoginCommand_AlreadyLoggedIn verifies login is a no-op with a session
func TestLoginCommand_AlreadyLoggedIn(t *testing.T) {
	svc := testutil.NewFakeService()

	stdout, stderr, code := runCommand(t, &commands.LoginCmd{}, svc, loggedIn(t), nil, false)

	expectCode(t, code, exitcode.Success, stderr)
	if stdout != "already logged in\n" {
		t.Errorf("unexpected output %q", stdout)
	}
	if len(svc.Calls()) != 0 {
		t.Errorf("expected no calls, got %v", svc.Calls())
	}
}

// TestLogoutCommand verifies logout clears the session
func TestLogoutCommand(t *testing.T) {
	store := session.NewMemoryStore(testutil.Token(t, testUser))
	sess := session.Open(store)

	stdout, stderr, code := runCommand(t, &commands.LogoutCmd{}, nil, sess, nil, false)

	expectCode(t, code, exitcode.Success, stderr)
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	if sess.Authenticated() {
		t.Error("session still authenticated")
	}
	if _, err := store.Load(); !errors.Is(err, session.ErrNoRecord) {
		t.Errorf("expected cleared store, got %v", err)
	}
}

// TestLogoutCommand_NotLoggedIn verifies logout handles not being logged in
func TestLogoutCommand_NotLoggedIn(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.LogoutCmd{}, nil, nil, nil, false)

	expectCode(t, code, exitcode.Success, stderr)
	if stdout != "not logged in\n" {
		t.Errorf("expected 'not logged in\\n', got %q", stdout)
	}
}

// TestLogoutCommand_NotLoggedInQuiet verifies logout is quiet when not logged in
func TestLogoutCommand_NotLoggedInQuiet(t *testing.T) {
	stdout, _, code := runCommand(t, &commands.LogoutCmd{}, nil, nil, nil, true)

	expectCode(t, code, exitcode.Success, "")
	if stdout != "" {
		t.Errorf("expected no output with --quiet, got %q", stdout)
	}
}

// TestWhoamiCommand prints the signed-in account
func TestWhoamiCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser(service.User{ID: testUser, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"})

	stdout, stderr, code := runCommand(t, &commands.WhoamiCmd{}, svc, loggedIn(t), nil, false)

	expectCode(t, code, exitcode.Success, stderr)
	if stdout != "Ada Lovelace <ada@example.com>\n" {
		t.Errorf("unexpected output %q", stdout)
	}
}

// TestProfileCommand_NothingToUpdate rejects an empty update
func TestProfileCommand_NothingToUpdate(t *testing.T) {
	svc := testutil.NewFakeService()

	_, stderr, code := runCommand(t, &commands.ProfileCmd{}, svc, loggedIn(t), nil, false)

	expectCode(t, code, exitcode.UserError, stderr)
	if len(svc.Calls()) != 0 {
		t.Errorf("expected no calls, got %v", svc.Calls())
	}
}

// TestRegisterCommand registers without touching the session
func TestRegisterCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	sess := session.Open(session.NewMemoryStore(""))

	stdout, stderr, code := runCommand(t, &commands.RegisterCmd{}, svc, sess,
		[]string{"--first", "Ada", "--email", "ada@example.com", "--password", "pw"}, false)

	expectCode(t, code, exitcode.Success, stderr)
	if stdout != "ok\n" || !hasCall(svc, "Register ada@example.com") {
		t.Errorf("unexpected result %q, %v", stdout, svc.Calls())
	}
	if sess.Authenticated() {
		t.Error("register should not log in")
	}
}
