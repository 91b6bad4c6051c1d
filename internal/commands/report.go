package commands

import (
	"errors"
	"fmt"
	"io"

	"taskboard/internal/compose"
	"taskboard/internal/exitcode"
	"taskboard/internal/service"
	"taskboard/internal/session"
)

// NotLoggedIn is printed when an authenticated command runs without a session.
const NotLoggedIn = "error: not logged in (run: taskboard login)"

// fail prints err to errOut and returns the matching exit code.
func fail(errOut io.Writer, err error) int {
	switch {
	case errors.Is(err, session.ErrNoToken):
		fmt.Fprintln(errOut, NotLoggedIn)
		return exitcode.AuthError
	case errors.Is(err, session.ErrInvalidToken),
		errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, service.ErrInvalidCredentials):
		fmt.Fprintf(errOut, "error: auth error: %v\n", err)
		return exitcode.AuthError
	case errors.Is(err, service.ErrNotFound):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	case errors.Is(err, compose.ErrTitleRequired), errors.Is(err, compose.ErrListRequired):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	fmt.Fprintf(errOut, "error: backend error: %v\n", err)
	return exitcode.BackendError
}

// usageError prints a user error and returns exitcode.UserError.
func usageError(errOut io.Writer, format string, args ...interface{}) int {
	fmt.Fprintf(errOut, "error: "+format+"\n", args...)
	return exitcode.UserError
}

// ok prints "ok" unless quiet.
func ok(out io.Writer, quiet bool) int {
	if !quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
