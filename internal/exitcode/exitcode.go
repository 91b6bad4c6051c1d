// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown id, validation).
	UserError = 1

	// AuthError indicates a missing, expired or rejected session.
	AuthError = 2

	// BackendError indicates a backend/API/network error, including a
	// partially applied composite operation.
	BackendError = 3
)
