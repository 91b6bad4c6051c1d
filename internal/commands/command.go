// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"

	"taskboard/internal/config"
	"taskboard/internal/service"
	"taskboard/internal/session"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the command name. Subcommands use "group sub", e.g.
	// "workspace create".
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsAuth returns true if the command requires a session.
	// Commands like help, version, login, logout return false.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg, sess and svc are always provided.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int
}
