// Package cli parses the command line and dispatches to registered commands.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskboard/internal/commands"
	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/logging"
	"taskboard/internal/service"
	"taskboard/internal/session"
)

// ServiceFactory creates a Service from config and the current session.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config, sess *session.Session) (service.Service, error)

// DefaultCommand runs when no command is given.
const DefaultCommand = "board"

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		cmd, ok := d.registry.Find(DefaultCommand)
		if !ok {
			commands.PrintHelp(out, d.registry)
			return exitcode.Success
		}
		return d.dispatchCommand(ctx, cmd, nil, out, errOut)
	}

	// Flags require a command
	if strings.HasPrefix(args[0], "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", args[0])
		return exitcode.UserError
	}

	// "taskboard workspace" alone prints its subcommands, also when the
	// group word doubles as an alias ("list" for tasks)
	if len(args) == 1 && d.registry.IsGroup(args[0]) {
		commands.PrintGroupUsage(out, errOut, d.registry, args[0])
		return exitcode.UserError
	}

	cmd, remaining, ok := d.registry.Lookup(args)
	if !ok {
		if d.registry.IsGroup(args[0]) {
			commands.PrintGroupUsage(out, errOut, d.registry, args[0])
			return exitcode.UserError
		}
		fmt.Fprintf(errOut, "error: unknown command: %s\n", args[0])
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, remaining, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	// Create flag set with custom error handling
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var configDir string
	var quiet bool
	var debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	// Register command-specific flags
	cmd.RegisterFlags(fs)

	positionalArgs, err := parseInterspersed(fs, args)
	if err != nil {
		return flagError(errOut, err)
	}

	// Create config
	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug || cfg.Debug

	logPath := ""
	if err := cfg.EnsureDir(); err == nil {
		logPath = cfg.LogPath()
	}
	logging.Init(logging.Options{Path: logPath, Debug: cfg.Debug, Stderr: errOut})
	log := logging.Logger.WithField("command", cmd.Name())

	sess := session.Open(session.FileStore{Path: cfg.TokenPath()})

	// Authenticated commands never reach the backend without a session
	if cmd.NeedsAuth() && !sess.Authenticated() {
		fmt.Fprintln(errOut, commands.NotLoggedIn)
		return exitcode.AuthError
	}

	if d.factory == nil {
		fmt.Fprintln(errOut, "error: no backend configured")
		return exitcode.BackendError
	}
	svc, err := d.factory(ctx, cfg, sess)
	if err != nil {
		fmt.Fprintf(errOut, "error: backend error: %s\n", err)
		return exitcode.BackendError
	}

	log.WithField("args", len(positionalArgs)).Debug("dispatching")
	code := cmd.Run(ctx, cfg, sess, svc, positionalArgs, out, errOut)
	log.WithField("exit_code", code).Debug("command finished")
	return code
}

// parseInterspersed parses flags that may appear before, between or after
// positional args. Everything after "--" is positional.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if consumed := len(args) - len(rest); consumed > 0 && args[consumed-1] == "--" {
			return append(positional, rest...), nil
		}
		if len(rest) == 0 {
			return positional, nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

// flagError reports a flag parse error and returns exitcode.UserError.
func flagError(errOut io.Writer, err error) int {
	errStr := err.Error()

	// Check for missing flag value
	if strings.Contains(errStr, "needs a value") || strings.Contains(errStr, "flag needs an argument") {
		parts := strings.Split(errStr, ":")
		flagPart := strings.TrimSpace(parts[len(parts)-1])
		fmt.Fprintf(errOut, "error: flag needs an argument: %s\n", flagPart)
		return exitcode.UserError
	}

	// Check for unknown flag
	if strings.HasPrefix(errStr, "flag provided but not defined:") {
		flagName := strings.TrimPrefix(errStr, "flag provided but not defined: ")
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", flagName)
		return exitcode.UserError
	}

	fmt.Fprintf(errOut, "error: %s\n", errStr)
	return exitcode.UserError
}
