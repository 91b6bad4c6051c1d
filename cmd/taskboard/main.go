// Command taskboard is a terminal client for the board backend.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"taskboard/internal/backend/rest"
	"taskboard/internal/cli"
	"taskboard/internal/commands"
	"taskboard/internal/config"
	"taskboard/internal/service"
	"taskboard/internal/session"
)

// restBackend connects every command to the REST API named in the config.
func restBackend(_ context.Context, cfg *config.Config, sess *session.Session) (service.Service, error) {
	return rest.New(cfg, sess)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	code := cli.NewDispatcher(commands.DefaultRegistry, restBackend).
		Run(ctx, os.Args[1:], os.Stdout, os.Stderr)

	stop()
	os.Exit(code)
}
