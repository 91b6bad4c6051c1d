package commands

import (
	"context"
	"flag"
	"io"

	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/service"
	"taskboard/internal/session"
	"taskboard/internal/tui"
)

func init() {
	Register(&BoardCmd{})
}

// BoardCmd opens the interactive board.
type BoardCmd struct{}

func (c *BoardCmd) Name() string      { return "board" }
func (c *BoardCmd) Aliases() []string { return nil }
func (c *BoardCmd) Synopsis() string  { return "Open the interactive board" }
func (c *BoardCmd) Usage() string     { return "taskboard board [common flags]" }
func (c *BoardCmd) NeedsAuth() bool   { return true }

func (c *BoardCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *BoardCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	err := tui.Run(ctx, svc, sess.UserID(), tui.Options{CreateTimeout: cfg.TaskCreateTimeout()})
	if err != nil {
		return fail(errOut, err)
	}
	return exitcode.Success
}
