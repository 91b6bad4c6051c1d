package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/service"
	"taskboard/internal/session"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return nil }
func (c *RmCmd) Synopsis() string  { return "Delete tasks" }
func (c *RmCmd) Usage() string     { return "taskboard rm [common flags] <task-id>..." }
func (c *RmCmd) NeedsAuth() bool   { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		return usageError(errOut, "task id required")
	}
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := ParseID(arg)
		if err != nil {
			return usageError(errOut, "invalid task id: %s", arg)
		}
		ids = append(ids, id)
	}

	// Ids are validated up front so a typo deletes nothing.
	for _, id := range ids {
		if err := svc.DeleteTask(ctx, id); err != nil {
			code := fail(errOut, err)
			if len(ids) > 1 {
				fmt.Fprintf(errOut, "error: stopped at task %d\n", id)
			}
			return code
		}
	}
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
