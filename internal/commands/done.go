package commands

import (
	"context"
	"flag"
	"io"

	"taskboard/internal/config"
	"taskboard/internal/service"
	"taskboard/internal/session"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct {
	listID int64
	undo   bool
}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return nil }
func (c *DoneCmd) Synopsis() string  { return "Mark a task completed" }
func (c *DoneCmd) Usage() string     { return "taskboard done [common flags] --list <id> [--undo] <task-id>" }
func (c *DoneCmd) NeedsAuth() bool   { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.Int64Var(&c.listID, "list", 0, "")
	fs.Int64Var(&c.listID, "l", 0, "")
	fs.BoolVar(&c.undo, "undo", false, "")
}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	ids, err := ParseIDs(args, "task id")
	if err != nil {
		return usageError(errOut, "%v", err)
	}
	if c.listID < 1 {
		return usageError(errOut, "--list required")
	}

	task, err := findTask(ctx, svc, c.listID, ids[0])
	if err != nil {
		return fail(errOut, err)
	}

	want := service.StatusCompleted
	if c.undo {
		want = service.StatusPending
	}
	if task.Status == want {
		return ok(out, cfg.Quiet)
	}
	task.Status = want

	if _, err := svc.UpdateTask(ctx, task); err != nil {
		return fail(errOut, err)
	}
	return ok(out, cfg.Quiet)
}
