package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskboard/internal/compose"
	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/service"
	"taskboard/internal/session"
)

func init() {
	Register(&AddCmd{})
}

// taskFlags are the optional task fields shared by add and task edit.
type taskFlags struct {
	description string
	priority    string
	status      string
	due         string
}

func (f *taskFlags) register(fs *flag.FlagSet) {
	*f = taskFlags{}
	fs.StringVar(&f.description, "description", "", "")
	fs.StringVar(&f.priority, "priority", "", "")
	fs.StringVar(&f.status, "status", "", "")
	fs.StringVar(&f.due, "due", "", "")
}

// apply copies every set field onto t.
func (f *taskFlags) apply(t *service.Task) error {
	if f.description != "" {
		t.Description = f.description
	}
	if f.priority != "" {
		p, err := service.ParsePriority(f.priority)
		if err != nil {
			return err
		}
		t.Priority = p
	}
	if f.status != "" {
		s, err := service.ParseStatus(f.status)
		if err != nil {
			return err
		}
		t.Status = s
	}
	if f.due != "" {
		due, err := service.ParseTimestamp(f.due)
		if err != nil {
			return err
		}
		t.DueDate = due
	}
	return nil
}

// AddCmd creates a task and attaches the selected labels.
type AddCmd struct {
	listID int64
	labels idList
	fields taskFlags
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "taskboard add [common flags] --list <id> [--description <text>] [--priority low|medium|high] [--status <status>] [--due <date>] [--label <id>]... <title...>"
}
func (c *AddCmd) NeedsAuth() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	c.labels = nil
	fs.Int64Var(&c.listID, "list", 0, "")
	fs.Int64Var(&c.listID, "l", 0, "")
	fs.Var(&c.labels, "label", "")
	c.fields.register(fs)
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	var t service.Task
	if err := c.fields.apply(&t); err != nil {
		return usageError(errOut, "%v", err)
	}

	creator := &compose.Creator{Service: svc, CreateTimeout: cfg.TaskCreateTimeout()}
	res, err := creator.Create(ctx, compose.TaskDraft{
		Title:       strings.Join(args, " "),
		Description: t.Description,
		Priority:    t.Priority,
		Status:      t.Status,
		DueDate:     t.DueDate,
		ListID:      c.listID,
		LabelIDs:    c.labels,
	})
	if err != nil {
		return fail(errOut, err)
	}

	if res.Partial() {
		// The task exists; report what did not stick.
		for _, f := range res.Failed {
			fmt.Fprintf(errOut, "error: failed to attach label %d: %v\n", f.LabelID, f.Err)
		}
		if !cfg.Quiet {
			fmt.Fprintf(out, "ok: task %d (%d of %d labels)\n", res.Task.ID, len(res.Attached), len(res.Attached)+len(res.Failed))
		}
		return exitcode.BackendError
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "ok: task %d\n", res.Task.ID)
	}
	return exitcode.Success
}
