package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/output"
	"taskboard/internal/service"
	"taskboard/internal/session"
)

func init() {
	Register(&TasksCmd{})
	Register(&TaskEditCmd{})
	Register(&MoveCmd{})
}

// TasksCmd prints the tasks of one list.
type TasksCmd struct {
	all bool
}

func (c *TasksCmd) Name() string      { return "tasks" }
func (c *TasksCmd) Aliases() []string { return []string{"list"} }
func (c *TasksCmd) Synopsis() string  { return "Print the tasks of a list" }
func (c *TasksCmd) Usage() string     { return "taskboard tasks [common flags] [--all] <list-id>" }
func (c *TasksCmd) NeedsAuth() bool   { return true }

func (c *TasksCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.all, "all", false, "")
}

func (c *TasksCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	ids, err := ParseIDs(args, "list id")
	if err != nil {
		return usageError(errOut, "%v", err)
	}

	tasks, err := svc.ListTasks(ctx, ids[0])
	if err != nil {
		return fail(errOut, err)
	}

	shown := 0
	for _, t := range tasks {
		if !c.all && t.Status == service.StatusCompleted {
			continue
		}
		output.FormatTask(out, t)
		shown++
	}
	if shown == 0 && !cfg.Quiet {
		fmt.Fprintln(out, "no tasks found")
	}
	return exitcode.Success
}

// TaskEditCmd changes the fields of a task.
type TaskEditCmd struct {
	listID int64
	title  string
	fields taskFlags
}

func (c *TaskEditCmd) Name() string      { return "task edit" }
func (c *TaskEditCmd) Aliases() []string { return nil }
func (c *TaskEditCmd) Synopsis() string  { return "Edit a task" }
func (c *TaskEditCmd) Usage() string {
	return "taskboard task edit [common flags] --list <id> [--title <title>] [--description <text>] [--priority <p>] [--status <s>] [--due <date>] <task-id>"
}
func (c *TaskEditCmd) NeedsAuth() bool { return true }

func (c *TaskEditCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.Int64Var(&c.listID, "list", 0, "")
	fs.Int64Var(&c.listID, "l", 0, "")
	fs.StringVar(&c.title, "title", "", "")
	c.fields.register(fs)
}

func (c *TaskEditCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
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
	if title := strings.TrimSpace(c.title); title != "" {
		task.Title = title
	}
	if err := c.fields.apply(&task); err != nil {
		return usageError(errOut, "%v", err)
	}

	updated, err := svc.UpdateTask(ctx, task)
	if err != nil {
		return fail(errOut, err)
	}
	if !cfg.Quiet {
		output.FormatTask(out, updated)
	}
	return exitcode.Success
}

// MoveCmd moves a task to another list.
type MoveCmd struct {
	from int64
}

func (c *MoveCmd) Name() string      { return "mv" }
func (c *MoveCmd) Aliases() []string { return []string{"move"} }
func (c *MoveCmd) Synopsis() string  { return "Move a task to another list" }
func (c *MoveCmd) Usage() string {
	return "taskboard mv [common flags] --from <list-id> <task-id> <list-id>"
}
func (c *MoveCmd) NeedsAuth() bool { return true }

func (c *MoveCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.Int64Var(&c.from, "from", 0, "")
}

func (c *MoveCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	ids, err := ParseIDs(args, "task id", "list id")
	if err != nil {
		return usageError(errOut, "%v", err)
	}
	if c.from < 1 {
		return usageError(errOut, "--from required")
	}
	if c.from == ids[1] {
		return ok(out, cfg.Quiet)
	}

	task, err := findTask(ctx, svc, c.from, ids[0])
	if err != nil {
		return fail(errOut, err)
	}
	task.ListID = ids[1]

	if _, err := svc.UpdateTask(ctx, task); err != nil {
		return fail(errOut, err)
	}
	return ok(out, cfg.Quiet)
}
