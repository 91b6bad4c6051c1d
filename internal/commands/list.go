package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/service"
	"taskboard/internal/session"
)

func init() {
	Register(&ListCreateCmd{})
	Register(&ListEditCmd{})
	Register(&ListRmCmd{})
}

// ListCreateCmd creates a list in a workspace.
type ListCreateCmd struct {
	title       string
	description string
}

func (c *ListCreateCmd) Name() string      { return "list create" }
func (c *ListCreateCmd) Aliases() []string { return []string{"createlist"} }
func (c *ListCreateCmd) Synopsis() string  { return "Create a list" }
func (c *ListCreateCmd) Usage() string {
	return "taskboard list create [common flags] --title <title> [--description <text>] <workspace-id>"
}
func (c *ListCreateCmd) NeedsAuth() bool { return true }

func (c *ListCreateCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.title, "title", "", "")
	fs.StringVar(&c.description, "description", "", "")
}

func (c *ListCreateCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	ids, err := ParseIDs(args, "workspace id")
	if err != nil {
		return usageError(errOut, "%v", err)
	}
	title := strings.TrimSpace(c.title)
	if title == "" {
		title = strings.TrimSpace(strings.Join(args[1:], " "))
	}
	if title == "" {
		return usageError(errOut, "list title required")
	}

	created, err := svc.CreateList(ctx, service.List{Title: title, Description: c.description, WorkspaceID: ids[0]})
	if err != nil {
		return fail(errOut, err)
	}
	if !cfg.Quiet {
		fmt.Fprintf(out, "ok: list %d\n", created.ID)
	}
	return exitcode.Success
}

// ListEditCmd renames a list or changes its description.
type ListEditCmd struct {
	workspace   int64
	title       string
	description string
}

func (c *ListEditCmd) Name() string      { return "list edit" }
func (c *ListEditCmd) Aliases() []string { return nil }
func (c *ListEditCmd) Synopsis() string  { return "Rename a list" }
func (c *ListEditCmd) Usage() string {
	return "taskboard list edit [common flags] --workspace <id> [--title <title>] [--description <text>] <list-id>"
}
func (c *ListEditCmd) NeedsAuth() bool { return true }

func (c *ListEditCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.Int64Var(&c.workspace, "workspace", 0, "")
	fs.StringVar(&c.title, "title", "", "")
	fs.StringVar(&c.description, "description", "", "")
}

func (c *ListEditCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	ids, err := ParseIDs(args, "list id")
	if err != nil {
		return usageError(errOut, "%v", err)
	}
	if c.workspace < 1 {
		return usageError(errOut, "--workspace required")
	}

	l, err := findList(ctx, svc, c.workspace, ids[0])
	if err != nil {
		return fail(errOut, err)
	}
	if title := strings.TrimSpace(c.title); title != "" {
		l.Title = title
	}
	if c.description != "" {
		l.Description = c.description
	}

	if _, err := svc.UpdateList(ctx, l); err != nil {
		return fail(errOut, err)
	}
	return ok(out, cfg.Quiet)
}

// ListRmCmd deletes a list.
type ListRmCmd struct {
	force bool
}

func (c *ListRmCmd) Name() string      { return "list rm" }
func (c *ListRmCmd) Aliases() []string { return []string{"rmlist"} }
func (c *ListRmCmd) Synopsis() string  { return "Delete a list" }
func (c *ListRmCmd) Usage() string     { return "taskboard list rm [common flags] [--force] <list-id>" }
func (c *ListRmCmd) NeedsAuth() bool   { return true }

func (c *ListRmCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.force, "force", false, "")
}

func (c *ListRmCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	ids, err := ParseIDs(args, "list id")
	if err != nil {
		return usageError(errOut, "%v", err)
	}

	// Refuse to drop a list that still holds open work unless forced.
	if !c.force {
		tasks, err := svc.ListTasks(ctx, ids[0])
		if err != nil {
			return fail(errOut, err)
		}
		for _, t := range tasks {
			if t.Status != service.StatusCompleted {
				return usageError(errOut, "list has open tasks (use --force)")
			}
		}
	}

	if err := svc.DeleteList(ctx, ids[0]); err != nil {
		return fail(errOut, err)
	}
	return ok(out, cfg.Quiet)
}
