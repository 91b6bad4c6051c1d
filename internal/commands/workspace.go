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
	Register(&WorkspacesCmd{})
	Register(&WorkspaceCreateCmd{})
	Register(&WorkspaceEditCmd{})
	Register(&WorkspaceRmCmd{})
}

// WorkspacesCmd lists the signed-in user's workspaces.
type WorkspacesCmd struct{}

func (c *WorkspacesCmd) Name() string      { return "workspaces" }
func (c *WorkspacesCmd) Aliases() []string { return []string{"ws"} }
func (c *WorkspacesCmd) Synopsis() string  { return "Print your workspaces" }
func (c *WorkspacesCmd) Usage() string     { return "taskboard workspaces [common flags]" }
func (c *WorkspacesCmd) NeedsAuth() bool   { return true }

func (c *WorkspacesCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *WorkspacesCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	workspaces, err := svc.ListWorkspaces(ctx, sess.UserID())
	if err != nil {
		return fail(errOut, err)
	}
	if len(workspaces) == 0 && !cfg.Quiet {
		fmt.Fprintln(out, "no workspaces found")
	}
	for _, ws := range workspaces {
		output.FormatWorkspace(out, ws)
	}
	return exitcode.Success
}

// WorkspaceCreateCmd creates a workspace.
type WorkspaceCreateCmd struct {
	name        string
	description string
	public      bool
}

func (c *WorkspaceCreateCmd) Name() string      { return "workspace create" }
func (c *WorkspaceCreateCmd) Aliases() []string { return nil }
func (c *WorkspaceCreateCmd) Synopsis() string  { return "Create a workspace" }
func (c *WorkspaceCreateCmd) Usage() string {
	return "taskboard workspace create [common flags] --name <name> [--description <text>] [--public]"
}
func (c *WorkspaceCreateCmd) NeedsAuth() bool { return true }

func (c *WorkspaceCreateCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.name, "name", "", "")
	fs.StringVar(&c.description, "description", "", "")
	fs.BoolVar(&c.public, "public", false, "")
}

func (c *WorkspaceCreateCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	name := strings.TrimSpace(c.name)
	if name == "" {
		name = strings.TrimSpace(strings.Join(args, " "))
	}
	if name == "" {
		return usageError(errOut, "workspace name required")
	}

	ws := service.Workspace{Name: name, Description: c.description, Type: service.WorkspacePrivate}
	if c.public {
		ws.Type = service.WorkspacePublic
	}

	created, err := svc.CreateWorkspace(ctx, sess.UserID(), ws)
	if err != nil {
		return fail(errOut, err)
	}
	if !cfg.Quiet {
		output.FormatWorkspace(out, created)
	}
	return exitcode.Success
}

// WorkspaceEditCmd updates a workspace.
type WorkspaceEditCmd struct {
	name        string
	description string
	public      bool
	private     bool
}

func (c *WorkspaceEditCmd) Name() string      { return "workspace edit" }
func (c *WorkspaceEditCmd) Aliases() []string { return nil }
func (c *WorkspaceEditCmd) Synopsis() string  { return "Rename or change a workspace" }
func (c *WorkspaceEditCmd) Usage() string {
	return "taskboard workspace edit [common flags] [--name <name>] [--description <text>] [--public|--private] <id>"
}
func (c *WorkspaceEditCmd) NeedsAuth() bool { return true }

func (c *WorkspaceEditCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.name, "name", "", "")
	fs.StringVar(&c.description, "description", "", "")
	fs.BoolVar(&c.public, "public", false, "")
	fs.BoolVar(&c.private, "private", false, "")
}

func (c *WorkspaceEditCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	ids, err := ParseIDs(args, "workspace id")
	if err != nil {
		return usageError(errOut, "%v", err)
	}
	if c.public && c.private {
		return usageError(errOut, "cannot use both --public and --private")
	}

	ws, err := svc.GetWorkspace(ctx, ids[0])
	if err != nil {
		return fail(errOut, err)
	}
	if name := strings.TrimSpace(c.name); name != "" {
		ws.Name = name
	}
	if c.description != "" {
		ws.Description = c.description
	}
	switch {
	case c.public:
		ws.Type = service.WorkspacePublic
	case c.private:
		ws.Type = service.WorkspacePrivate
	}

	updated, err := svc.UpdateWorkspace(ctx, ws)
	if err != nil {
		return fail(errOut, err)
	}
	if !cfg.Quiet {
		output.FormatWorkspace(out, updated)
	}
	return exitcode.Success
}

// WorkspaceRmCmd deletes a workspace.
type WorkspaceRmCmd struct{}

func (c *WorkspaceRmCmd) Name() string      { return "workspace rm" }
func (c *WorkspaceRmCmd) Aliases() []string { return nil }
func (c *WorkspaceRmCmd) Synopsis() string  { return "Delete a workspace" }
func (c *WorkspaceRmCmd) Usage() string     { return "taskboard workspace rm [common flags] <id>" }
func (c *WorkspaceRmCmd) NeedsAuth() bool   { return true }

func (c *WorkspaceRmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *WorkspaceRmCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	ids, err := ParseIDs(args, "workspace id")
	if err != nil {
		return usageError(errOut, "%v", err)
	}
	if err := svc.DeleteWorkspace(ctx, ids[0]); err != nil {
		return fail(errOut, err)
	}
	return ok(out, cfg.Quiet)
}
