package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/output"
	"taskboard/internal/service"
	"taskboard/internal/session"
)

func init() {
	Register(&ListsCmd{})
}

// ListsCmd implements the lists command.
type ListsCmd struct {
	withTasks bool
}

func (c *ListsCmd) Name() string      { return "lists" }
func (c *ListsCmd) Aliases() []string { return nil }
func (c *ListsCmd) Synopsis() string  { return "Print the lists of a workspace" }
func (c *ListsCmd) Usage() string {
	return "taskboard lists [common flags] [--tasks] <workspace-id>"
}
func (c *ListsCmd) NeedsAuth() bool { return true }

func (c *ListsCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.withTasks, "tasks", false, "")
}

func (c *ListsCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	ids, err := ParseIDs(args, "workspace id")
	if err != nil {
		return usageError(errOut, "%v", err)
	}

	lists, err := svc.ListLists(ctx, ids[0])
	if err != nil {
		return fail(errOut, err)
	}
	if len(lists) == 0 && !cfg.Quiet {
		fmt.Fprintln(out, "no lists found")
		return exitcode.Success
	}

	if !c.withTasks {
		for _, l := range lists {
			output.FormatList(out, l)
		}
		return exitcode.Success
	}

	for _, l := range lists {
		tasks, err := svc.ListTasks(ctx, l.ID)
		if err != nil {
			// Partial failure: what was printed stays, then error
			fmt.Fprintf(errOut, "error: failed to fetch list: %s: %v\n", l.Title, err)
			return exitcode.BackendError
		}
		output.FormatListHeader(out, l)
		for _, t := range tasks {
			output.FormatTaskIndented(out, t)
		}
	}
	return exitcode.Success
}
