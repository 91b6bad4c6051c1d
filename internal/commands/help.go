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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "taskboard help [command]" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		return PrintGroupUsage(out, errOut, DefaultRegistry, strings.Join(args, " "))
	}
	PrintHelp(out, DefaultRegistry)
	return exitcode.Success
}

// PrintHelp writes the usage line of every command in r.
func PrintHelp(out io.Writer, r *Registry) {
	fmt.Fprintln(out, "Usage:")
	fmt.Fprintln(out, "  taskboard                  Open the interactive board")
	for _, cmd := range r.All() {
		fmt.Fprintf(out, "  %s\n", cmd.Usage())
	}
	fmt.Fprint(out, commonFlagsHelp)
}

// PrintGroupUsage writes the usage of name, or of every subcommand when name
// is a group like "workspace".
func PrintGroupUsage(out, errOut io.Writer, r *Registry, name string) int {
	cmd, found := r.Find(name)
	if !r.IsGroup(name) {
		if !found {
			return usageError(errOut, "unknown command: %s", name)
		}
		fmt.Fprintf(out, "%s\n  %s\n", cmd.Synopsis(), cmd.Usage())
		return exitcode.Success
	}

	fmt.Fprintln(out, "Usage:")
	for _, sub := range r.All() {
		if strings.HasPrefix(sub.Name(), name+" ") {
			fmt.Fprintf(out, "  %-40s %s\n", sub.Usage(), sub.Synopsis())
		}
	}
	// a group word that is also an alias, e.g. "list" for tasks
	if found {
		fmt.Fprintf(out, "  %-40s %s\n", cmd.Usage(), cmd.Synopsis())
	}
	return exitcode.Success
}

const commonFlagsHelp = `
Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
