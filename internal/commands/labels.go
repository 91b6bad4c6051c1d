package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"regexp"
	"strings"

	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/output"
	"taskboard/internal/service"
	"taskboard/internal/session"
)

func init() {
	Register(&LabelsCmd{})
	Register(&LabelCreateCmd{})
	Register(&LabelEditCmd{})
	Register(&LabelRmCmd{})
	Register(&TagCmd{})
	Register(&UntagCmd{})
}

var hexColor = regexp.MustCompile(`^#?[0-9a-fA-F]{6}$`)

// normalizeColor returns color as "#rrggbb", or an error for anything else.
func normalizeColor(color string) (string, error) {
	color = strings.TrimSpace(color)
	if !hexColor.MatchString(color) {
		return "", fmt.Errorf("invalid color: %s (want #rrggbb)", color)
	}
	return "#" + strings.ToLower(strings.TrimPrefix(color, "#")), nil
}

// LabelsCmd prints all labels, or those of one task.
type LabelsCmd struct {
	taskID int64
}

func (c *LabelsCmd) Name() string      { return "labels" }
func (c *LabelsCmd) Aliases() []string { return nil }
func (c *LabelsCmd) Synopsis() string  { return "Print labels" }
func (c *LabelsCmd) Usage() string     { return "taskboard labels [common flags] [--task <id>]" }
func (c *LabelsCmd) NeedsAuth() bool   { return true }

func (c *LabelsCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.Int64Var(&c.taskID, "task", 0, "")
}

func (c *LabelsCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	var (
		labels []service.Label
		err    error
	)
	if c.taskID > 0 {
		labels, err = svc.TaskLabels(ctx, c.taskID)
	} else {
		labels, err = svc.ListLabels(ctx)
	}
	if err != nil {
		return fail(errOut, err)
	}

	if len(labels) == 0 && !cfg.Quiet {
		fmt.Fprintln(out, "no labels found")
	}
	for _, l := range labels {
		output.FormatLabel(out, l)
	}
	return exitcode.Success
}

// LabelCreateCmd creates a label.
type LabelCreateCmd struct {
	title string
	color string
}

func (c *LabelCreateCmd) Name() string      { return "label create" }
func (c *LabelCreateCmd) Aliases() []string { return nil }
func (c *LabelCreateCmd) Synopsis() string  { return "Create a label" }
func (c *LabelCreateCmd) Usage() string {
	return "taskboard label create [common flags] [--color #rrggbb] <title...>"
}
func (c *LabelCreateCmd) NeedsAuth() bool { return true }

func (c *LabelCreateCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.title, "title", "", "")
	fs.StringVar(&c.color, "color", "", "")
}

func (c *LabelCreateCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	title := strings.TrimSpace(c.title)
	if title == "" {
		title = strings.TrimSpace(strings.Join(args, " "))
	}
	if title == "" {
		return usageError(errOut, "label title required")
	}

	l := service.Label{Title: title}
	if c.color != "" {
		color, err := normalizeColor(c.color)
		if err != nil {
			return usageError(errOut, "%v", err)
		}
		l.Color = color
	}

	created, err := svc.CreateLabel(ctx, l)
	if err != nil {
		return fail(errOut, err)
	}
	if !cfg.Quiet {
		output.FormatLabel(out, created)
	}
	return exitcode.Success
}

// LabelEditCmd renames or recolors a label.
type LabelEditCmd struct {
	title string
	color string
}

func (c *LabelEditCmd) Name() string      { return "label edit" }
func (c *LabelEditCmd) Aliases() []string { return nil }
func (c *LabelEditCmd) Synopsis() string  { return "Rename or recolor a label" }
func (c *LabelEditCmd) Usage() string {
	return "taskboard label edit [common flags] [--title <title>] [--color #rrggbb] <label-id>"
}
func (c *LabelEditCmd) NeedsAuth() bool { return true }

func (c *LabelEditCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.title, "title", "", "")
	fs.StringVar(&c.color, "color", "", "")
}

func (c *LabelEditCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	ids, err := ParseIDs(args, "label id")
	if err != nil {
		return usageError(errOut, "%v", err)
	}

	l, err := findLabel(ctx, svc, ids[0])
	if err != nil {
		return fail(errOut, err)
	}
	if title := strings.TrimSpace(c.title); title != "" {
		l.Title = title
	}
	if c.color != "" {
		color, err := normalizeColor(c.color)
		if err != nil {
			return usageError(errOut, "%v", err)
		}
		l.Color = color
	}

	updated, err := svc.UpdateLabel(ctx, l)
	if err != nil {
		return fail(errOut, err)
	}
	if !cfg.Quiet {
		output.FormatLabel(out, updated)
	}
	return exitcode.Success
}

// LabelRmCmd deletes a label.
type LabelRmCmd struct{}

func (c *LabelRmCmd) Name() string      { return "label rm" }
func (c *LabelRmCmd) Aliases() []string { return nil }
func (c *LabelRmCmd) Synopsis() string  { return "Delete a label" }
func (c *LabelRmCmd) Usage() string     { return "taskboard label rm [common flags] <label-id>" }
func (c *LabelRmCmd) NeedsAuth() bool   { return true }

func (c *LabelRmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LabelRmCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	ids, err := ParseIDs(args, "label id")
	if err != nil {
		return usageError(errOut, "%v", err)
	}
	if err := svc.DeleteLabel(ctx, ids[0]); err != nil {
		return fail(errOut, err)
	}
	return ok(out, cfg.Quiet)
}

// TagCmd attaches labels to a task.
type TagCmd struct{}

func (c *TagCmd) Name() string      { return "tag" }
func (c *TagCmd) Aliases() []string { return nil }
func (c *TagCmd) Synopsis() string  { return "Attach labels to a task" }
func (c *TagCmd) Usage() string     { return "taskboard tag [common flags] <task-id> <label-id>..." }
func (c *TagCmd) NeedsAuth() bool   { return true }

func (c *TagCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *TagCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	return runTag(ctx, cfg, args, out, errOut, svc.AttachLabel)
}

// UntagCmd detaches labels from a task.
type UntagCmd struct{}

func (c *UntagCmd) Name() string      { return "untag" }
func (c *UntagCmd) Aliases() []string { return nil }
func (c *UntagCmd) Synopsis() string  { return "Detach labels from a task" }
func (c *UntagCmd) Usage() string     { return "taskboard untag [common flags] <task-id> <label-id>..." }
func (c *UntagCmd) NeedsAuth() bool   { return true }

func (c *UntagCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UntagCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	return runTag(ctx, cfg, args, out, errOut, svc.DetachLabel)
}

// runTag is the shared implementation for tag and untag. Every label is
// tried; the first failure decides the exit code.
func runTag(ctx context.Context, cfg *config.Config, args []string, out, errOut io.Writer, op func(ctx context.Context, labelID, taskID int64) error) int {
	ids, err := ParseIDs(args, "task id")
	if err != nil {
		return usageError(errOut, "%v", err)
	}
	if len(args) < 2 {
		return usageError(errOut, "label id required")
	}
	taskID := ids[0]
	var labels idList
	for _, arg := range args[1:] {
		if err := labels.Set(arg); err != nil {
			return usageError(errOut, "invalid label id: %s", arg)
		}
	}

	code := exitcode.Success
	for _, labelID := range labels {
		if err := op(ctx, labelID, taskID); err != nil {
			fmt.Fprintf(errOut, "error: label %d: %v\n", labelID, err)
			if code == exitcode.Success {
				code = fail(io.Discard, err)
			}
		}
	}
	if code == exitcode.Success {
		return ok(out, cfg.Quiet)
	}
	return code
}
