package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/output"
	"taskboard/internal/service"
	"taskboard/internal/session"
)

func init() {
	Register(&AttachmentsCmd{})
	Register(&AttachCmd{})
	Register(&AttachmentGetCmd{})
	Register(&AttachmentRenameCmd{})
	Register(&AttachmentRmCmd{})
}

// AttachmentsCmd prints the files attached to a task.
type AttachmentsCmd struct{}

func (c *AttachmentsCmd) Name() string      { return "attachments" }
func (c *AttachmentsCmd) Aliases() []string { return nil }
func (c *AttachmentsCmd) Synopsis() string  { return "Print the attachments of a task" }
func (c *AttachmentsCmd) Usage() string     { return "taskboard attachments [common flags] <task-id>" }
func (c *AttachmentsCmd) NeedsAuth() bool   { return true }

func (c *AttachmentsCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AttachmentsCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	ids, err := ParseIDs(args, "task id")
	if err != nil {
		return usageError(errOut, "%v", err)
	}

	atts, err := svc.ListAttachments(ctx, ids[0])
	if err != nil {
		return fail(errOut, err)
	}
	if len(atts) == 0 && !cfg.Quiet {
		fmt.Fprintln(out, "no attachments found")
	}
	for _, a := range atts {
		output.FormatAttachment(out, a)
	}
	return exitcode.Success
}

// AttachCmd uploads a local file to a task.
type AttachCmd struct {
	name string
}

func (c *AttachCmd) Name() string      { return "attach" }
func (c *AttachCmd) Aliases() []string { return nil }
func (c *AttachCmd) Synopsis() string  { return "Attach a file to a task" }
func (c *AttachCmd) Usage() string {
	return "taskboard attach [common flags] [--name <file-name>] <task-id> <path>"
}
func (c *AttachCmd) NeedsAuth() bool { return true }

func (c *AttachCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.name, "name", "", "")
}

func (c *AttachCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	ids, err := ParseIDs(args, "task id")
	if err != nil {
		return usageError(errOut, "%v", err)
	}
	if len(args) < 2 {
		return usageError(errOut, "file path required")
	}
	path := args[1]

	content, err := os.ReadFile(path)
	if err != nil {
		return usageError(errOut, "cannot read file: %v", err)
	}
	name := strings.TrimSpace(c.name)
	if name == "" {
		name = filepath.Base(path)
	}

	created, err := svc.CreateAttachment(ctx, ids[0], service.Attachment{FileName: name, Content: content})
	if err != nil {
		return fail(errOut, err)
	}
	if !cfg.Quiet {
		output.FormatAttachment(out, created)
	}
	return exitcode.Success
}

// AttachmentGetCmd writes an attachment's content to disk.
type AttachmentGetCmd struct {
	taskID int64
	out    string
}

func (c *AttachmentGetCmd) Name() string      { return "attachment get" }
func (c *AttachmentGetCmd) Aliases() []string { return nil }
func (c *AttachmentGetCmd) Synopsis() string  { return "Download an attachment" }
func (c *AttachmentGetCmd) Usage() string {
	return "taskboard attachment get [common flags] --task <id> [--out <path>] <attachment-id>"
}
func (c *AttachmentGetCmd) NeedsAuth() bool { return true }

func (c *AttachmentGetCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.Int64Var(&c.taskID, "task", 0, "")
	fs.StringVar(&c.out, "out", "", "")
}

func (c *AttachmentGetCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	ids, err := ParseIDs(args, "attachment id")
	if err != nil {
		return usageError(errOut, "%v", err)
	}
	if c.taskID < 1 {
		return usageError(errOut, "--task required")
	}

	a, err := findAttachment(ctx, svc, c.taskID, ids[0])
	if err != nil {
		return fail(errOut, err)
	}

	path := c.out
	if path == "" {
		path = filepath.Base(a.FileName)
	}
	if path == "-" {
		_, err = out.Write(a.Content)
		if err != nil {
			return usageError(errOut, "cannot write: %v", err)
		}
		return exitcode.Success
	}
	if err := os.WriteFile(path, a.Content, 0o644); err != nil {
		return usageError(errOut, "cannot write file: %v", err)
	}
	if !cfg.Quiet {
		fmt.Fprintf(out, "ok: %s (%d bytes)\n", path, len(a.Content))
	}
	return exitcode.Success
}

// AttachmentRenameCmd changes an attachment's file name.
type AttachmentRenameCmd struct {
	taskID int64
}

func (c *AttachmentRenameCmd) Name() string      { return "attachment rename" }
func (c *AttachmentRenameCmd) Aliases() []string { return nil }
func (c *AttachmentRenameCmd) Synopsis() string  { return "Rename an attachment" }
func (c *AttachmentRenameCmd) Usage() string {
	return "taskboard attachment rename [common flags] --task <id> <attachment-id> <file-name>"
}
func (c *AttachmentRenameCmd) NeedsAuth() bool { return true }

func (c *AttachmentRenameCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.Int64Var(&c.taskID, "task", 0, "")
}

func (c *AttachmentRenameCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	ids, err := ParseIDs(args, "attachment id")
	if err != nil {
		return usageError(errOut, "%v", err)
	}
	name := strings.TrimSpace(strings.Join(args[1:], " "))
	if name == "" {
		return usageError(errOut, "file name required")
	}
	if c.taskID < 1 {
		return usageError(errOut, "--task required")
	}

	a, err := findAttachment(ctx, svc, c.taskID, ids[0])
	if err != nil {
		return fail(errOut, err)
	}
	a.FileName = name

	updated, err := svc.UpdateAttachment(ctx, a)
	if err != nil {
		return fail(errOut, err)
	}
	if !cfg.Quiet {
		output.FormatAttachment(out, updated)
	}
	return exitcode.Success
}

// AttachmentRmCmd deletes an attachment.
type AttachmentRmCmd struct{}

func (c *AttachmentRmCmd) Name() string      { return "attachment rm" }
func (c *AttachmentRmCmd) Aliases() []string { return nil }
func (c *AttachmentRmCmd) Synopsis() string  { return "Delete an attachment" }
func (c *AttachmentRmCmd) Usage() string {
	return "taskboard attachment rm [common flags] <attachment-id>"
}
func (c *AttachmentRmCmd) NeedsAuth() bool { return true }

func (c *AttachmentRmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AttachmentRmCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	ids, err := ParseIDs(args, "attachment id")
	if err != nil {
		return usageError(errOut, "%v", err)
	}
	if err := svc.DeleteAttachment(ctx, ids[0]); err != nil {
		return fail(errOut, err)
	}
	return ok(out, cfg.Quiet)
}
