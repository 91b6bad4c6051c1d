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
	Register(&RegisterCmd{})
	Register(&WhoamiCmd{})
	Register(&ProfileCmd{})
}

// RegisterCmd creates an account.
type RegisterCmd struct {
	first    string
	last     string
	email    string
	password string
	image    string
}

func (c *RegisterCmd) Name() string      { return "register" }
func (c *RegisterCmd) Aliases() []string { return nil }
func (c *RegisterCmd) Synopsis() string  { return "Create an account" }
func (c *RegisterCmd) Usage() string {
	return "taskboard register [common flags] --first <name> --last <name> --email <email> --password <password> [--image <path>]"
}
func (c *RegisterCmd) NeedsAuth() bool { return false }

func (c *RegisterCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.first, "first", "", "")
	fs.StringVar(&c.last, "last", "", "")
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.password, "password", "", "")
	fs.StringVar(&c.image, "image", "", "")
}

func (c *RegisterCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	reg := service.Registration{
		FirstName: strings.TrimSpace(c.first),
		LastName:  strings.TrimSpace(c.last),
		Email:     strings.TrimSpace(c.email),
		Password:  c.password,
	}
	if reg.Email == "" || reg.Password == "" {
		return usageError(errOut, "email and password required")
	}

	if c.image != "" {
		data, err := os.ReadFile(c.image)
		if err != nil {
			return usageError(errOut, "cannot read image: %v", err)
		}
		reg.ProfileImage = data
		reg.ProfileImageName = filepath.Base(c.image)
	}

	if err := svc.Register(ctx, reg); err != nil {
		return fail(errOut, err)
	}
	return ok(out, cfg.Quiet)
}

// WhoamiCmd prints the signed-in account.
type WhoamiCmd struct{}

func (c *WhoamiCmd) Name() string      { return "whoami" }
func (c *WhoamiCmd) Aliases() []string { return nil }
func (c *WhoamiCmd) Synopsis() string  { return "Print the signed-in account" }
func (c *WhoamiCmd) Usage() string     { return "taskboard whoami [common flags]" }
func (c *WhoamiCmd) NeedsAuth() bool   { return true }

func (c *WhoamiCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *WhoamiCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	u, err := svc.GetUser(ctx, sess.UserID())
	if err != nil {
		return fail(errOut, err)
	}
	output.FormatUser(out, u)
	return exitcode.Success
}

// ProfileCmd updates the signed-in account.
type ProfileCmd struct {
	first string
	last  string
	email string
	image string
}

func (c *ProfileCmd) Name() string      { return "profile" }
func (c *ProfileCmd) Aliases() []string { return nil }
func (c *ProfileCmd) Synopsis() string  { return "Update your name, email or picture" }
func (c *ProfileCmd) Usage() string {
	return "taskboard profile [common flags] [--first <name>] [--last <name>] [--email <email>] [--image <path>]"
}
func (c *ProfileCmd) NeedsAuth() bool { return true }

func (c *ProfileCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.first, "first", "", "")
	fs.StringVar(&c.last, "last", "", "")
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.image, "image", "", "")
}

func (c *ProfileCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	upd := service.ProfileUpdate{
		FirstName: strings.TrimSpace(c.first),
		LastName:  strings.TrimSpace(c.last),
		Email:     strings.TrimSpace(c.email),
	}
	if c.image != "" {
		data, err := os.ReadFile(c.image)
		if err != nil {
			return usageError(errOut, "cannot read image: %v", err)
		}
		upd.ProfileImage = data
		upd.ProfileImageName = filepath.Base(c.image)
	}
	if upd.FirstName == "" && upd.LastName == "" && upd.Email == "" && len(upd.ProfileImage) == 0 {
		return usageError(errOut, "nothing to update")
	}

	u, err := svc.UpdateUser(ctx, sess.UserID(), upd)
	if err != nil {
		return fail(errOut, err)
	}
	if !cfg.Quiet {
		fmt.Fprint(out, "ok: ")
		output.FormatUser(out, u)
	}
	return exitcode.Success
}
