package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/logging"
	"taskboard/internal/service"
	"taskboard/internal/session"
)

// EnvPassword is read when --password is not given.
const EnvPassword = "TASKBOARD_PASSWORD"

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct {
	email    string
	password string
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Sign in and store the session token" }
func (c *LoginCmd) Usage() string {
	return "taskboard login [common flags] --email <email> [--password <password>]"
}
func (c *LoginCmd) NeedsAuth() bool { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.password, "password", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, svc service.Service, args []string, out, errOut io.Writer) int {
	if sess.Authenticated() {
		if !cfg.Quiet {
			fmt.Fprintln(out, "already logged in")
		}
		return exitcode.Success
	}

	email := strings.TrimSpace(c.email)
	password := c.password
	if password == "" {
		password = os.Getenv(EnvPassword)
	}
	if email == "" || password == "" {
		return usageError(errOut, "email and password required")
	}

	token, err := svc.Login(ctx, service.Credentials{Email: email, Password: password})
	if err != nil {
		return fail(errOut, err)
	}

	// The token is decoded before anything is stored.
	if err := sess.Login(token); err != nil {
		logging.Logger.WithError(err).Warn("login returned an unusable token")
		return fail(errOut, err)
	}

	return ok(out, cfg.Quiet)
}
