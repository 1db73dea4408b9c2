package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"tasklist/internal/admin"
	"tasklist/internal/config"
	"tasklist/internal/exitcode"
	"tasklist/internal/output"
	"tasklist/internal/service"
	"tasklist/internal/taskclient"
)

func init() {
	Register(&UsersCmd{})
	Register(&UserCmd{})
	Register(&RmUserCmd{})
}

func loadDashboard(ctx context.Context, cfg *config.Config, svc service.PageService, errOut io.Writer) (*admin.Dashboard, int) {
	dash, err := admin.Load(ctx, svc, cfg.AdminPath)
	if err != nil {
		return nil, reportError(errOut, err)
	}
	return dash, exitcode.Success
}

// UsersCmd lists the user cards of the admin dashboard.
type UsersCmd struct{}

func (c *UsersCmd) Name() string       { return "users" }
func (c *UsersCmd) Aliases() []string  { return nil }
func (c *UsersCmd) Synopsis() string   { return "List users (admin)" }
func (c *UsersCmd) Usage() string      { return "tasklist users" }
func (c *UsersCmd) NeedsBackend() bool { return true }

func (c *UsersCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UsersCmd) Run(ctx context.Context, cfg *config.Config, svc service.Backend, args []string, out, errOut io.Writer) int {
	dash, code := loadDashboard(ctx, cfg, svc, errOut)
	if dash == nil {
		return code
	}

	if len(dash.Users) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no users found")
		}
		return exitcode.Success
	}
	if !cfg.Quiet {
		output.FormatHeader(out, "Users")
	}
	for _, u := range dash.Users {
		output.FormatUser(out, u.ID, u.Email, u.Role)
	}
	return exitcode.Success
}

// UserCmd prints one user's details the way the detail modal shows them.
type UserCmd struct {
	html bool
	edit bool
}

// SetHTML sets the html flag (for testing).
func (c *UserCmd) SetHTML(html bool) {
	c.html = html
}

// SetEdit sets the edit flag (for testing).
func (c *UserCmd) SetEdit(edit bool) {
	c.edit = edit
}

func (c *UserCmd) Name() string       { return "user" }
func (c *UserCmd) Aliases() []string  { return nil }
func (c *UserCmd) Synopsis() string   { return "Show a user (admin)" }
func (c *UserCmd) Usage() string      { return "tasklist user [--html | --edit] <id>" }
func (c *UserCmd) NeedsBackend() bool { return true }

func (c *UserCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.html, "html", false, "")
	fs.BoolVar(&c.edit, "edit", false, "")
}

func (c *UserCmd) Run(ctx context.Context, cfg *config.Config, svc service.Backend, args []string, out, errOut io.Writer) int {
	if c.html && c.edit {
		fmt.Fprintln(errOut, "error: cannot use both --html and --edit")
		return exitcode.UserError
	}
	id, err := ParseID(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	dash, code := loadDashboard(ctx, cfg, svc, errOut)
	if dash == nil {
		return code
	}

	modal := admin.NewModal(dash)
	switch {
	case c.edit:
		if err := modal.ToggleEdit(id); err != nil {
			return userError(errOut, err)
		}
		fmt.Fprintln(out, modal.EditHTML())
	case c.html:
		if err := modal.ShowUserDetails(id); err != nil {
			return userError(errOut, err)
		}
		fmt.Fprintln(out, modal.DetailHTML())
	default:
		u, ok := dash.User(id)
		if !ok {
			return userError(errOut, fmt.Errorf("user %d: %w", id, admin.ErrUnknownUser))
		}
		output.FormatUser(out, u.ID, u.Email, u.Role)
	}
	return exitcode.Success
}

func userError(errOut io.Writer, err error) int {
	if errors.Is(err, admin.ErrUnknownUser) {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return reportError(errOut, err)
}

// RmUserCmd submits a user's delete form.
type RmUserCmd struct {
	yes bool
	in  io.Reader
}

// SetYes sets the yes flag (for testing).
func (c *RmUserCmd) SetYes(yes bool) {
	c.yes = yes
}

// SetInput sets where the confirmation answer is read from (for testing).
func (c *RmUserCmd) SetInput(in io.Reader) {
	c.in = in
}

func (c *RmUserCmd) Name() string       { return "rmuser" }
func (c *RmUserCmd) Aliases() []string  { return nil }
func (c *RmUserCmd) Synopsis() string   { return "Delete a user (admin)" }
func (c *RmUserCmd) Usage() string      { return "tasklist rmuser [--yes] <id>" }
func (c *RmUserCmd) NeedsBackend() bool { return true }

func (c *RmUserCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.yes, "yes", false, "")
	fs.BoolVar(&c.yes, "y", false, "")
}

func (c *RmUserCmd) Run(ctx context.Context, cfg *config.Config, svc service.Backend, args []string, out, errOut io.Writer) int {
	id, err := ParseID(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	dash, code := loadDashboard(ctx, cfg, svc, errOut)
	if dash == nil {
		return code
	}

	in := c.in
	if in == nil {
		in = os.Stdin
	}
	err = admin.DeleteUser(ctx, dash, id, promptConfirm(in, errOut, c.yes), svc)
	switch {
	case err == nil:
		if !cfg.Quiet {
			fmt.Fprintln(out, "ok")
		}
		return exitcode.Success
	case errors.Is(err, taskclient.ErrCancelled):
		fmt.Fprintln(errOut, "cancelled")
		return exitcode.UserError
	default:
		return userError(errOut, err)
	}
}
