package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"tasklist/internal/config"
	"tasklist/internal/exitcode"
	"tasklist/internal/service"
	"tasklist/internal/taskclient"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct {
	yes bool
	in  io.Reader
}

// SetYes sets the yes flag (for testing).
func (c *RmCmd) SetYes(yes bool) {
	c.yes = yes
}

// SetInput sets where the confirmation answer is read from (for testing).
func (c *RmCmd) SetInput(in io.Reader) {
	c.in = in
}

func (c *RmCmd) Name() string       { return "rm" }
func (c *RmCmd) Aliases() []string  { return []string{"delete"} }
func (c *RmCmd) Synopsis() string   { return "Delete a task" }
func (c *RmCmd) Usage() string      { return "tasklist rm [--yes] <id>" }
func (c *RmCmd) NeedsBackend() bool { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.yes, "yes", false, "")
	fs.BoolVar(&c.yes, "y", false, "")
}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Backend, args []string, out, errOut io.Writer) int {
	id, err := ParseID(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	in := c.in
	if in == nil {
		in = os.Stdin
	}

	ctl := newController(ctx, cfg, svc, out, errOut)
	err = ctl.Remove(ctx, id, promptConfirm(in, errOut, c.yes))
	if errors.Is(err, taskclient.ErrCancelled) {
		fmt.Fprintln(errOut, "cancelled")
	}
	return exitFor(err)
}
