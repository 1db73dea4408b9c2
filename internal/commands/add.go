package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"tasklist/internal/config"
	"tasklist/internal/exitcode"
	"tasklist/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct{}

func (c *AddCmd) Name() string       { return "add" }
func (c *AddCmd) Aliases() []string  { return []string{"create"} }
func (c *AddCmd) Synopsis() string   { return "Create a task" }
func (c *AddCmd) Usage() string      { return "tasklist add <description...>" }
func (c *AddCmd) NeedsBackend() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Backend, args []string, out, errOut io.Writer) int {
	// Blank input is reported by the controller as a warning.
	description := strings.Join(args, " ")

	ctl := newController(ctx, cfg, svc, out, errOut)
	task, err := ctl.Create(ctx, description)
	if err != nil {
		return exitFor(err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "%d\n", task.ID)
	}
	return exitcode.Success
}
