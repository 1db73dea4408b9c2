package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tasklist/internal/config"
	"tasklist/internal/exitcode"
	"tasklist/internal/output"
	"tasklist/internal/service"
)

func init() {
	Register(&ListCmd{})
	Register(&RefreshCmd{})
}

// ListCmd implements the list command.
// Handles both `tasklist` (no args) and `tasklist list`.
type ListCmd struct{}

func (c *ListCmd) Name() string       { return "list" }
func (c *ListCmd) Aliases() []string  { return []string{"ls"} }
func (c *ListCmd) Synopsis() string   { return "List tasks" }
func (c *ListCmd) Usage() string      { return "tasklist list" }
func (c *ListCmd) NeedsBackend() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Backend, args []string, out, errOut io.Writer) int {
	return runList(ctx, cfg, svc, false, args, out, errOut)
}

// RefreshCmd reloads the list and confirms it with a notification.
type RefreshCmd struct{}

func (c *RefreshCmd) Name() string       { return "refresh" }
func (c *RefreshCmd) Aliases() []string  { return nil }
func (c *RefreshCmd) Synopsis() string   { return "Reload and list tasks" }
func (c *RefreshCmd) Usage() string      { return "tasklist refresh" }
func (c *RefreshCmd) NeedsBackend() bool { return true }

func (c *RefreshCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RefreshCmd) Run(ctx context.Context, cfg *config.Config, svc service.Backend, args []string, out, errOut io.Writer) int {
	return runList(ctx, cfg, svc, true, args, out, errOut)
}

func runList(ctx context.Context, cfg *config.Config, svc service.Backend, announce bool, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	ctl := newController(ctx, cfg, svc, out, errOut)
	var err error
	if announce {
		err = ctl.Refresh(ctx)
	} else {
		err = ctl.FetchAll(ctx)
	}
	if err != nil {
		return exitFor(err)
	}

	tasks := ctl.Tasks()
	if len(tasks) == 0 && cfg.Quiet {
		return exitcode.Success
	}
	output.FormatTasks(out, tasks)
	return exitcode.Success
}
