package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tasklist/internal/config"
	"tasklist/internal/exitcode"
	"tasklist/internal/logging"
	"tasklist/internal/notify"
	"tasklist/internal/render"
	"tasklist/internal/service"
	"tasklist/internal/taskclient"
)

func init() {
	Register(&RenderCmd{})
}

// RenderCmd prints the HTML fragment the task page shows for the current
// list. With --notify the refresh notification is rendered above it.
type RenderCmd struct {
	notify bool
}

// SetNotify sets the notify flag (for testing).
func (c *RenderCmd) SetNotify(notify bool) {
	c.notify = notify
}

func (c *RenderCmd) Name() string       { return "render" }
func (c *RenderCmd) Aliases() []string  { return nil }
func (c *RenderCmd) Synopsis() string   { return "Print the task list as HTML" }
func (c *RenderCmd) Usage() string      { return "tasklist render [--notify]" }
func (c *RenderCmd) NeedsBackend() bool { return true }

func (c *RenderCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.notify, "notify", false, "")
}

func (c *RenderCmd) Run(ctx context.Context, cfg *config.Config, svc service.Backend, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	center := notify.NewCenter(cfg.NotifyTTL)
	ctl := taskclient.New(svc, center, taskclient.WithLogger(logging.FromContext(ctx)))

	var err error
	if c.notify {
		err = ctl.Refresh(ctx)
	} else {
		err = ctl.FetchAll(ctx)
	}
	if err != nil {
		for _, n := range center.Active() {
			fmt.Fprintf(errOut, "%s: %s\n", n.Severity, n.Message)
		}
		return exitFor(err)
	}

	if c.notify {
		for _, n := range center.Active() {
			html, err := render.Notification(n)
			if err != nil {
				fmt.Fprintf(errOut, "error: %v\n", err)
				return exitcode.UserError
			}
			fmt.Fprintln(out, html)
		}
	}

	html, err := render.TaskList(ctl.Tasks())
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	fmt.Fprintln(out, html)
	return exitcode.Success
}
