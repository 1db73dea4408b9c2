package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tasklist/internal/config"
	"tasklist/internal/exitcode"
	"tasklist/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "tasklist help" }
func (c *HelpCmd) NeedsBackend() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Backend, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  tasklist                                       List all tasks
  tasklist list [common flags]                   List all tasks
  tasklist refresh [common flags]                Reload and list all tasks
  tasklist add [common flags] <description...>
  tasklist create [common flags] <description...>
  tasklist edit [common flags] <id> <description...>
  tasklist rm [common flags] [--yes] <id>
  tasklist render [common flags] [--notify]      Print the task list as HTML
  tasklist ui [common flags]                     Interactive terminal UI
  tasklist users [common flags]                  List users (admin)
  tasklist user [common flags] [--html | --edit] <id>
  tasklist rmuser [common flags] [--yes] <id>
  tasklist help
  tasklist version

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
