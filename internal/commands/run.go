package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"tasklist/internal/config"
	"tasklist/internal/exitcode"
	"tasklist/internal/logging"
	"tasklist/internal/output"
	"tasklist/internal/service"
	"tasklist/internal/taskclient"
)

// newController wires a task controller that reports through the terminal.
func newController(ctx context.Context, cfg *config.Config, svc service.Service, out, errOut io.Writer) *taskclient.Controller {
	return taskclient.New(svc,
		output.NewNotifier(out, errOut, cfg.Quiet),
		taskclient.WithLogger(logging.FromContext(ctx)),
	)
}

// exitFor maps an operation error to an exit code. The controller has
// already notified the user.
func exitFor(err error) int {
	switch {
	case err == nil:
		return exitcode.Success
	case errors.Is(err, taskclient.ErrEmptyDescription),
		errors.Is(err, taskclient.ErrCancelled),
		errors.Is(err, service.ErrNotFound):
		return exitcode.UserError
	case errors.Is(err, service.ErrUnauthorized):
		return exitcode.AuthError
	default:
		return exitcode.BackendError
	}
}

// reportError prints err for operations that do not notify, and maps it
// to an exit code.
func reportError(errOut io.Writer, err error) int {
	code := exitFor(err)
	switch code {
	case exitcode.UserError:
		fmt.Fprintf(errOut, "error: %v\n", err)
	case exitcode.AuthError:
		fmt.Fprintf(errOut, "error: auth error: %v\n", err)
	default:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
	}
	return code
}
