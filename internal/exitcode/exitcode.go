// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, blank description, cancelled, not found).
	UserError = 1

	// AuthError indicates a rejected session or an unusable configuration.
	AuthError = 2

	// BackendError indicates a server, network or response error.
	BackendError = 3
)
