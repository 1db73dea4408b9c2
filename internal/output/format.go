// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"tasklist/internal/notify"
	"tasklist/internal/service"
)

const (
	// ListSeparator is the separator line for sections.
	ListSeparator = "------------"

	// EmptyList is printed when there are no tasks.
	EmptyList = "No tasks yet!"
)

// FormatTask formats a task line.
// Format: "{ID:>4}  {DESCRIPTION}\n" (4-wide right-aligned id, two spaces, description)
func FormatTask(w io.Writer, task service.Task) {
	fmt.Fprintf(w, "%4d  %s\n", task.ID, normalizeText(task.Description))
}

// FormatTasks prints every task, or EmptyList when there are none.
func FormatTasks(w io.Writer, tasks []service.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, EmptyList)
		return
	}
	for _, t := range tasks {
		FormatTask(w, t)
	}
}

// FormatUser formats a user card line.
// Format: "{ID:>4}  {EMAIL}  [{ROLE}]\n"
func FormatUser(w io.Writer, id int, email, role string) {
	fmt.Fprintf(w, "%4d  %s  [%s]\n", id, normalizeText(email), strings.ToUpper(strings.TrimSpace(role)))
}

// FormatHeader formats a section header.
func FormatHeader(w io.Writer, title string) {
	fmt.Fprintln(w, ListSeparator)
	fmt.Fprintln(w, normalizeText(title))
	fmt.Fprintln(w, ListSeparator)
}

// normalizeText normalizes text for single-line display.
// - Empty or whitespace-only text becomes "(untitled)"
// - Newlines are replaced with spaces
func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")

	if strings.TrimSpace(s) == "" {
		return "(untitled)"
	}
	return s
}

// Notifier prints notifications as "<severity>: <message>".
// Success and info go to Out unless Quiet; warnings and errors go to Err.
type Notifier struct {
	mu    sync.Mutex
	out   io.Writer
	err   io.Writer
	quiet bool
}

// NewNotifier creates a Notifier.
func NewNotifier(out, errOut io.Writer, quiet bool) *Notifier {
	return &Notifier{out: out, err: errOut, quiet: quiet}
}

// Notify implements notify.Notifier. Printed notifications are never
// dismissed or expired, so the returned value has no ID.
func (n *Notifier) Notify(msg string, sev notify.Severity) notify.Notification {
	note := notify.Notification{Message: msg, Severity: sev}

	n.mu.Lock()
	defer n.mu.Unlock()
	switch sev {
	case notify.Warning, notify.Error:
		fmt.Fprintf(n.err, "%s: %s\n", sev, msg)
	default:
		if !n.quiet {
			fmt.Fprintf(n.out, "%s: %s\n", sev, msg)
		}
	}
	return note
}
