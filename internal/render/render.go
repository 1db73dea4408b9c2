// Package render turns client state into HTML fragments.
//
// Every function is pure: the same input always yields the same markup.
// Text is escaped by html/template, so task descriptions and messages are
// always emitted as literal text.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"tasklist/internal/notify"
	"tasklist/internal/service"
)

//go:embed templates/*.html
var templatesFS embed.FS

var tmpl = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// Row is the view model for one task row.
type Row struct {
	ID          int
	Description string
	EditFormID  string
	EditInputID string
}

// Rows converts tasks to row view models, preserving order.
func Rows(tasks []service.Task) []Row {
	rows := make([]Row, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, Row{
			ID:          t.ID,
			Description: t.Description,
			EditFormID:  fmt.Sprintf("edit-form-%d", t.ID),
			EditInputID: fmt.Sprintf("edit-input-%d", t.ID),
		})
	}
	return rows
}

// TaskList renders the task list fragment. An empty list renders the
// empty-state placeholder and no rows.
func TaskList(tasks []service.Task) (string, error) {
	if len(tasks) == 0 {
		return execute("empty_state", nil)
	}
	return execute("task_list", Rows(tasks))
}

type notificationView struct {
	ID       string
	Message  string
	Severity string
}

// Notification renders a dismissible banner.
func Notification(n notify.Notification) (string, error) {
	return execute("notification", notificationView{
		ID:       n.ID,
		Message:  n.Message,
		Severity: n.Severity.String(),
	})
}

// UserCard is the subset of an admin user card shown in the detail modal.
type UserCard struct {
	ID    int
	Email string
	Role  string
}

type userDetailsView struct {
	ID        int
	Email     string
	RoleClass string
	RoleLabel string
}

// UserDetails renders the admin user-detail modal body.
func UserDetails(u UserCard) (string, error) {
	role := strings.ToLower(strings.TrimSpace(u.Role))
	return execute("user_details", userDetailsView{
		ID:        u.ID,
		Email:     u.Email,
		RoleClass: role,
		RoleLabel: strings.ToUpper(role),
	})
}

func execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
