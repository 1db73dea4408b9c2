package admin

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"tasklist/internal/render"
	"tasklist/internal/service"
	"tasklist/internal/taskclient"
)

// DeletePrompt is asked before a user is deleted.
const DeletePrompt = "Are you sure you want to delete this user? This action cannot be undone."

// Target identifies what a click landed on.
type Target int

const (
	// TargetNone is anything other than a modal backdrop.
	TargetNone Target = iota

	// TargetDetail is the user-detail modal backdrop.
	TargetDetail

	// TargetEdit is the edit modal backdrop.
	TargetEdit
)

// Modal is the visibility state of the user-detail modal and the nested
// edit modal. Content always comes from the parsed dashboard; nothing is
// fetched.
type Modal struct {
	mu     sync.Mutex
	dash   *Dashboard
	detail string
	edit   string
	userID int

	detailOpen bool
	editOpen   bool
}

// NewModal creates closed modals over dash.
func NewModal(dash *Dashboard) *Modal {
	return &Modal{dash: dash}
}

// ShowUserDetails fills the detail modal from the user's card and opens it.
func (m *Modal) ShowUserDetails(id int) error {
	u, ok := m.dash.User(id)
	if !ok {
		return fmt.Errorf("user %d: %w", id, ErrUnknownUser)
	}
	body, err := render.UserDetails(render.UserCard{ID: u.ID, Email: u.Email, Role: u.Role})
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.detail = body
	m.userID = id
	m.detailOpen = true
	return nil
}

// CloseDetail hides the detail modal.
func (m *Modal) CloseDetail() {
	m.mu.Lock()
	m.detailOpen = false
	m.mu.Unlock()
}

// ToggleEdit closes the detail modal and opens the edit modal with a copy
// of the user's edit form.
func (m *Modal) ToggleEdit(id int) error {
	u, ok := m.dash.User(id)
	if !ok {
		return fmt.Errorf("user %d: %w", id, ErrUnknownUser)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.detailOpen = false
	m.edit = u.EditForm
	m.userID = id
	m.editOpen = true
	return nil
}

// CloseEdit hides the edit modal.
func (m *Modal) CloseEdit() {
	m.mu.Lock()
	m.editOpen = false
	m.mu.Unlock()
}

// ClickOutside closes the modal whose backdrop was clicked.
func (m *Modal) ClickOutside(t Target) {
	switch t {
	case TargetDetail:
		m.CloseDetail()
	case TargetEdit:
		m.CloseEdit()
	}
}

// DetailOpen reports whether the detail modal is visible.
func (m *Modal) DetailOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.detailOpen
}

// EditOpen reports whether the edit modal is visible.
func (m *Modal) EditOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.editOpen
}

// DetailHTML returns the detail modal body last rendered.
func (m *Modal) DetailHTML() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.detail
}

// EditHTML returns the edit form markup last copied in.
func (m *Modal) EditHTML() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.edit
}

// UserID returns the user the modals were last opened for.
func (m *Modal) UserID() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.userID
}

// DeleteUser submits the user's delete form once confirm grants it.
func DeleteUser(ctx context.Context, dash *Dashboard, id int, confirm taskclient.ConfirmFunc, pages service.PageService) error {
	u, ok := dash.User(id)
	if !ok {
		return fmt.Errorf("user %d: %w", id, ErrUnknownUser)
	}
	if u.DeleteAction == "" {
		return fmt.Errorf("user %d: no delete form", id)
	}
	if confirm == nil || !confirm(DeletePrompt) {
		return taskclient.ErrCancelled
	}

	fields := url.Values{}
	for k, v := range u.DeleteFields {
		fields.Set(k, v)
	}
	if err := pages.SubmitForm(ctx, u.DeleteAction, fields); err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return nil
}
