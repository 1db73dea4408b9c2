package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"tasklist/internal/editform"
	"tasklist/internal/taskclient"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(10, msg.Width-6)
		m.editInput.Width = max(10, msg.Width-12)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case renderMsg:
		m.tasks = msg.tasks
		m.forms.Sync(msg.tasks)
		if m.mode == modeEdit {
			if _, editing := m.forms.Editing(); !editing {
				m.mode = modeList
				m.editInput.Blur()
			}
		}
		m.clampCursor()
		return m, nil

	case clearInputMsg:
		m.input.Reset()
		return m, nil

	case loadingMsg:
		m.loading = msg.loading
		return m, nil

	case noteAddedMsg:
		return m, expireAfter(m.center.TTL(), msg.note.ID)

	case noteExpiredMsg:
		m.center.Expire(msg.id)
		return m, nil

	case opDoneMsg:
		return m.handleOpDone(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m appModel) handleOpDone(msg opDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if !errors.Is(msg.err, taskclient.ErrBusy) {
			m.log.Debug("operation failed", "op", int(msg.op), "error", msg.err.Error())
		}
		return m, nil
	}
	if msg.op == opUpdate {
		m.forms.Saved(msg.id, strings.TrimSpace(msg.text))
		if m.mode == modeEdit {
			m.mode = modeList
			m.editInput.Blur()
		}
	}
	return m, nil
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	switch m.mode {
	case modeAdd:
		return m.updateAdd(msg)
	case modeEdit:
		return m.updateEdit(msg)
	case modeConfirm:
		return m.updateConfirm(msg)
	default:
		return m.updateList(msg)
	}
}

func (m appModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case "a", "n":
		m.mode = modeAdd
		cmd := m.input.Focus()
		return m, cmd
	case "e", "enter":
		task, ok := m.selected()
		if !ok || !m.forms.Start(task.ID) {
			return m, nil
		}
		m.mode = modeEdit
		m.editInput.SetValue(task.Description)
		m.editInput.CursorEnd()
		cmd := m.editInput.Focus()
		return m, cmd
	case "d", "delete":
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.mode = modeConfirm
		m.confirmID = task.ID
		m.confirmFocus = confirmFocusCancel
	case "r":
		return m, m.run(opRefresh, 0, "")
	case "v":
		if m.layout == layoutList {
			m.layout = layoutGrid
		} else {
			m.layout = layoutList
		}
		m.log.Info("view switched", "layout", m.layout.String())
	case "x":
		if active := m.center.Active(); len(active) > 0 {
			m.center.Dismiss(active[len(active)-1].ID)
		}
	}
	return m, nil
}

func (m appModel) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeList
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		// The input is cleared by the controller once the task exists.
		return m, m.run(opCreate, 0, m.input.Value())
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m appModel) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id, editing := m.forms.Editing()
	if !editing {
		m.mode = modeList
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEsc:
		m.forms.Cancel(id)
		m.mode = modeList
		m.editInput.Blur()
		return m, nil
	case tea.KeyEnter:
		return m, m.run(opUpdate, id, m.editInput.Value())
	}
	var cmd tea.Cmd
	m.editInput, cmd = m.editInput.Update(msg)
	m.forms.SetDraft(id, m.editInput.Value())
	return m, cmd
}

func (m appModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "left", "right", "h", "l":
		if m.confirmFocus == confirmFocusConfirm {
			m.confirmFocus = confirmFocusCancel
		} else {
			m.confirmFocus = confirmFocusConfirm
		}
	case "y":
		return m.confirmDelete()
	case "n", "esc", "ctrl+g":
		m.mode = modeList
	case "enter":
		if m.confirmFocus == confirmFocusConfirm {
			return m.confirmDelete()
		}
		m.mode = modeList
	}
	return m, nil
}

func (m appModel) confirmDelete() (tea.Model, tea.Cmd) {
	m.mode = modeList
	return m, m.run(opDelete, m.confirmID, "")
}

func (m *appModel) clampCursor() {
	if m.cursor >= len(m.tasks) {
		m.cursor = len(m.tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// editingID returns the row being edited, if any.
func (m appModel) editingID() (int, bool) {
	if m.mode != modeEdit {
		return 0, false
	}
	id, ok := m.forms.Editing()
	if !ok || m.forms.Mode(id) != editform.Editing {
		return 0, false
	}
	return id, true
}
