package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"tasklist/internal/notify"
	"tasklist/internal/service"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
	modeConfirm
)

type layout int

const (
	layoutList layout = iota
	layoutGrid
)

func (l layout) String() string {
	if l == layoutGrid {
		return "grid"
	}
	return "list"
}

type op int

const (
	opFetch op = iota
	opRefresh
	opCreate
	opUpdate
	opDelete
)

// renderMsg carries the cache after a change.
type renderMsg struct{ tasks []service.Task }

type clearInputMsg struct{}

type loadingMsg struct{ loading bool }

// opDoneMsg reports a finished controller call.
type opDoneMsg struct {
	op   op
	id   int
	text string
	err  error
}

// noteAddedMsg announces a notification so its expiry can be scheduled.
type noteAddedMsg struct{ note notify.Notification }

// noteExpiredMsg fires after a notification's TTL.
type noteExpiredMsg struct{ id string }

type confirmFocus int

const (
	confirmFocusConfirm confirmFocus = iota
	confirmFocusCancel
)

// sink forwards view updates from command goroutines into the program.
type sink struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

func (s *sink) set(send func(tea.Msg)) {
	s.mu.Lock()
	s.send = send
	s.mu.Unlock()
}

func (s *sink) post(msg tea.Msg) {
	s.mu.Lock()
	send := s.send
	s.mu.Unlock()
	if send != nil {
		send(msg)
	}
}

// programView implements taskclient.View by posting messages.
type programView struct{ s *sink }

func (v programView) Render(tasks []service.Task) { v.s.post(renderMsg{tasks: tasks}) }
func (v programView) ClearInput()                 { v.s.post(clearInputMsg{}) }
func (v programView) SetLoading(loading bool)     { v.s.post(loadingMsg{loading: loading}) }

// programNotifier records into the center and announces each notification.
type programNotifier struct {
	center *notify.Center
	s      *sink
}

func (n programNotifier) Notify(msg string, sev notify.Severity) notify.Notification {
	note := n.center.Notify(msg, sev)
	n.s.post(noteAddedMsg{note: note})
	return note
}
