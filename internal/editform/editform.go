// Package editform tracks the inline edit state of task rows.
package editform

import (
	"sync"

	"tasklist/internal/service"
)

// Mode is the visibility state of a row.
type Mode int

const (
	Viewing Mode = iota
	Editing
)

func (m Mode) String() string {
	if m == Editing {
		return "editing"
	}
	return "viewing"
}

type row struct {
	mode     Mode
	original string
	draft    string
}

// Forms holds one state machine per task row.
// It is safe for concurrent use.
type Forms struct {
	mu   sync.Mutex
	rows map[int]*row
}

// New creates an empty set of forms.
func New() *Forms {
	return &Forms{rows: make(map[int]*row)}
}

// Sync resets every row after a re-render: rows return to viewing with the
// rendered description as their original text, and rows for tasks no longer
// present are dropped.
func (f *Forms) Sync(tasks []service.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rows := make(map[int]*row, len(tasks))
	for _, t := range tasks {
		rows[t.ID] = &row{mode: Viewing, original: t.Description, draft: t.Description}
	}
	f.rows = rows
}

// Start moves row id to editing. The draft begins as the original text.
// Returns false if the row is unknown.
func (f *Forms) Start(id int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.rows[id]
	if !ok {
		return false
	}
	r.mode = Editing
	r.draft = r.original
	return true
}

// SetDraft replaces the text being edited in row id.
func (f *Forms) SetDraft(id int, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r, ok := f.rows[id]; ok && r.mode == Editing {
		r.draft = text
	}
}

// Draft returns the current draft of row id.
func (f *Forms) Draft(id int) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.rows[id]
	if !ok {
		return "", false
	}
	return r.draft, true
}

// Cancel returns row id to viewing and restores the original text.
func (f *Forms) Cancel(id int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r, ok := f.rows[id]; ok {
		r.mode = Viewing
		r.draft = r.original
	}
}

// Saved returns row id to viewing after a successful update.
func (f *Forms) Saved(id int, description string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r, ok := f.rows[id]; ok {
		r.mode = Viewing
		r.original = description
		r.draft = description
	}
}

// Mode reports the state of row id. Unknown rows are viewing.
func (f *Forms) Mode(id int) Mode {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r, ok := f.rows[id]; ok {
		return r.mode
	}
	return Viewing
}

// Editing returns the id of a row being edited, if any.
func (f *Forms) Editing() (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for id, r := range f.rows {
		if r.mode == Editing {
			return id, true
		}
	}
	return 0, false
}
