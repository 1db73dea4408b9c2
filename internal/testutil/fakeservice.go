// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"tasklist/internal/service"
)

// FakeService is an in-memory implementation of service.Service and
// service.PageService for testing.
type FakeService struct {
	mu     sync.RWMutex
	tasks  []service.Task
	nextID int
	pages  map[string]string
	forms  []SubmittedForm
	calls  map[string]int

	// Block, when set, is waited on by ListTasks before answering.
	Block chan struct{}

	// Error injection for testing
	ListTasksErr  error
	CreateTaskErr error
	UpdateTaskErr error
	DeleteTaskErr error
	FetchPageErr  error
	SubmitFormErr error

	// Message is returned with every successful mutation.
	Message string
}

// SubmittedForm records a SubmitForm call.
type SubmittedForm struct {
	Action string
	Fields url.Values
}

// NewFakeService creates an empty FakeService. Ids start at 1.
func NewFakeService() *FakeService {
	return &FakeService{
		nextID: 1,
		pages:  make(map[string]string),
		calls:  make(map[string]int),
	}
}

// AddTask appends a task with an explicit id.
func (f *FakeService) AddTask(id int, description string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, service.Task{ID: id, Description: description})
	if id >= f.nextID {
		f.nextID = id + 1
	}
}

// SetPage registers the HTML served at path.
func (f *FakeService) SetPage(path, html string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages[path] = html
}

// Tasks returns a copy of the server-side tasks.
func (f *FakeService) Tasks() []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

// Forms returns the submitted forms in order.
func (f *FakeService) Forms() []SubmittedForm {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]SubmittedForm, len(f.forms))
	copy(out, f.forms)
	return out
}

// Calls returns how many times the named method was invoked.
func (f *FakeService) Calls(method string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.calls[method]
}

// TotalCalls returns the number of backend calls of any kind.
func (f *FakeService) TotalCalls() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *FakeService) count(method string) {
	f.mu.Lock()
	f.calls[method]++
	f.mu.Unlock()
}

func (f *FakeService) message(def string) string {
	if f.Message != "" {
		return f.Message
	}
	return def
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	f.count("ListTasks")
	if f.Block != nil {
		select {
		case <-f.Block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	return f.Tasks(), nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, description string) (service.Result, error) {
	f.count("CreateTask")
	if f.CreateTaskErr != nil {
		return service.Result{}, f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	task := service.Task{ID: f.nextID, Description: description}
	f.nextID++
	f.tasks = append(f.tasks, task)
	return service.Result{Task: task, Message: f.message("Task created successfully!")}, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id int, description string) (service.Result, error) {
	f.count("UpdateTask")
	if f.UpdateTaskErr != nil {
		return service.Result{}, f.UpdateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks[i].Description = description
			return service.Result{Task: f.tasks[i], Message: f.message("Task updated successfully!")}, nil
		}
	}
	return service.Result{}, &service.APIError{Op: "update task", Message: "Task not found"}
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id int) (service.Result, error) {
	f.count("DeleteTask")
	if f.DeleteTaskErr != nil {
		return service.Result{}, f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return service.Result{Message: f.message("Task deleted successfully!")}, nil
		}
	}
	return service.Result{}, &service.APIError{Op: "delete task", Message: "Task not found"}
}

// FetchPage implements service.PageService.
func (f *FakeService) FetchPage(ctx context.Context, path string) (string, error) {
	f.count("FetchPage")
	if f.FetchPageErr != nil {
		return "", f.FetchPageErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	html, ok := f.pages[strings.TrimSpace(path)]
	if !ok {
		return "", service.ErrNotFound
	}
	return html, nil
}

// SubmitForm implements service.PageService.
func (f *FakeService) SubmitForm(ctx context.Context, action string, fields url.Values) error {
	f.count("SubmitForm")
	if f.SubmitFormErr != nil {
		return f.SubmitFormErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forms = append(f.forms, SubmittedForm{Action: action, Fields: fields})
	return nil
}
