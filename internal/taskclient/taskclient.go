// Package taskclient keeps the client-side mirror of the server's task list
// and drives every task operation: request, local state update, re-render,
// notification.
//
// The cache is never a source of truth. It is replaced wholesale by every
// successful fetch and patched locally after successful mutations. Only
// overlapping full reloads are prevented; creates, updates and deletes are
// sent as they come and may complete in any order.
package taskclient

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"

	"tasklist/internal/logging"
	"tasklist/internal/notify"
	"tasklist/internal/service"
)

// User-facing messages.
const (
	MsgEmptyDescription = "Please enter a task description!"
	MsgRefreshed        = "Tasks refreshed successfully!"
	MsgLoadFailedPrefix = "Failed to load tasks: "
	MsgLoadError        = "Error loading tasks. Please refresh the page."
	MsgCreateError      = "Error adding task. Please try again."
	MsgUpdateError      = "Error updating task. Please try again."
	MsgDeleteError      = "Error deleting task. Please try again."

	// DeletePrompt is asked before any task is deleted.
	DeletePrompt = "Are you sure you want to delete this task?"
)

var (
	// ErrEmptyDescription is returned when a description is blank after trimming.
	ErrEmptyDescription = errors.New("task description required")

	// ErrBusy is returned when a full reload is already in flight.
	ErrBusy = errors.New("tasks are already loading")

	// ErrCancelled is returned when the user declines a confirmation.
	ErrCancelled = errors.New("cancelled")
)

// View receives re-render requests. Implementations must not call back into
// the Controller synchronously.
type View interface {
	// Render draws the given tasks, replacing whatever was drawn before.
	Render(tasks []service.Task)

	// ClearInput empties the new-task input.
	ClearInput()

	// SetLoading shows or hides the loading indicator.
	SetLoading(loading bool)
}

// ConfirmFunc asks the user a yes/no question.
type ConfirmFunc func(prompt string) bool

// Confirmed is a ConfirmFunc for callers that already asked.
func Confirmed(string) bool { return true }

// State is the client-held state: the task cache and the in-flight flag.
type State struct {
	mu      sync.Mutex
	tasks   []service.Task
	loading atomic.Bool
}

// Controller runs task operations against a service.
type Controller struct {
	svc    service.Service
	notify notify.Notifier
	view   View
	log    *logging.Logger
	state  *State
}

// Option configures a Controller.
type Option func(*Controller)

// WithView attaches the view that is re-rendered after every change.
func WithView(v View) Option {
	return func(c *Controller) { c.view = v }
}

// WithLogger sets the logger for failed requests.
func WithLogger(l *logging.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// New creates a Controller with an empty cache.
func New(svc service.Service, n notify.Notifier, opts ...Option) *Controller {
	c := &Controller{
		svc:    svc,
		notify: n,
		view:   nopView{},
		log:    logging.NopLogger(),
		state:  &State{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.WithComponent("taskclient")
	return c
}

// Tasks returns a copy of the cache.
func (c *Controller) Tasks() []service.Task {
	c.state.mu.Lock()
	defer c.state.mu.Unlock()
	return c.snapshotLocked()
}

// Loading reports whether a full reload is in flight.
func (c *Controller) Loading() bool {
	return c.state.loading.Load()
}

// FetchAll reloads the cache from the server without a success notification.
func (c *Controller) FetchAll(ctx context.Context) error {
	return c.load(ctx, false)
}

// Refresh reloads the cache and confirms success with a notification.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.load(ctx, true)
}

func (c *Controller) load(ctx context.Context, announce bool) error {
	if !c.state.loading.CompareAndSwap(false, true) {
		return ErrBusy
	}
	c.view.SetLoading(true)
	defer func() {
		c.state.loading.Store(false)
		c.view.SetLoading(false)
	}()

	tasks, err := c.svc.ListTasks(ctx)
	if err != nil {
		c.log.Error("error loading tasks", "error", err.Error())
		var apiErr *service.APIError
		if errors.As(err, &apiErr) {
			c.notify.Notify(MsgLoadFailedPrefix+apiErr.Message, notify.Error)
		} else {
			c.notify.Notify(MsgLoadError, notify.Error)
		}
		return err
	}

	c.state.mu.Lock()
	c.state.tasks = append([]service.Task(nil), tasks...)
	snap := c.snapshotLocked()
	c.state.mu.Unlock()

	c.view.Render(snap)
	if announce {
		c.notify.Notify(MsgRefreshed, notify.Success)
	}
	return nil
}

// Create posts a new task and prepends it to the cache on success.
func (c *Controller) Create(ctx context.Context, description string) (service.Task, error) {
	desc, err := c.validate(description)
	if err != nil {
		return service.Task{}, err
	}

	res, err := c.svc.CreateTask(ctx, desc)
	if err != nil {
		c.fail("error adding task", MsgCreateError, err)
		return service.Task{}, err
	}

	c.state.mu.Lock()
	c.state.tasks = append([]service.Task{res.Task}, c.state.tasks...)
	snap := c.snapshotLocked()
	c.state.mu.Unlock()

	c.view.Render(snap)
	c.view.ClearInput()
	c.notify.Notify(res.Message, notify.Success)
	return res.Task, nil
}

// Update changes the description of task id. On success the cache entry
// with the same id is replaced; if none matches the cache is left alone.
func (c *Controller) Update(ctx context.Context, id int, description string) (service.Task, error) {
	desc, err := c.validate(description)
	if err != nil {
		return service.Task{}, err
	}

	res, err := c.svc.UpdateTask(ctx, id, desc)
	if err != nil {
		c.fail("error updating task", MsgUpdateError, err)
		return service.Task{}, err
	}

	c.state.mu.Lock()
	replaced := false
	for i, t := range c.state.tasks {
		if t.ID == id {
			c.state.tasks[i] = res.Task
			replaced = true
			break
		}
	}
	snap := c.snapshotLocked()
	c.state.mu.Unlock()

	if replaced {
		c.view.Render(snap)
	}
	c.notify.Notify(res.Message, notify.Success)
	return res.Task, nil
}

// Remove deletes task id after confirm grants it.
func (c *Controller) Remove(ctx context.Context, id int, confirm ConfirmFunc) error {
	if confirm == nil || !confirm(DeletePrompt) {
		return ErrCancelled
	}

	res, err := c.svc.DeleteTask(ctx, id)
	if err != nil {
		c.fail("error deleting task", MsgDeleteError, err)
		return err
	}

	c.state.mu.Lock()
	kept := c.state.tasks[:0]
	for _, t := range c.state.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	c.state.tasks = kept
	snap := c.snapshotLocked()
	c.state.mu.Unlock()

	c.view.Render(snap)
	c.notify.Notify(res.Message, notify.Success)
	return nil
}

func (c *Controller) validate(description string) (string, error) {
	desc := strings.TrimSpace(description)
	if desc == "" {
		c.notify.Notify(MsgEmptyDescription, notify.Warning)
		return "", ErrEmptyDescription
	}
	return desc, nil
}

// fail logs err and notifies the server's message when it rejected the
// request, or the generic message otherwise.
func (c *Controller) fail(logMsg, generic string, err error) {
	c.log.Error(logMsg, "error", err.Error())
	var apiErr *service.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		c.notify.Notify(apiErr.Message, notify.Error)
		return
	}
	c.notify.Notify(generic, notify.Error)
}

func (c *Controller) snapshotLocked() []service.Task {
	out := make([]service.Task, len(c.state.tasks))
	copy(out, c.state.tasks)
	return out
}

type nopView struct{}

func (nopView) Render([]service.Task) {}
func (nopView) ClearInput()           {}
func (nopView) SetLoading(bool)       {}
