package taskclient_test

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"tasklist/internal/notify"
	"tasklist/internal/service"
	"tasklist/internal/taskclient"
	"tasklist/internal/testutil"
)

// recordingView counts re-renders and remembers the last rendered list.
type recordingView struct {
	mu       sync.Mutex
	renders  int
	last     []service.Task
	cleared  int
	loadings []bool
}

func (v *recordingView) Render(tasks []service.Task) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.renders++
	v.last = tasks
}

func (v *recordingView) ClearInput() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cleared++
}

func (v *recordingView) SetLoading(loading bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.loadings = append(v.loadings, loading)
}

type fixture struct {
	svc    *testutil.FakeService
	center *notify.Center
	view   *recordingView
	ctl    *taskclient.Controller
}

func newFixture(t *testing.T, seed ...service.Task) *fixture {
	t.Helper()
	svc := testutil.NewFakeService()
	for _, task := range seed {
		svc.AddTask(task.ID, task.Description)
	}
	center := notify.NewCenter(time.Minute)
	view := &recordingView{}
	ctl := taskclient.New(svc, center, taskclient.WithView(view))
	if len(seed) > 0 {
		if err := ctl.FetchAll(context.Background()); err != nil {
			t.Fatalf("initial fetch failed: %v", err)
		}
	}
	return &fixture{svc: svc, center: center, view: view, ctl: ctl}
}

func (f *fixture) lastNotification(t *testing.T) notify.Notification {
	t.Helper()
	active := f.center.Active()
	if len(active) == 0 {
		t.Fatal("expected a notification")
	}
	return active[len(active)-1]
}

func TestFetchAll_ReplacesCacheSilently(t *testing.T) {
	f := newFixture(t, service.Task{ID: 1, Description: "A"}, service.Task{ID: 2, Description: "B"})

	want := []service.Task{{ID: 1, Description: "A"}, {ID: 2, Description: "B"}}
	if got := f.ctl.Tasks(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if f.view.renders != 1 {
		t.Errorf("expected 1 render, got %d", f.view.renders)
	}
	if f.center.Len() != 0 {
		t.Errorf("silent fetch must not notify, got %v", f.center.Active())
	}
	if !reflect.DeepEqual(f.view.loadings, []bool{true, false}) {
		t.Errorf("expected loading shown then hidden, got %v", f.view.loadings)
	}
}

func TestRefresh_Notifies(t *testing.T) {
	f := newFixture(t)
	if err := f.ctl.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n := f.lastNotification(t)
	if n.Message != taskclient.MsgRefreshed || n.Severity != notify.Success {
		t.Errorf("unexpected notification %+v", n)
	}
}

func TestFetchAll_FailureKeepsState(t *testing.T) {
	f := newFixture(t, service.Task{ID: 1, Description: "A"})
	f.svc.ListTasksErr = errors.New("connection refused")

	if err := f.ctl.FetchAll(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if got := f.ctl.Tasks(); len(got) != 1 || got[0].Description != "A" {
		t.Errorf("prior state must be untouched, got %v", got)
	}
	n := f.lastNotification(t)
	if n.Message != taskclient.MsgLoadError || n.Severity != notify.Error {
		t.Errorf("unexpected notification %+v", n)
	}
	if f.ctl.Loading() {
		t.Error("loading flag must be cleared after failure")
	}
}

func TestFetchAll_ServerRejection(t *testing.T) {
	f := newFixture(t)
	f.svc.ListTasksErr = &service.APIError{Op: "list tasks", Message: "database offline"}

	f.ctl.FetchAll(context.Background())

	n := f.lastNotification(t)
	if n.Message != "Failed to load tasks: database offline" {
		t.Errorf("unexpected message %q", n.Message)
	}
}

func TestFetchAll_InFlightGuard(t *testing.T) {
	f := newFixture(t)
	f.svc.Block = make(chan struct{})

	done := make(chan error, 1)
	go func() { done <- f.ctl.FetchAll(context.Background()) }()

	deadline := time.Now().Add(2 * time.Second)
	for f.svc.Calls("ListTasks") == 0 {
		if time.Now().After(deadline) {
			t.Fatal("first fetch never reached the service")
		}
		time.Sleep(time.Millisecond)
	}

	if err := f.ctl.FetchAll(context.Background()); !errors.Is(err, taskclient.ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}
	if got := f.svc.Calls("ListTasks"); got != 1 {
		t.Errorf("overlapping fetch must not issue a request, got %d calls", got)
	}

	close(f.svc.Block)
	if err := <-done; err != nil {
		t.Fatalf("first fetch failed: %v", err)
	}
	if f.ctl.Loading() {
		t.Error("loading flag must be cleared")
	}
}

func TestCreate_EmptyDescriptionNeverRequests(t *testing.T) {
	for _, desc := range []string{"", "   ", "\t\n"} {
		f := newFixture(t)

		_, err := f.ctl.Create(context.Background(), desc)
		if !errors.Is(err, taskclient.ErrEmptyDescription) {
			t.Errorf("expected ErrEmptyDescription for %q, got %v", desc, err)
		}
		if f.svc.TotalCalls() != 0 {
			t.Errorf("expected no request for %q", desc)
		}
		n := f.lastNotification(t)
		if n.Severity != notify.Warning || n.Message != taskclient.MsgEmptyDescription {
			t.Errorf("expected warning, got %+v", n)
		}
	}
}

func TestCreate_PrependsServerTask(t *testing.T) {
	f := newFixture(t, service.Task{ID: 1, Description: "A"})

	task, err := f.ctl.Create(context.Background(), "  B  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.ID != 2 || task.Description != "B" {
		t.Errorf("expected server-assigned task with trimmed text, got %+v", task)
	}

	want := []service.Task{{ID: 2, Description: "B"}, {ID: 1, Description: "A"}}
	if got := f.ctl.Tasks(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if !reflect.DeepEqual(f.view.last, want) {
		t.Errorf("expected re-render with %v, got %v", want, f.view.last)
	}
	if f.view.cleared != 1 {
		t.Errorf("expected input cleared once, got %d", f.view.cleared)
	}
	n := f.lastNotification(t)
	if n.Severity != notify.Success || n.Message != "Task created successfully!" {
		t.Errorf("unexpected notification %+v", n)
	}
}

func TestCreate_FailureLeavesCache(t *testing.T) {
	f := newFixture(t, service.Task{ID: 1, Description: "A"})
	f.svc.CreateTaskErr = errors.New("timeout")
	renders := f.view.renders

	if _, err := f.ctl.Create(context.Background(), "B"); err == nil {
		t.Fatal("expected error")
	}
	if got := f.ctl.Tasks(); len(got) != 1 {
		t.Errorf("cache must not change, got %v", got)
	}
	if f.view.renders != renders || f.view.cleared != 0 {
		t.Error("failure must not re-render or clear input")
	}
	if n := f.lastNotification(t); n.Message != taskclient.MsgCreateError {
		t.Errorf("unexpected message %q", n.Message)
	}
}

func TestCreate_ServerRejectionMessage(t *testing.T) {
	f := newFixture(t)
	f.svc.CreateTaskErr = &service.APIError{Op: "create task", Message: "Too many tasks"}

	f.ctl.Create(context.Background(), "B")

	if n := f.lastNotification(t); n.Message != "Too many tasks" || n.Severity != notify.Error {
		t.Errorf("unexpected notification %+v", n)
	}
}

func TestUpdate_ReplacesOnlyMatchingID(t *testing.T) {
	f := newFixture(t,
		service.Task{ID: 1, Description: "A"},
		service.Task{ID: 2, Description: "C"},
	)

	if _, err := f.ctl.Update(context.Background(), 1, "B"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []service.Task{{ID: 1, Description: "B"}, {ID: 2, Description: "C"}}
	if got := f.ctl.Tasks(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestUpdate_Example(t *testing.T) {
	f := newFixture(t, service.Task{ID: 1, Description: "A"})

	f.ctl.Update(context.Background(), 1, "B")

	want := []service.Task{{ID: 1, Description: "B"}}
	if got := f.ctl.Tasks(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestUpdate_NoMatchLeavesCache(t *testing.T) {
	f := newFixture(t, service.Task{ID: 1, Description: "A"})
	// Present on the server but not in the client cache.
	f.svc.AddTask(9, "hidden")
	renders := f.view.renders

	if _, err := f.ctl.Update(context.Background(), 9, "changed"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []service.Task{{ID: 1, Description: "A"}}
	if got := f.ctl.Tasks(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if f.view.renders != renders {
		t.Error("unmatched update must not re-render")
	}
}

func TestUpdate_EmptyDescriptionNeverRequests(t *testing.T) {
	f := newFixture(t, service.Task{ID: 1, Description: "A"})
	calls := f.svc.TotalCalls()

	if _, err := f.ctl.Update(context.Background(), 1, "  "); !errors.Is(err, taskclient.ErrEmptyDescription) {
		t.Errorf("expected ErrEmptyDescription, got %v", err)
	}
	if f.svc.TotalCalls() != calls {
		t.Error("expected no request")
	}
}

func TestRemove_RemovesExactlyMatchingID(t *testing.T) {
	f := newFixture(t,
		service.Task{ID: 1, Description: "A"},
		service.Task{ID: 2, Description: "B"},
		service.Task{ID: 3, Description: "C"},
	)

	var asked string
	confirm := func(prompt string) bool { asked = prompt; return true }
	if err := f.ctl.Remove(context.Background(), 2, confirm); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if asked != taskclient.DeletePrompt {
		t.Errorf("expected confirmation prompt, got %q", asked)
	}

	want := []service.Task{{ID: 1, Description: "A"}, {ID: 3, Description: "C"}}
	if got := f.ctl.Tasks(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if !reflect.DeepEqual(f.view.last, want) {
		t.Errorf("expected re-render with %v, got %v", want, f.view.last)
	}
}

func TestRemove_DeclinedNeverRequests(t *testing.T) {
	f := newFixture(t, service.Task{ID: 1, Description: "A"})

	err := f.ctl.Remove(context.Background(), 1, func(string) bool { return false })
	if !errors.Is(err, taskclient.ErrCancelled) {
		t.Errorf("expected ErrCancelled, got %v", err)
	}
	if f.svc.Calls("DeleteTask") != 0 {
		t.Error("declined delete must not issue a request")
	}
	if len(f.ctl.Tasks()) != 1 {
		t.Error("declined delete must not change the cache")
	}
}

func TestRemove_FailureNotifies(t *testing.T) {
	f := newFixture(t, service.Task{ID: 1, Description: "A"})
	f.svc.DeleteTaskErr = errors.New("boom")

	if err := f.ctl.Remove(context.Background(), 1, taskclient.Confirmed); err == nil {
		t.Fatal("expected error")
	}
	if len(f.ctl.Tasks()) != 1 {
		t.Error("failed delete must not change the cache")
	}
	if n := f.lastNotification(t); n.Message != taskclient.MsgDeleteError {
		t.Errorf("unexpected message %q", n.Message)
	}
}
