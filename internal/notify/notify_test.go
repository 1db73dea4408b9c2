package notify_test

import (
	"testing"
	"time"

	"tasklist/internal/notify"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func TestCenter_NotifyAppendsInOrder(t *testing.T) {
	c := notify.NewCenter(0)
	a := c.Notify("first", notify.Info)
	b := c.Notify("second", notify.Error)

	active := c.Active()
	if len(active) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(active))
	}
	if active[0].ID != a.ID || active[1].ID != b.ID {
		t.Errorf("expected push order, got %v", active)
	}
	if a.ID == b.ID {
		t.Error("expected unique ids")
	}
	if c.TTL() != notify.DefaultTTL {
		t.Errorf("expected default ttl, got %s", c.TTL())
	}
}

func TestCenter_ExpiresAfterTTL(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	c := notify.NewCenter(5 * time.Second)
	c.SetClock(clock.now)

	c.Notify("saved", notify.Success)
	clock.t = clock.t.Add(4 * time.Second)
	if got := len(c.Active()); got != 1 {
		t.Fatalf("expected notification still visible, got %d", got)
	}

	clock.t = clock.t.Add(time.Second)
	if got := len(c.Active()); got != 0 {
		t.Errorf("expected notification expired, got %d", got)
	}
	if c.Len() != 0 {
		t.Errorf("expected expired notification pruned, got %d", c.Len())
	}
}

func TestCenter_DismissEarly(t *testing.T) {
	c := notify.NewCenter(time.Minute)
	a := c.Notify("one", notify.Warning)
	b := c.Notify("two", notify.Warning)

	if !c.Dismiss(a.ID) {
		t.Fatal("expected dismiss to succeed")
	}
	if c.Dismiss(a.ID) {
		t.Error("second dismiss should report false")
	}

	active := c.Active()
	if len(active) != 1 || active[0].ID != b.ID {
		t.Errorf("expected only the second notification, got %v", active)
	}
}
