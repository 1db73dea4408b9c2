// Package notify holds transient user notifications.
//
// A Center keeps notifications in the order they were pushed. Each one
// expires after the center's TTL and can be dismissed earlier. The center
// never runs timers itself: callers either prune through Active or expire a
// specific notification when their own timer fires.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Severity classifies a notification.
type Severity int

const (
	Info Severity = iota
	Success
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// DefaultTTL is how long a notification stays visible.
const DefaultTTL = 5 * time.Second

// Notification is a single transient banner.
type Notification struct {
	ID       string
	Message  string
	Severity Severity
	Created  time.Time
}

// Notifier receives notifications.
type Notifier interface {
	Notify(msg string, sev Severity) Notification
}

// Center is an ordered, expiring container of notifications.
// It is safe for concurrent use.
type Center struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items []Notification
}

// NewCenter creates a Center whose notifications expire after ttl.
// A non-positive ttl selects DefaultTTL.
func NewCenter(ttl time.Duration) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Center{ttl: ttl, now: time.Now}
}

// SetClock replaces the time source (for testing).
func (c *Center) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// TTL returns the auto-dismiss delay.
func (c *Center) TTL() time.Duration {
	return c.ttl
}

// Notify appends a notification and returns it.
func (c *Center) Notify(msg string, sev Severity) Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := Notification{
		ID:       uuid.NewString(),
		Message:  msg,
		Severity: sev,
		Created:  c.now(),
	}
	c.items = append(c.items, n)
	return n
}

// Dismiss removes the notification with the given id.
// Returns false if it was already gone.
func (c *Center) Dismiss(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, n := range c.items {
		if n.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// Expire is Dismiss for timer callbacks.
func (c *Center) Expire(id string) bool {
	return c.Dismiss(id)
}

// Active drops expired notifications and returns the remaining ones,
// oldest first.
func (c *Center) Active() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	kept := c.items[:0]
	for _, n := range c.items {
		if now.Sub(n.Created) < c.ttl {
			kept = append(kept, n)
		}
	}
	c.items = kept

	out := make([]Notification, len(kept))
	copy(out, kept)
	return out
}

// Len returns the number of held notifications, expired or not.
func (c *Center) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
