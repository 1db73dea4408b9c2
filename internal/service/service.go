package service

import (
	"context"
	"net/url"
)

// Service defines the interface for task backend operations.
// All /api/tasks calls go through this interface.
// Commands and the task client never talk HTTP directly.
type Service interface {
	// ListTasks returns all tasks in server order.
	ListTasks(ctx context.Context) ([]Task, error)

	// CreateTask creates a task with the given description.
	// The returned Result carries the server-assigned task.
	CreateTask(ctx context.Context, description string) (Result, error)

	// UpdateTask replaces the description of task id.
	UpdateTask(ctx context.Context, id int, description string) (Result, error)

	// DeleteTask deletes task id.
	DeleteTask(ctx context.Context, id int) (Result, error)
}

// PageService is implemented by backends that can fetch server-rendered
// pages and submit their forms. The admin dashboard uses it.
type PageService interface {
	// FetchPage returns the HTML body served at path.
	FetchPage(ctx context.Context, path string) (string, error)

	// SubmitForm posts fields to the form action, adding the anti-forgery token.
	SubmitForm(ctx context.Context, action string, fields url.Values) error
}

// Backend is a Service that also serves the admin pages.
type Backend interface {
	Service
	PageService
}
