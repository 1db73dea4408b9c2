// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"errors"
	"fmt"
)

// Task represents a single task held by the server.
// The id is always assigned server-side.
type Task struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

// Result is the outcome of a successful mutation.
type Result struct {
	// Task is the task echoed back by the server. Zero for deletes.
	Task Task

	// Message is the server's human-readable message.
	Message string
}

var (
	// ErrNotFound is returned when the server has no such resource.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned when the server refuses the session.
	ErrUnauthorized = errors.New("not authorized")
)

// APIError is returned when the server answered with success=false.
type APIError struct {
	Op      string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: request rejected", e.Op)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}
