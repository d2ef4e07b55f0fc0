// Package api talks to the remote /tasks REST backend.
package api

import (
	"context"

	"github.com/tgienger/taskui/internal/models"
)

// Service is the contract the controllers depend on.
// Any failure, transport or non-2xx, is reported as an error.
type Service interface {
	// ListTasks returns the full task collection in backend order.
	ListTasks(ctx context.Context) ([]models.Task, error)

	// GetTask returns one task by id.
	GetTask(ctx context.Context, id models.TaskID) (models.Task, error)

	// CreateTask creates a task from a form and returns the stored record.
	CreateTask(ctx context.Context, form models.FormState) (models.Task, error)

	// UpdateTask replaces a task's editable fields.
	UpdateTask(ctx context.Context, id models.TaskID, form models.FormState) (models.Task, error)

	// DeleteTask removes a task.
	DeleteTask(ctx context.Context, id models.TaskID) error
}
