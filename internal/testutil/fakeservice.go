// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/tgienger/taskui/internal/api"
	"github.com/tgienger/taskui/internal/models"
)

// ErrNotFound is returned when a task id is unknown.
var ErrNotFound = errors.New("not found")

// ErrUnavailable is a convenient injected failure.
var ErrUnavailable = errors.New("backend unavailable")

var _ api.Service = (*FakeService)(nil)

// FakeService is an in-memory implementation of api.Service for testing.
type FakeService struct {
	mu     sync.Mutex
	tasks  []models.Task
	nextID int

	// Error injection for testing
	ListErr   error
	GetErr    error
	CreateErr error
	UpdateErr error
	DeleteErr error

	// Call counters
	ListCalls   int
	GetCalls    int
	CreateCalls int
	UpdateCalls int
	DeleteCalls int

	// LastForm is the body of the most recent create or update call.
	LastForm models.FormState
}

// NewFakeService creates a FakeService holding a copy of tasks.
func NewFakeService(tasks ...models.Task) *FakeService {
	f := &FakeService{nextID: 1}
	for _, t := range tasks {
		f.tasks = append(f.tasks, t)
		if n, err := strconv.Atoi(t.ID.String()); err == nil && n >= f.nextID {
			f.nextID = n + 1
		}
	}
	return f
}

// Tasks returns a copy of the stored tasks.
func (f *FakeService) Tasks() []models.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

// NetworkCalls is the total number of calls made.
func (f *FakeService) NetworkCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ListCalls + f.GetCalls + f.CreateCalls + f.UpdateCalls + f.DeleteCalls
}

// ListTasks implements api.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListCalls++
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	out := make([]models.Task, len(f.tasks))
	copy(out, f.tasks)
	return out, nil
}

// GetTask implements api.Service.
func (f *FakeService) GetTask(ctx context.Context, id models.TaskID) (models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.GetCalls++
	if f.GetErr != nil {
		return models.Task{}, f.GetErr
	}
	for _, t := range f.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return models.Task{}, ErrNotFound
}

// CreateTask implements api.Service.
func (f *FakeService) CreateTask(ctx context.Context, form models.FormState) (models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateCalls++
	f.LastForm = form
	if f.CreateErr != nil {
		return models.Task{}, f.CreateErr
	}
	t := taskFromForm(models.TaskID(strconv.Itoa(f.nextID)), form)
	f.nextID++
	f.tasks = append(f.tasks, t)
	return t, nil
}

// UpdateTask implements api.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id models.TaskID, form models.FormState) (models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateCalls++
	f.LastForm = form
	if f.UpdateErr != nil {
		return models.Task{}, f.UpdateErr
	}
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks[i] = taskFromForm(id, form)
			return f.tasks[i], nil
		}
	}
	return models.Task{}, ErrNotFound
}

// DeleteTask implements api.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id models.TaskID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteCalls++
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func taskFromForm(id models.TaskID, form models.FormState) models.Task {
	completed := form.IsCompleted
	t := models.Task{ID: id, Title: form.Title, IsCompleted: &completed}
	if form.Description != "" {
		d := form.Description
		t.Description = &d
	}
	if form.DueDate != "" {
		d := form.DueDate
		t.DueDate = &d
	}
	return t
}

// Task builds a task with only an id and title, leaving optionals absent.
func Task(id, title string) models.Task {
	return models.Task{ID: models.TaskID(id), Title: title}
}
