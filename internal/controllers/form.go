package controllers

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/tgienger/taskui/internal/api"
	"github.com/tgienger/taskui/internal/models"
	"github.com/tgienger/taskui/internal/notify"
)

// Notification texts shown by the form.
const (
	MsgLoadTaskFailed = "Failed to load task"
	MsgFixErrors      = "Please fix the errors in the form"
	MsgTaskCreated    = "Task created"
	MsgTaskUpdated    = "Task updated"
	MsgSaveFailed     = "Failed to save task"
)

// NavigateDelay is how long a successful save waits before returning to
// the list, so the notification is seen first.
const NavigateDelay = 500 * time.Millisecond

// Mode is fixed when the form is created.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// TaskLoadedMsg carries the result of hydration. Only the form that
// started the fetch applies it.
type TaskLoadedMsg struct {
	owner *FormController
	Task  models.Task
	Err   error
}

// From reports whether the fetch was started by c.
func (m TaskLoadedMsg) From(c *FormController) bool {
	return c != nil && m.owner == c
}

// TaskSavedMsg carries the result of a create or update. Only the form that
// started the save applies it.
type TaskSavedMsg struct {
	owner *FormController
	Task  models.Task
	Err   error
}

// BackToListMsg signals to go back to the task list
type BackToListMsg struct {
	owner *FormController
}

// From reports whether the message was scheduled by c.
func (m BackToListMsg) From(c *FormController) bool {
	return c != nil && m.owner == c
}

// FormController edits one task, either a new one or an existing one
// fetched by id.
type FormController struct {
	svc      api.Service
	log      logrus.FieldLogger
	notifier *notify.Notifier

	mode Mode
	id   models.TaskID

	form     models.FormState
	errors   map[models.Field]string
	status   Status
	hydrated bool
	saving   bool
}

// NewFormController creates a form in create mode when id is empty and in
// edit mode otherwise.
func NewFormController(svc api.Service, log logrus.FieldLogger, id models.TaskID) *FormController {
	c := &FormController{
		svc:      svc,
		log:      log,
		notifier: notify.New(),
		id:       id,
		errors:   map[models.Field]string{},
		status:   StatusLoaded,
	}
	if id != "" {
		c.mode = ModeEdit
		c.status = StatusPending
	}
	return c
}

// Init starts hydration in edit mode.
func (c *FormController) Init() tea.Cmd {
	return c.Hydrate()
}

func (c *FormController) Notifier() *notify.Notifier       { return c.notifier }
func (c *FormController) Mode() Mode                       { return c.mode }
func (c *FormController) ID() models.TaskID                { return c.id }
func (c *FormController) Form() models.FormState           { return c.form }
func (c *FormController) Errors() map[models.Field]string  { return c.errors }
func (c *FormController) Status() Status                   { return c.status }
func (c *FormController) Saving() bool                     { return c.saving }
func (c *FormController) FieldError(f models.Field) string { return c.errors[f] }

// Hydrate fetches the task being edited. It runs at most once per form and
// never in create mode.
func (c *FormController) Hydrate() tea.Cmd {
	if c.mode != ModeEdit || c.hydrated {
		return nil
	}
	c.hydrated = true
	c.status = StatusPending
	svc, id := c.svc, c.id
	return func() tea.Msg {
		task, err := svc.GetTask(context.Background(), id)
		return TaskLoadedMsg{owner: c, Task: task, Err: err}
	}
}

// SetField changes one field locally. No validation runs.
func (c *FormController) SetField(field models.Field, value string) error {
	return c.form.Set(field, value)
}

// ToggleCompleted flips is_completed.
func (c *FormController) ToggleCompleted() {
	c.form.IsCompleted = !c.form.IsCompleted
}

// Validate recomputes the field errors from scratch and reports whether the
// form may be submitted.
func (c *FormController) Validate() bool {
	c.errors = models.ValidateForm(c.form)
	return len(c.errors) == 0
}

// Submit validates and then creates or updates the task. It is a no-op
// while a save is in flight.
func (c *FormController) Submit() tea.Cmd {
	if c.saving {
		return nil
	}
	if !c.Validate() {
		return c.notifier.Warning(MsgFixErrors)
	}

	c.saving = true
	svc, mode, id, form := c.svc, c.mode, c.id, c.form
	return func() tea.Msg {
		var (
			task models.Task
			err  error
		)
		if mode == ModeEdit {
			task, err = svc.UpdateTask(context.Background(), id, form)
		} else {
			task, err = svc.CreateTask(context.Background(), form)
		}
		return TaskSavedMsg{owner: c, Task: task, Err: err}
	}
}

// Update applies async results. Results started by another form are
// dropped.
func (c *FormController) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case TaskLoadedMsg:
		if !msg.From(c) {
			return nil
		}
		return c.handleLoaded(msg)
	case TaskSavedMsg:
		if msg.owner != c {
			return nil
		}
		return c.handleSaved(msg)
	case notify.DismissMsg:
		c.notifier.Update(msg)
	}
	return nil
}

func (c *FormController) handleLoaded(msg TaskLoadedMsg) tea.Cmd {
	if msg.Err != nil {
		c.status = StatusFailed
		c.log.WithError(msg.Err).WithField("task_id", c.id).Error("loading task")
		return c.notifier.Error(MsgLoadTaskFailed)
	}
	c.status = StatusLoaded
	c.form = models.FormStateFromTask(msg.Task)
	return nil
}

func (c *FormController) handleSaved(msg TaskSavedMsg) tea.Cmd {
	// cleared before the navigation delay starts
	c.saving = false

	if msg.Err != nil {
		c.log.WithError(msg.Err).WithField("mode", c.mode).Error("saving task")
		return c.notifier.Error(MsgSaveFailed)
	}

	text := MsgTaskCreated
	if c.mode == ModeEdit {
		text = MsgTaskUpdated
	}
	return tea.Batch(
		c.notifier.Success(text),
		tea.Tick(NavigateDelay, func(time.Time) tea.Msg { return BackToListMsg{owner: c} }),
	)
}
