package controllers

import (
	"context"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/tgienger/taskui/internal/api"
	"github.com/tgienger/taskui/internal/models"
	"github.com/tgienger/taskui/internal/notify"
)

// Notification texts shown by the list.
const (
	MsgLoadTasksFailed  = "Failed to load tasks"
	MsgTaskDeleted      = "Task deleted"
	MsgDeleteTaskFailed = "Failed to delete task"
)

// TasksLoadedMsg carries the result of a list fetch.
type TasksLoadedMsg struct {
	owner *ListController
	Tasks []models.Task
	Err   error
}

// TaskDeletedMsg carries the result of a delete.
type TaskDeletedMsg struct {
	owner *ListController
	ID    models.TaskID
	Err   error
}

// ListController caches the task collection, derives the visible page and
// runs the two-step delete.
type ListController struct {
	svc      api.Service
	log      logrus.FieldLogger
	notifier *notify.Notifier

	tasks   []models.Task
	status  Status
	loading bool

	page     int
	pageSize int

	deleteTarget *models.Task
	deleting     bool
}

// NewListController creates a controller with nothing loaded yet.
func NewListController(svc api.Service, log logrus.FieldLogger, pageSize int) *ListController {
	if pageSize == 0 {
		pageSize = PageSizes[0]
	}
	return &ListController{
		svc:      svc,
		log:      log,
		notifier: notify.New(),
		status:   StatusPending,
		pageSize: pageSize,
	}
}

// Notifier exposes the notification for rendering.
func (c *ListController) Notifier() *notify.Notifier { return c.notifier }

// Tasks returns the cached list.
func (c *ListController) Tasks() []models.Task { return c.tasks }

// Status returns the fetch state.
func (c *ListController) Status() Status { return c.status }

// Loading reports whether a fetch is in flight.
func (c *ListController) Loading() bool { return c.loading }

// Load fetches the whole collection once. A second call while a fetch is in
// flight does nothing.
func (c *ListController) Load() tea.Cmd {
	if c.loading {
		return nil
	}
	c.loading = true
	c.status = StatusPending
	svc := c.svc
	return func() tea.Msg {
		tasks, err := svc.ListTasks(context.Background())
		return TasksLoadedMsg{owner: c, Tasks: tasks, Err: err}
	}
}

// Update applies async results. Results started by another list are
// dropped.
func (c *ListController) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case TasksLoadedMsg:
		if msg.owner != c {
			return nil
		}
		return c.handleLoaded(msg)
	case TaskDeletedMsg:
		if msg.owner != c {
			return nil
		}
		return c.handleDeleted(msg)
	case notify.DismissMsg:
		c.notifier.Update(msg)
	}
	return nil
}

func (c *ListController) handleLoaded(msg TasksLoadedMsg) tea.Cmd {
	c.loading = false

	if msg.Err != nil {
		c.status = StatusFailed
		c.log.WithError(msg.Err).Error("loading tasks")
		return c.notifier.Error(MsgLoadTasksFailed)
	}

	c.status = StatusLoaded
	c.tasks = msg.Tasks
	c.clampPage()
	return nil
}

// Page is the current zero-based page index.
func (c *ListController) Page() int { return c.page }

// PageSize is the rows per page, PageSizeAll for no pagination.
func (c *ListController) PageSize() int { return c.pageSize }

// PageCount is the number of pages for the cached list.
func (c *ListController) PageCount() int { return PageCount(len(c.tasks), c.pageSize) }

// Visible returns the tasks on the current page.
func (c *ListController) Visible() []models.Task {
	return Paginate(c.tasks, c.page, c.pageSize)
}

// SetPage moves to page, clamped to the existing pages.
func (c *ListController) SetPage(page int) {
	c.page = max(0, min(page, c.PageCount()-1))
}

// NextPage moves forward one page if possible.
func (c *ListController) NextPage() { c.SetPage(c.page + 1) }

// PrevPage moves back one page if possible.
func (c *ListController) PrevPage() { c.SetPage(c.page - 1) }

// SetPageSize changes rows per page and returns to the first page.
func (c *ListController) SetPageSize(size int) {
	if size <= 0 {
		size = PageSizeAll
	}
	c.pageSize = size
	c.page = 0
}

func (c *ListController) clampPage() {
	if last := c.PageCount() - 1; c.page > last {
		c.page = last
	}
}

// DeleteTarget is the task awaiting confirmation, nil when none.
func (c *ListController) DeleteTarget() *models.Task { return c.deleteTarget }

// Deleting reports whether a confirmed delete is in flight.
func (c *ListController) Deleting() bool { return c.deleting }

// StageDelete asks for confirmation before deleting task.
func (c *ListController) StageDelete(task models.Task) {
	if c.deleting {
		return
	}
	c.deleteTarget = &task
}

// CancelDelete closes the confirmation without any request.
func (c *ListController) CancelDelete() {
	if c.deleting {
		return
	}
	c.deleteTarget = nil
}

// ConfirmDelete issues the DELETE for the staged task. The cached list is
// only changed once the backend has answered.
func (c *ListController) ConfirmDelete() tea.Cmd {
	if c.deleteTarget == nil || c.deleting {
		return nil
	}
	c.deleting = true
	id := c.deleteTarget.ID
	svc := c.svc
	return func() tea.Msg {
		return TaskDeletedMsg{owner: c, ID: id, Err: svc.DeleteTask(context.Background(), id)}
	}
}

func (c *ListController) handleDeleted(msg TaskDeletedMsg) tea.Cmd {
	c.deleting = false
	defer func() { c.deleteTarget = nil }()

	if msg.Err != nil {
		c.log.WithError(msg.Err).WithField("task_id", msg.ID).Error("deleting task")
		return c.notifier.Error(MsgDeleteTaskFailed)
	}

	if i := slices.IndexFunc(c.tasks, func(t models.Task) bool { return t.ID == msg.ID }); i >= 0 {
		c.tasks = slices.Delete(slices.Clone(c.tasks), i, i+1)
	}
	c.clampPage()
	return c.notifier.Success(MsgTaskDeleted)
}
