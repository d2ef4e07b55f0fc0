package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/taskui/internal/controllers"
	"github.com/tgienger/taskui/internal/models"
	"github.com/tgienger/taskui/internal/ui/keys"
	"github.com/tgienger/taskui/internal/ui/route"
	"github.com/tgienger/taskui/internal/ui/styles"
)

// EmptyText is shown when the backend has no tasks
const EmptyText = "No tasks yet. Create one!"

// TaskListView shows one page of tasks in a table
type TaskListView struct {
	ctrl   *controllers.ListController
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	table     table.Model
	paginator paginator.Model
	spinner   spinner.Model

	// Help popup (shown with ?)
	showHelpPopup bool
}

// NewTaskListView creates a new task list view
func NewTaskListView(ctrl *controllers.ListController) *TaskListView {
	s := styles.NewStyles()

	t := table.New(
		table.WithColumns(listColumns(styles.MaxWidth)),
		table.WithFocused(true),
		table.WithHeight(2),
		table.WithStyles(s.Table),
	)

	p := paginator.New()
	p.Type = paginator.Dots
	p.ActiveDot = s.Title.Render("•")
	p.InactiveDot = s.TitleMuted.Render("•")

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(s.Spinner),
	)

	v := &TaskListView{
		ctrl:      ctrl,
		styles:    s,
		keys:      keys.DefaultKeyMap(),
		table:     t,
		paginator: p,
		spinner:   sp,
	}
	v.refresh()
	return v
}

// Init fetches the tasks and starts the spinner
func (v *TaskListView) Init() tea.Cmd {
	return tea.Batch(v.ctrl.Load(), v.spinner.Tick)
}

// Restyle rebuilds the styles after a theme change
func (v *TaskListView) Restyle() {
	v.styles = styles.NewStyles()
	v.table.SetStyles(v.styles.Table)
	v.paginator.ActiveDot = v.styles.Title.Render("•")
	v.paginator.InactiveDot = v.styles.TitleMuted.Render("•")
	v.spinner.Style = v.styles.Spinner
}

// Controller exposes the list state
func (v *TaskListView) Controller() *controllers.ListController { return v.ctrl }

func listColumns(width int) []table.Column {
	// cell padding takes two columns each
	avail := max(width-10, 24)
	due := 12
	status := 8
	title := (avail - due - status) * 2 / 5
	desc := avail - due - status - title
	return []table.Column{
		{Title: "Title", Width: title},
		{Title: "Description", Width: desc},
		{Title: "Due Date", Width: due},
		{Title: "Status", Width: status},
	}
}

// Missing is shown in cells whose optional field is absent or empty
const Missing = "—"

func formatDescription(t models.Task) string {
	if s := t.DescriptionText(); s != "" {
		return s
	}
	return Missing
}

func formatDue(t models.Task) string {
	if d, ok := t.Due(); ok {
		return d.Format("Jan 2, 2006")
	}
	if s := t.DueDateText(); s != "" {
		return s
	}
	return Missing
}

func statusText(t models.Task) string {
	if t.Completed() {
		return "Done"
	}
	return "Pending"
}

func pageSizeLabel(size int) string {
	if size == controllers.PageSizeAll {
		return "All"
	}
	return fmt.Sprint(size)
}

// refresh copies the controller's visible page into the widgets
func (v *TaskListView) refresh() {
	visible := v.ctrl.Visible()
	rows := make([]table.Row, 0, len(visible))
	for _, t := range visible {
		rows = append(rows, table.Row{t.Title, formatDescription(t), formatDue(t), statusText(t)})
	}
	v.table.SetRows(rows)

	avail := max(v.height-12, 3)
	v.table.SetHeight(min(len(rows), avail) + 2)
	switch c := v.table.Cursor(); {
	case c < 0:
		v.table.SetCursor(0)
	case c >= len(rows):
		v.table.SetCursor(len(rows) - 1)
	}

	total := len(v.ctrl.Tasks())
	perPage := v.ctrl.PageSize()
	if perPage == controllers.PageSizeAll {
		perPage = max(total, 1)
	}
	v.paginator.PerPage = perPage
	v.paginator.SetTotalPages(total)
	v.paginator.Page = v.ctrl.Page()
}

func (v *TaskListView) selected() (models.Task, bool) {
	visible := v.ctrl.Visible()
	i := v.table.Cursor()
	if i < 0 || i >= len(visible) {
		return models.Task{}, false
	}
	return visible[i], true
}

// Update handles messages for the list
func (v *TaskListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.table.SetColumns(listColumns(styles.ContentWidth(v.width)))
		v.refresh()
		return v, nil

	case spinner.TickMsg:
		// let the tick chain stop once nothing is loading
		if !v.ctrl.Loading() {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		// Handle help popup first - any key closes it
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}
		if v.ctrl.DeleteTarget() != nil {
			return v.updateConfirmDelete(msg)
		}
		return v.updateNormal(msg)
	}

	cmd := v.ctrl.Update(msg)
	v.refresh()
	return v, cmd
}

func (v *TaskListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
		return v, nil

	case key.Matches(msg, v.keys.Up):
		v.table.MoveUp(1)
		return v, nil

	case key.Matches(msg, v.keys.Down):
		v.table.MoveDown(1)
		return v, nil

	case key.Matches(msg, v.keys.PrevPage):
		v.ctrl.PrevPage()
		v.table.SetCursor(0)
		v.refresh()
		return v, nil

	case key.Matches(msg, v.keys.NextPage):
		v.ctrl.NextPage()
		v.table.SetCursor(0)
		v.refresh()
		return v, nil

	case key.Matches(msg, v.keys.PageSize):
		size := controllers.NextPageSize(v.ctrl.PageSize())
		v.ctrl.SetPageSize(size)
		v.table.SetCursor(0)
		v.refresh()
		return v, func() tea.Msg { return PageSizeChangedMsg{Size: size} }

	case key.Matches(msg, v.keys.Dismiss):
		v.ctrl.Notifier().Dismiss()
		return v, nil

	case key.Matches(msg, v.keys.Reload):
		cmd := v.ctrl.Load()
		if cmd == nil {
			return v, nil
		}
		return v, tea.Batch(cmd, v.spinner.Tick)

	case key.Matches(msg, v.keys.New):
		return v, Navigate(route.CreatePath)

	case key.Matches(msg, v.keys.Edit):
		if task, ok := v.selected(); ok {
			return v, Navigate(route.EditPath(task.ID))
		}
		return v, nil

	case key.Matches(msg, v.keys.Delete):
		if task, ok := v.selected(); ok {
			v.ctrl.StageDelete(task)
		}
		return v, nil
	}

	return v, nil
}

func (v *TaskListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Confirm):
		return v, v.ctrl.ConfirmDelete()
	case key.Matches(msg, v.keys.Cancel):
		v.ctrl.CancelDelete()
		return v, nil
	}
	return v, nil
}

// View renders the list
func (v *TaskListView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}

	if v.ctrl.DeleteTarget() != nil {
		return v.renderDeleteConfirm()
	}

	var b strings.Builder

	b.WriteString(v.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(v.renderBody())
	b.WriteString("\n")

	if toast := renderToast(v.styles, v.ctrl.Notifier().Current()); toast != "" {
		b.WriteString("\n")
		b.WriteString(toast)
		b.WriteString("\n")
	}

	b.WriteString(v.renderHelp())

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *TaskListView) renderHeader() string {
	s := v.styles
	title := s.Title.Render("Tasks")
	count := s.TitleMuted.Render(fmt.Sprintf("(%d)", len(v.ctrl.Tasks())))
	header := title + " " + count
	if v.ctrl.Loading() && len(v.ctrl.Tasks()) > 0 {
		header += "  " + v.spinner.View()
	}
	return header
}

func (v *TaskListView) renderBody() string {
	s := v.styles

	if len(v.ctrl.Tasks()) == 0 {
		switch v.ctrl.Status() {
		case controllers.StatusPending:
			return v.spinner.View() + " " + s.TitleMuted.Render("Loading tasks...")
		case controllers.StatusFailed:
			return s.FieldError.Render("Could not load tasks.") + " " +
				s.TitleMuted.Render("Press r to retry.")
		}
		return s.TitleMuted.Render(EmptyText)
	}

	footer := s.StatusBar.Render(fmt.Sprintf("Page %d of %d • %s per page",
		v.ctrl.Page()+1, v.ctrl.PageCount(), pageSizeLabel(v.ctrl.PageSize())))
	if v.paginator.TotalPages > 1 {
		footer = v.paginator.View() + " " + footer
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		v.table.View(),
		"",
		footer,
	)
}

func (v *TaskListView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	// At narrow widths, show hint to press ? for help
	if contentWidth > 0 && contentWidth < 50 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
	}
	return renderHelpItems(v.styles,
		"n", "new",
		"e", "edit",
		"d", "del",
		"←→", "page",
		"s", "rows",
		"r", "reload",
		"?", "help",
		"q", "quit",
	)
}

func (v *TaskListView) renderHelpPopup() string {
	s := v.styles

	helpItems := []string{
		s.HelpKey.Render("↑/↓") + "     move",
		s.HelpKey.Render("←/→") + "     previous / next page",
		s.HelpKey.Render("n") + "       new task",
		s.HelpKey.Render("e/↵") + "     edit task",
		s.HelpKey.Render("d") + "       delete task",
		s.HelpKey.Render("s") + "       rows per page (" + pageSizeLabel(v.ctrl.PageSize()) + ")",
		s.HelpKey.Render("r") + "       reload",
		s.HelpKey.Render("x") + "       close message",
		s.HelpKey.Render("ctrl+t") + "  switch theme",
		s.HelpKey.Render("q") + "       quit",
		"",
		s.TitleMuted.Render("Press any key to close"),
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{s.Title.Render("Keyboard Shortcuts"), ""}, helpItems...)...,
	)
	return placeCenter(s.Dialog.Render(content), v.width, v.height)
}

func (v *TaskListView) renderDeleteConfirm() string {
	s := v.styles
	target := v.ctrl.DeleteTarget()

	buttons := lipgloss.JoinHorizontal(lipgloss.Center,
		s.ButtonPrimary.Render(" Y - Yes "),
		"  ",
		s.Button.Render(" N - No "),
	)
	if v.ctrl.Deleting() {
		buttons = s.TitleMuted.Render("Deleting...")
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.DialogTitle.Render("Delete Task?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("Are you sure you want to delete %q?", target.Title)),
		s.TitleMuted.Render("This cannot be undone."),
		"",
		buttons,
	)
	return placeCenter(s.Dialog.Render(content), v.width, v.height)
}
