package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/taskui/internal/controllers"
	"github.com/tgienger/taskui/internal/models"
	"github.com/tgienger/taskui/internal/ui/keys"
	"github.com/tgienger/taskui/internal/ui/route"
	"github.com/tgienger/taskui/internal/ui/styles"
)

// SavingLabel replaces the save button text while a save is in flight
const SavingLabel = "Saving..."

// form focus positions
const (
	focusTitle = iota
	focusDescription
	focusDueDate
	focusCompleted
	focusSave
	focusCount
)

// TaskFormView edits a new or an existing task
type TaskFormView struct {
	ctrl   *controllers.FormController
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	title    textinput.Model
	desc     textarea.Model
	dueDate  textinput.Model
	spinner  spinner.Model
	focusIdx int
}

// NewTaskFormView creates a form view around ctrl
func NewTaskFormView(ctrl *controllers.FormController) *TaskFormView {
	s := styles.NewStyles()

	title := textinput.New()
	title.Placeholder = "Task title"
	title.CharLimit = 200

	desc := textarea.New()
	desc.Placeholder = "Description"
	desc.CharLimit = 1000
	desc.SetWidth(50)
	desc.SetHeight(3)
	desc.ShowLineNumbers = false

	due := textinput.New()
	due.Placeholder = "YYYY-MM-DD"
	due.CharLimit = 32

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(s.Spinner),
	)

	v := &TaskFormView{
		ctrl:    ctrl,
		styles:  s,
		keys:    keys.DefaultKeyMap(),
		title:   title,
		desc:    desc,
		dueDate: due,
		spinner: sp,
	}
	v.syncInputs()
	v.updateFocus()
	return v
}

// Init starts hydration in edit mode
func (v *TaskFormView) Init() tea.Cmd {
	cmd := v.ctrl.Init()
	if cmd == nil {
		return textinput.Blink
	}
	return tea.Batch(cmd, textinput.Blink, v.spinner.Tick)
}

// Restyle rebuilds the styles after a theme change
func (v *TaskFormView) Restyle() {
	v.styles = styles.NewStyles()
	v.spinner.Style = v.styles.Spinner
}

// Controller exposes the form state
func (v *TaskFormView) Controller() *controllers.FormController { return v.ctrl }

// syncInputs copies the controller's form into the widgets
func (v *TaskFormView) syncInputs() {
	f := v.ctrl.Form()
	v.title.SetValue(f.Title)
	v.desc.SetValue(f.Description)
	v.dueDate.SetValue(f.DueDate)
}

func (v *TaskFormView) updateFocus() {
	v.title.Blur()
	v.desc.Blur()
	v.dueDate.Blur()

	switch v.focusIdx {
	case focusTitle:
		v.title.Focus()
	case focusDescription:
		v.desc.Focus()
	case focusDueDate:
		v.dueDate.Focus()
	}
}

func (v *TaskFormView) cycleFocus(dir int) {
	v.focusIdx = (v.focusIdx + dir + focusCount) % focusCount
	v.updateFocus()
}

// Update handles messages for the form
func (v *TaskFormView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		// Update textarea width dynamically based on content width
		contentWidth := styles.ContentWidth(v.width)
		v.desc.SetWidth(styles.Clamp(contentWidth-10, 20, 50))
		return v, nil

	case spinner.TickMsg:
		if v.ctrl.Status() != controllers.StatusPending {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case controllers.TaskLoadedMsg:
		cmd := v.ctrl.Update(msg)
		if msg.From(v.ctrl) && msg.Err == nil {
			v.syncInputs()
		}
		return v, cmd

	case tea.KeyMsg:
		return v.updateEditing(msg)
	}

	return v, v.ctrl.Update(msg)
}

func (v *TaskFormView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		return v, Navigate(route.ListPath)

	case key.Matches(msg, v.keys.Save):
		return v, v.ctrl.Submit()

	case key.Matches(msg, v.keys.Tab):
		v.cycleFocus(1)
		return v, nil

	case key.Matches(msg, v.keys.ShiftTab):
		v.cycleFocus(-1)
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		switch v.focusIdx {
		case focusTitle, focusDueDate:
			v.cycleFocus(1)
			return v, nil
		case focusCompleted:
			v.ctrl.ToggleCompleted()
			return v, nil
		case focusSave:
			return v, v.ctrl.Submit()
		}
		// the description takes enter as a newline

	case key.Matches(msg, v.keys.Toggle):
		if v.focusIdx == focusCompleted {
			v.ctrl.ToggleCompleted()
			return v, nil
		}
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case focusTitle:
		v.title, cmd = v.title.Update(msg)
		v.ctrl.SetField(models.FieldTitle, v.title.Value())
	case focusDescription:
		v.desc, cmd = v.desc.Update(msg)
		v.ctrl.SetField(models.FieldDescription, v.desc.Value())
	case focusDueDate:
		v.dueDate, cmd = v.dueDate.Update(msg)
		v.ctrl.SetField(models.FieldDueDate, v.dueDate.Value())
	}
	return v, cmd
}

// View renders the form
func (v *TaskFormView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	if contentWidth == 0 {
		contentWidth = styles.MaxWidth
	}
	inputWidth := styles.Clamp(contentWidth-6, 20, 50)

	formTitle := "New Task"
	if v.ctrl.Mode() == controllers.ModeEdit {
		formTitle = "Edit Task"
	}

	titleStyle := s.Input
	descStyle := s.Input
	dueStyle := s.Input
	checkStyle := s.Label
	btnStyle := s.Button

	switch v.focusIdx {
	case focusTitle:
		titleStyle = s.InputFocused
	case focusDescription:
		descStyle = s.InputFocused
	case focusDueDate:
		dueStyle = s.InputFocused
	case focusCompleted:
		checkStyle = s.HelpKey
	case focusSave:
		btnStyle = s.ButtonFocused
	}

	lines := []string{s.Title.Render(formTitle)}
	switch v.ctrl.Status() {
	case controllers.StatusPending:
		lines = append(lines, v.spinner.View()+" "+s.TitleMuted.Render("Loading task..."))
	case controllers.StatusFailed:
		lines = append(lines, s.FieldError.Render("Could not load this task."))
	default:
		lines = append(lines, "")
	}

	lines = append(lines,
		s.Label.Render("Title:"),
		titleStyle.Width(inputWidth).Render(v.title.View()),
	)
	if msg := v.ctrl.FieldError(models.FieldTitle); msg != "" {
		lines = append(lines, s.FieldError.Render(msg))
	}

	checkbox := "[ ]"
	if v.ctrl.Form().IsCompleted {
		checkbox = "[x]"
	}

	button := btnStyle.Render(" Save ")
	if v.ctrl.Saving() {
		button = s.ButtonDisabled.Render(" " + SavingLabel + " ")
	}

	lines = append(lines,
		"",
		s.Label.Render("Description:"),
		descStyle.Render(v.desc.View()),
		"",
		s.Label.Render("Due Date:"),
		dueStyle.Width(inputWidth).Render(v.dueDate.View()),
		"",
		checkStyle.Render(checkbox+" Completed"),
		"",
		button,
	)

	if toast := renderToast(s, v.ctrl.Notifier().Current()); toast != "" {
		lines = append(lines, "", toast)
	}

	lines = append(lines,
		"",
		s.TitleMuted.Render(strings.Join([]string{
			"Tab: next", "Space: toggle", "Ctrl+S: save", "Esc: cancel",
		}, " • ")),
	)

	form := lipgloss.JoinVertical(lipgloss.Left, lines...)
	if v.height == 0 {
		return form
	}
	return placeCenter(form, v.width, v.height)
}
