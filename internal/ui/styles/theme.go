package styles

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/taskui/internal/notify"
)

// Theme represents a color scheme for the application
type Theme struct {
	Name string

	// Base colors
	Background    lipgloss.Color
	Foreground    lipgloss.Color
	ForegroundDim lipgloss.Color

	// Accent colors
	Primary lipgloss.Color
	Accent  lipgloss.Color

	// Semantic colors
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	// UI element colors
	Border      lipgloss.Color
	BorderFocus lipgloss.Color
	Selection   lipgloss.Color
}

// Dark is the default theme
var Dark = Theme{
	Name: "dark",

	Background:    lipgloss.Color("#1a1b26"),
	Foreground:    lipgloss.Color("#c0caf5"),
	ForegroundDim: lipgloss.Color("#565f89"),

	Primary: lipgloss.Color("#7aa2f7"),
	Accent:  lipgloss.Color("#7dcfff"),

	Success: lipgloss.Color("#9ece6a"),
	Warning: lipgloss.Color("#e0af68"),
	Error:   lipgloss.Color("#f7768e"),
	Info:    lipgloss.Color("#7aa2f7"),

	Border:      lipgloss.Color("#3b4261"),
	BorderFocus: lipgloss.Color("#7aa2f7"),
	Selection:   lipgloss.Color("#33467c"),
}

// Light is the daytime variant of Dark
var Light = Theme{
	Name: "light",

	Background:    lipgloss.Color("#e1e2e7"),
	Foreground:    lipgloss.Color("#3760bf"),
	ForegroundDim: lipgloss.Color("#848cb5"),

	Primary: lipgloss.Color("#2e7de9"),
	Accent:  lipgloss.Color("#007197"),

	Success: lipgloss.Color("#587539"),
	Warning: lipgloss.Color("#8c6c3e"),
	Error:   lipgloss.Color("#f52a65"),
	Info:    lipgloss.Color("#2e7de9"),

	Border:      lipgloss.Color("#a8aecb"),
	BorderFocus: lipgloss.Color("#2e7de9"),
	Selection:   lipgloss.Color("#b7c1e3"),
}

// Current holds the active theme
var Current = Dark

// SetTheme switches the active theme by name. Unknown names select Dark.
func SetTheme(name string) {
	if name == Light.Name {
		Current = Light
		return
	}
	Current = Dark
}

// ToggleTheme flips between Dark and Light and returns the new name
func ToggleTheme() string {
	if Current.Name == Dark.Name {
		Current = Light
	} else {
		Current = Dark
	}
	return Current.Name
}

// MaxWidth is the maximum content width for the app (classic terminal width)
const MaxWidth = 80

// ContentWidth returns the actual content width to use (min of terminal width and MaxWidth)
func ContentWidth(terminalWidth int) int {
	if terminalWidth > MaxWidth {
		return MaxWidth
	}
	return terminalWidth
}

// CenterView wraps content and centers it horizontally if terminal is wider than MaxWidth
func CenterView(content string, terminalWidth, terminalHeight int) string {
	if terminalWidth <= MaxWidth {
		return content
	}
	return lipgloss.Place(terminalWidth, terminalHeight,
		lipgloss.Center, lipgloss.Top,
		content,
	)
}

// Clamp returns val clamped between minVal and maxVal
func Clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// Styles holds all the pre-computed styles for the UI
type Styles struct {
	// Title bar
	Title      lipgloss.Style
	TitleMuted lipgloss.Style

	// Dialogs and popups
	Dialog      lipgloss.Style
	DialogTitle lipgloss.Style

	// Buttons
	Button         lipgloss.Style
	ButtonFocused  lipgloss.Style
	ButtonPrimary  lipgloss.Style
	ButtonDisabled lipgloss.Style

	// Input fields
	Input        lipgloss.Style
	InputFocused lipgloss.Style
	Label        lipgloss.Style
	FieldError   lipgloss.Style

	// Task status cells
	Done    lipgloss.Style
	Pending lipgloss.Style

	// Help text
	Help     lipgloss.Style
	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style

	// Status bar
	StatusBar lipgloss.Style
	Spinner   lipgloss.Style

	Table table.Styles

	toast map[notify.Severity]lipgloss.Style
}

// NewStyles creates styles based on the current theme
func NewStyles() *Styles {
	t := Current

	tableStyles := table.DefaultStyles()
	tableStyles.Header = tableStyles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(t.Border).
		BorderBottom(true).
		Foreground(t.Primary).
		Bold(true)
	tableStyles.Cell = tableStyles.Cell.
		Foreground(t.Foreground)
	tableStyles.Selected = tableStyles.Selected.
		Foreground(t.Primary).
		Background(t.Selection).
		Bold(true)

	toastBase := lipgloss.NewStyle().
		Padding(0, 2).
		Bold(true).
		Foreground(t.Background)

	return &Styles{
		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		TitleMuted: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		Dialog: lipgloss.NewStyle().
			Padding(1, 3).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border),

		DialogTitle: lipgloss.NewStyle().
			Foreground(t.Error).
			Bold(true),

		Button: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 2),

		ButtonFocused: lipgloss.NewStyle().
			Foreground(t.Primary).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 2).
			Bold(true),

		ButtonPrimary: lipgloss.NewStyle().
			Foreground(t.Background).
			Background(t.Primary).
			Padding(0, 2).
			Bold(true),

		ButtonDisabled: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 2),

		Input: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		InputFocused: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 1),

		Label: lipgloss.NewStyle().
			Foreground(t.Foreground),

		FieldError: lipgloss.NewStyle().
			Foreground(t.Error),

		Done: lipgloss.NewStyle().
			Foreground(t.Success),

		Pending: lipgloss.NewStyle().
			Foreground(t.Warning),

		Help: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(1, 2),

		HelpKey: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		HelpDesc: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		StatusBar: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(0, 1),

		Spinner: lipgloss.NewStyle().
			Foreground(t.Accent),

		Table: tableStyles,

		toast: map[notify.Severity]lipgloss.Style{
			notify.SeveritySuccess: toastBase.Background(t.Success),
			notify.SeverityInfo:    toastBase.Background(t.Info),
			notify.SeverityWarning: toastBase.Background(t.Warning),
			notify.SeverityError:   toastBase.Background(t.Error),
		},
	}
}

// Toast returns the notification style for a severity
func (s *Styles) Toast(sev notify.Severity) lipgloss.Style {
	if st, ok := s.toast[sev]; ok {
		return st
	}
	return s.toast[notify.SeverityInfo]
}
