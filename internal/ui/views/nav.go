package views

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/taskui/internal/notify"
	"github.com/tgienger/taskui/internal/ui/styles"
)

// NavigateMsg asks the app to open the view for Path
type NavigateMsg struct {
	Path string
}

// Navigate returns a command that emits NavigateMsg
func Navigate(path string) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Path: path} }
}

// PageSizeChangedMsg reports a new rows-per-page choice so it can be kept
// for the next run.
type PageSizeChangedMsg struct {
	Size int
}

// renderToast draws the visible notification, or an empty line
func renderToast(s *styles.Styles, n notify.Notification) string {
	if !n.Visible {
		return ""
	}
	return s.Toast(n.Severity).Render(n.Message)
}

// renderHelpItems joins key/description pairs into one help line
func renderHelpItems(s *styles.Styles, pairs ...string) string {
	var parts []string
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, s.HelpKey.Render(pairs[i])+" "+pairs[i+1])
	}
	return s.Help.Render(strings.Join(parts, " • "))
}

// placeCenter centers content in the usable area
func placeCenter(content string, width, height int) string {
	contentWidth := styles.ContentWidth(width)
	centered := lipgloss.Place(contentWidth, height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, width, height)
}
