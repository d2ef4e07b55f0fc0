// Package notify holds the transient, auto-dismissed status messages shown
// after user actions.
package notify

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DismissAfter is how long a notification stays visible.
const DismissAfter = 3000 * time.Millisecond

// Severity of a notification
type Severity int

const (
	SeveritySuccess Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeveritySuccess:
		return "success"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return "unknown"
}

// Notification is the message currently on screen, if Visible.
type Notification struct {
	Message  string
	Severity Severity
	Visible  bool
}

// DismissMsg is delivered when a notification's timer fires.
type DismissMsg struct {
	owner *Notifier
	seq   int
}

// Notifier owns at most one visible notification. A newer notification
// replaces the current one, and timers of replaced notifications are ignored.
type Notifier struct {
	current Notification
	seq     int
}

// New returns an empty notifier
func New() *Notifier {
	return &Notifier{}
}

// Current returns the notification being shown
func (n *Notifier) Current() Notification {
	return n.current
}

// Show replaces the current notification and returns the command that
// dismisses it after DismissAfter.
func (n *Notifier) Show(message string, severity Severity) tea.Cmd {
	n.seq++
	n.current = Notification{Message: message, Severity: severity, Visible: true}
	seq := n.seq
	return tea.Tick(DismissAfter, func(time.Time) tea.Msg {
		return DismissMsg{owner: n, seq: seq}
	})
}

func (n *Notifier) Success(message string) tea.Cmd { return n.Show(message, SeveritySuccess) }
func (n *Notifier) Info(message string) tea.Cmd    { return n.Show(message, SeverityInfo) }
func (n *Notifier) Warning(message string) tea.Cmd { return n.Show(message, SeverityWarning) }
func (n *Notifier) Error(message string) tea.Cmd   { return n.Show(message, SeverityError) }

// Dismiss hides the notification right away
func (n *Notifier) Dismiss() {
	n.current.Visible = false
}

// Update handles this notifier's DismissMsg and reports whether the
// message was consumed. Timers from other notifiers, such as one belonging
// to a view that was navigated away from, are left alone.
func (n *Notifier) Update(msg tea.Msg) bool {
	m, ok := msg.(DismissMsg)
	if !ok || m.owner != n {
		return false
	}
	if m.seq == n.seq {
		n.current.Visible = false
	}
	return true
}
