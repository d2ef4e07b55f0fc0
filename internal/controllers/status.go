// Package controllers holds the view-independent state of the task list and
// the task form. Network calls run inside tea.Cmds and their results come
// back through Update as messages, so every controller is only ever touched
// from the bubbletea event loop.
package controllers

// Status is the two-phase fetch state a view renders from.
type Status int

const (
	StatusPending Status = iota
	StatusLoaded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusLoaded:
		return "loaded"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}
