package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// TaskID is the backend-assigned identifier of a task. Backends may send it
// as a JSON string or number; the client only ever treats it as opaque text.
type TaskID string

// UnmarshalJSON accepts both quoted and numeric ids
func (id *TaskID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = TaskID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("task id: %w", err)
	}
	*id = TaskID(n.String())
	return nil
}

// MarshalJSON writes canonical integer ids back as numbers so they
// round-trip. Anything else, "007" included, is written as a string.
func (id TaskID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// String returns the id as text
func (id TaskID) String() string { return string(id) }

// Task represents a single task as owned by the backend.
// Optional fields are pointers so an absent field can be told apart from an empty one.
type Task struct {
	ID          TaskID  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
	IsCompleted *bool   `json:"is_completed,omitempty"`
}

// DescriptionText returns the description or "" when absent
func (t Task) DescriptionText() string {
	if t.Description == nil {
		return ""
	}
	return *t.Description
}

// DueDateText returns the due date or "" when absent
func (t Task) DueDateText() string {
	if t.DueDate == nil {
		return ""
	}
	return *t.DueDate
}

// Completed reports the completion flag, false when absent
func (t Task) Completed() bool {
	return t.IsCompleted != nil && *t.IsCompleted
}

// Due parses the due date as a calendar date. Timestamps are accepted and
// truncated to their date part.
func (t Task) Due() (time.Time, bool) {
	s := t.DueDateText()
	if len(s) < len(time.DateOnly) {
		return time.Time{}, false
	}
	d, err := time.Parse(time.DateOnly, s[:len(time.DateOnly)])
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// FormState is the editable draft of a task that has not been persisted yet.
// It is also the request body for create and update calls.
type FormState struct {
	Title       string `json:"title" validate:"notblank"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	IsCompleted bool   `json:"is_completed"`
}

// FormStateFromTask copies a task's editable fields, normalising absent
// optional fields to "" and false.
func FormStateFromTask(t Task) FormState {
	return FormState{
		Title:       t.Title,
		Description: t.DescriptionText(),
		DueDate:     t.DueDateText(),
		IsCompleted: t.Completed(),
	}
}

// Field names a FormState field by its wire name
type Field string

const (
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
	FieldDueDate     Field = "due_date"
	FieldIsCompleted Field = "is_completed"
)

// Set assigns one field from its text value. is_completed accepts any
// value strconv.ParseBool understands.
func (f *FormState) Set(field Field, value string) error {
	switch field {
	case FieldTitle:
		f.Title = value
	case FieldDescription:
		f.Description = value
	case FieldDueDate:
		f.DueDate = value
	case FieldIsCompleted:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("is_completed: %w", err)
		}
		f.IsCompleted = b
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	return nil
}
