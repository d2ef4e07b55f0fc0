// Package route maps the app's paths to views. There are three: the task
// list at "/", the create form at "/create" and the edit form at
// "/edit/{id}".
package route

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tgienger/taskui/internal/models"
)

// Kind identifies a view
type Kind int

const (
	List Kind = iota
	Create
	Edit
)

func (k Kind) String() string {
	switch k {
	case List:
		return "list"
	case Create:
		return "create"
	case Edit:
		return "edit"
	}
	return "unknown"
}

// Route is a parsed path. ID is set only for Edit.
type Route struct {
	Kind Kind
	ID   models.TaskID
}

const (
	ListPath   = "/"
	CreatePath = "/create"
	editPrefix = "/edit/"
)

// ForList is the task list
func ForList() Route { return Route{Kind: List} }

// ForCreate is the blank form
func ForCreate() Route { return Route{Kind: Create} }

// ForEdit is the form for an existing task
func ForEdit(id models.TaskID) Route { return Route{Kind: Edit, ID: id} }

// EditPath is the path of the edit form for id
func EditPath(id models.TaskID) string { return ForEdit(id).Path() }

// Parse reads a path. An empty path is the list.
func Parse(path string) (Route, error) {
	p := strings.TrimSpace(path)
	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}
	switch {
	case p == "" || p == ListPath:
		return ForList(), nil
	case p == CreatePath:
		return ForCreate(), nil
	case strings.HasPrefix(p, editPrefix):
		raw := strings.TrimPrefix(p, editPrefix)
		id, err := url.PathUnescape(raw)
		if err != nil {
			return Route{}, fmt.Errorf("route %q: %w", path, err)
		}
		if id == "" {
			return Route{}, fmt.Errorf("route %q: missing task id", path)
		}
		return ForEdit(models.TaskID(id)), nil
	}
	return Route{}, fmt.Errorf("unknown route %q", path)
}

// Path renders the route back to its path
func (r Route) Path() string {
	switch r.Kind {
	case Create:
		return CreatePath
	case Edit:
		return editPrefix + url.PathEscape(r.ID.String())
	}
	return ListPath
}
