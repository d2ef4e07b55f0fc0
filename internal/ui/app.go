package ui

import (
	"slices"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/tgienger/taskui/internal/api"
	"github.com/tgienger/taskui/internal/controllers"
	"github.com/tgienger/taskui/internal/ui/keys"
	"github.com/tgienger/taskui/internal/ui/route"
	"github.com/tgienger/taskui/internal/ui/styles"
	"github.com/tgienger/taskui/internal/ui/views"
)

// Setting keys kept between runs
const (
	SettingTheme    = "theme"
	SettingPageSize = "page_size"
)

// Settings persists small preferences. *db.DB satisfies it.
type Settings interface {
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
}

// Options are the starting preferences, overridden by saved settings
type Options struct {
	PageSize int
	Theme    string
	Route    route.Route
}

// view is what every screen provides to the app
type view interface {
	tea.Model
	Restyle()
}

type App struct {
	svc      api.Service
	settings Settings
	log      logrus.FieldLogger
	keys     keys.KeyMap

	route    route.Route
	current  view
	pageSize int

	width  int
	height int
}

// Creates a new application
func NewApp(svc api.Service, settings Settings, log logrus.FieldLogger, opts Options) *App {
	a := &App{
		svc:      svc,
		settings: settings,
		log:      log,
		keys:     keys.DefaultKeyMap(),
		route:    opts.Route,
		pageSize: opts.PageSize,
	}

	theme := opts.Theme
	if saved, err := settings.GetSetting(SettingTheme); err == nil && saved != "" {
		theme = saved
	}
	styles.SetTheme(theme)

	if saved, err := settings.GetSetting(SettingPageSize); err == nil && saved != "" {
		if n, err := strconv.Atoi(saved); err == nil && slices.Contains(controllers.PageSizes, n) {
			a.pageSize = n
		} else {
			log.WithField("page_size", saved).Warn("ignoring saved page size")
		}
	}

	a.build(opts.Route)
	return a
}

// Route is the view currently shown
func (a *App) Route() route.Route { return a.route }

func (a *App) Init() tea.Cmd {
	return a.initCurrent()
}

// build replaces the current view with a fresh one for r. Unsaved form
// input is discarded.
func (a *App) build(r route.Route) {
	a.route = r
	switch r.Kind {
	case route.Create, route.Edit:
		ctrl := controllers.NewFormController(a.svc, a.log, r.ID)
		a.current = views.NewTaskFormView(ctrl)
	default:
		ctrl := controllers.NewListController(a.svc, a.log, a.pageSize)
		a.current = views.NewTaskListView(ctrl)
	}
}

func (a *App) initCurrent() tea.Cmd {
	// Initialize the view with window size
	return tea.Batch(
		a.current.Init(),
		func() tea.Msg {
			return tea.WindowSizeMsg{Width: a.width, Height: a.height}
		},
	)
}

func (a *App) open(r route.Route) tea.Cmd {
	a.log.WithField("route", r.Path()).Debug("navigating")
	a.build(r)
	return a.initCurrent()
}

func (a *App) setSetting(key, value string) {
	if err := a.settings.SetSetting(key, value); err != nil {
		a.log.WithError(err).WithField("key", key).Warn("saving setting")
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case tea.KeyMsg:
		switch {
		case msg.Type == tea.KeyCtrlC:
			return a, tea.Quit
		case key.Matches(msg, a.keys.Theme):
			a.setSetting(SettingTheme, styles.ToggleTheme())
			a.current.Restyle()
			return a, nil
		}

	case views.NavigateMsg:
		r, err := route.Parse(msg.Path)
		if err != nil {
			a.log.WithError(err).Warn("bad route, showing the task list")
			r = route.ForList()
		}
		return a, a.open(r)

	case controllers.BackToListMsg:
		// the user may already have left the form that saved
		form, ok := a.current.(*views.TaskFormView)
		if !ok || !msg.From(form.Controller()) {
			return a, nil
		}
		return a, a.open(route.ForList())

	case views.PageSizeChangedMsg:
		a.pageSize = msg.Size
		a.setSetting(SettingPageSize, strconv.Itoa(msg.Size))
		return a, nil
	}

	_, cmd := a.current.Update(msg)
	return a, cmd
}

func (a *App) View() string {
	if a.current == nil {
		return ""
	}
	return a.current.View()
}
