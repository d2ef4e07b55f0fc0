package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tgienger/taskui/internal/controllers"
	"github.com/tgienger/taskui/internal/db"
	"github.com/tgienger/taskui/internal/logging"
	"github.com/tgienger/taskui/internal/models"
	"github.com/tgienger/taskui/internal/testutil"
	"github.com/tgienger/taskui/internal/ui/route"
	"github.com/tgienger/taskui/internal/ui/styles"
	"github.com/tgienger/taskui/internal/ui/views"
)

func openSettings(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("db.Open: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	t.Cleanup(func() { styles.SetTheme(styles.Dark.Name) })
	return database
}

// collect runs cmd, expanding batches, and returns every message produced.
// Only use it on commands that return immediately.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, c := range batch {
		out = append(out, collect(c)...)
	}
	return out
}

func hydration(t *testing.T, cmd tea.Cmd) controllers.TaskLoadedMsg {
	t.Helper()
	for _, msg := range collect(cmd) {
		if loaded, ok := msg.(controllers.TaskLoadedMsg); ok {
			return loaded
		}
	}
	t.Fatal("no hydration result")
	return controllers.TaskLoadedMsg{}
}

func currentForm(t *testing.T, a *App) *views.TaskFormView {
	t.Helper()
	form, ok := a.current.(*views.TaskFormView)
	if !ok {
		t.Fatalf("current view is %T", a.current)
	}
	return form
}

// saveAndWait saves the current form and returns the navigation it
// schedules, waiting out the delay.
func saveAndWait(t *testing.T, a *App) tea.Msg {
	t.Helper()
	ctrl := currentForm(t, a).Controller()
	ctrl.SetField(models.FieldTitle, "Saved")
	_, follow := a.Update(ctrl.Submit()())
	if follow == nil {
		t.Fatal("expected commands after a successful save")
	}
	batch, ok := follow().(tea.BatchMsg)
	if !ok || len(batch) != 2 {
		t.Fatalf("follow-up = %#v", batch)
	}
	return batch[1]()
}

func newTestApp(t *testing.T, settings Settings, opts Options) *App {
	t.Helper()
	if opts.PageSize == 0 {
		opts.PageSize = 5
	}
	a := NewApp(testutil.NewFakeService(testutil.Task("1", "A")), settings, logging.Discard(), opts)
	a.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return a
}

func TestNewAppUsesSavedSettings(t *testing.T) {
	settings := openSettings(t)
	settings.SetSetting(SettingTheme, "light")
	settings.SetSetting(SettingPageSize, "25")

	a := newTestApp(t, settings, Options{Theme: "dark", PageSize: 5})
	if styles.Current.Name != "light" {
		t.Errorf("theme = %s", styles.Current.Name)
	}
	if a.pageSize != 25 {
		t.Errorf("page size = %d", a.pageSize)
	}
}

func TestStartRoute(t *testing.T) {
	a := newTestApp(t, openSettings(t), Options{Route: route.ForCreate()})
	if a.Route().Kind != route.Create {
		t.Errorf("route = %v", a.Route().Kind)
	}
	if !strings.Contains(a.View(), "New Task") {
		t.Errorf("view = %q", a.View())
	}
}

func TestNavigation(t *testing.T) {
	a := newTestApp(t, openSettings(t), Options{})
	if a.Route().Kind != route.List {
		t.Fatalf("start route = %v", a.Route().Kind)
	}

	a.Update(views.NavigateMsg{Path: "/edit/1"})
	if a.Route() != route.ForEdit("1") {
		t.Errorf("route = %+v", a.Route())
	}
	if !strings.Contains(a.View(), "Edit Task") {
		t.Error("expected the edit form")
	}

	back := saveAndWait(t, a)
	a.Update(back)
	if a.Route().Kind != route.List {
		t.Errorf("route after save = %v", a.Route().Kind)
	}
	if _, cmd := a.Update(back); cmd != nil {
		t.Error("a late BackToListMsg on the list should be ignored")
	}

	a.Update(views.NavigateMsg{Path: "/nowhere"})
	if a.Route().Kind != route.List {
		t.Errorf("bad route should fall back to the list, got %v", a.Route().Kind)
	}
}

func TestFormStateDiscardedOnNavigation(t *testing.T) {
	a := newTestApp(t, openSettings(t), Options{Route: route.ForCreate()})
	a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("draft")})

	a.Update(views.NavigateMsg{Path: "/"})
	a.Update(views.NavigateMsg{Path: "/create"})
	if strings.Contains(a.View(), "draft") {
		t.Error("a new form should start blank")
	}
}

func TestThemeTogglePersists(t *testing.T) {
	settings := openSettings(t)
	a := newTestApp(t, settings, Options{Theme: "dark"})

	a.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	if got, _ := settings.GetSetting(SettingTheme); got != "light" {
		t.Errorf("saved theme = %q", got)
	}
	a.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	if got, _ := settings.GetSetting(SettingTheme); got != "dark" {
		t.Errorf("saved theme = %q", got)
	}
}

func TestPageSizePersists(t *testing.T) {
	settings := openSettings(t)
	a := newTestApp(t, settings, Options{})

	a.Update(views.PageSizeChangedMsg{Size: controllers.PageSizeAll})
	if got, _ := settings.GetSetting(SettingPageSize); got != "-1" {
		t.Errorf("saved page size = %q", got)
	}

	a.Update(views.NavigateMsg{Path: "/"})
	list, ok := a.current.(*views.TaskListView)
	if !ok {
		t.Fatal("expected the list view")
	}
	if list.Controller().PageSize() != controllers.PageSizeAll {
		t.Errorf("new list page size = %d", list.Controller().PageSize())
	}
}

func TestStaleHydrationIgnoredByNextForm(t *testing.T) {
	svc := testutil.NewFakeService(testutil.Task("1", "TASK ONE"), testutil.Task("2", "Task two"))
	a := NewApp(svc, openSettings(t), logging.Discard(), Options{PageSize: 5})
	a.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	_, cmd := a.Update(views.NavigateMsg{Path: "/edit/1"})
	stale := hydration(t, cmd)
	a.Update(views.NavigateMsg{Path: "/"})
	_, cmd = a.Update(views.NavigateMsg{Path: "/edit/2"})
	fresh := hydration(t, cmd)

	a.Update(stale)
	ctrl := currentForm(t, a).Controller()
	if ctrl.Form().Title != "" || ctrl.Status() != controllers.StatusPending {
		t.Fatalf("form for task 2 took task 1: %+v status=%v", ctrl.Form(), ctrl.Status())
	}
	if strings.Contains(a.View(), "TASK ONE") {
		t.Error("task 1 rendered in the form for task 2")
	}

	a.Update(fresh)
	if ctrl.Form().Title != "Task two" {
		t.Fatalf("title = %q", ctrl.Form().Title)
	}
	_, save := a.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if save == nil {
		t.Fatal("expected the save command")
	}
	a.Update(save())
	stored := svc.Tasks()
	if stored[0].Title != "TASK ONE" || stored[1].Title != "Task two" {
		t.Errorf("stored = %+v", stored)
	}
}

func TestStaleSaveIgnoredByNextForm(t *testing.T) {
	a := newTestApp(t, openSettings(t), Options{Route: route.ForCreate()})
	ctrl := currentForm(t, a).Controller()
	ctrl.SetField(models.FieldTitle, "first")
	stale := ctrl.Submit()()

	a.Update(views.NavigateMsg{Path: "/"})
	a.Update(views.NavigateMsg{Path: "/create"})
	a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("second")})

	if _, cmd := a.Update(stale); cmd != nil {
		t.Error("a save from a closed form must not schedule anything")
	}
	out := a.View()
	if strings.Contains(out, "Task created") {
		t.Error("the new form showed another form's notification")
	}
	if !strings.Contains(out, "second") || a.Route().Kind != route.Create {
		t.Errorf("route=%v view=%q", a.Route().Kind, out)
	}
}

func TestStaleBackToListKeepsNewForm(t *testing.T) {
	a := newTestApp(t, openSettings(t), Options{Route: route.ForCreate()})
	back := saveAndWait(t, a)

	a.Update(views.NavigateMsg{Path: "/"})
	a.Update(views.NavigateMsg{Path: "/create"})
	a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("typing")})

	if _, cmd := a.Update(back); cmd != nil {
		t.Error("navigation scheduled by a closed form should be ignored")
	}
	if a.Route().Kind != route.Create || !strings.Contains(a.View(), "typing") {
		t.Errorf("route=%v", a.Route().Kind)
	}
}

func TestSavedPageSizeMustBeOffered(t *testing.T) {
	for _, saved := range []string{"7", "-3", "abc"} {
		settings := openSettings(t)
		settings.SetSetting(SettingPageSize, saved)
		a := newTestApp(t, settings, Options{PageSize: 10})
		if a.pageSize != 10 {
			t.Errorf("saved %q: page size = %d, want 10", saved, a.pageSize)
		}
	}
}
