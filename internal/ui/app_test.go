package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/tgienger/pm/internal/models"
	"github.com/tgienger/pm/internal/store"
	"github.com/tgienger/pm/internal/ui/views"
)

type mapSlot struct {
	values   map[string]string
	writeErr error
}

func newMapSlot() *mapSlot { return &mapSlot{values: make(map[string]string)} }

func (m *mapSlot) GetSlot(key string) (string, error) { return m.values[key], nil }

func (m *mapSlot) SetSlot(key, value string) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.values[key] = value
	return nil
}

func newTestApp(t *testing.T) (*App, *store.Store, *mapSlot) {
	t.Helper()
	slot := newMapSlot()
	st := store.New(slot)
	st.AddProject(models.Project{
		ID:        "p1",
		Name:      "Website",
		Status:    models.ProjectPlanning,
		Priority:  models.PriorityMedium,
		StartDate: models.NewDate(2026, time.January, 1),
		EndDate:   models.NewDate(2026, time.February, 1),
	})
	return NewApp(st, slot, zerolog.Nop()), st, slot
}

func TestInitRestoresLastProject(t *testing.T) {
	app, _, slot := newTestApp(t)
	slot.values[LastProjectKey] = "p1"

	app.Init()
	if app.currentView != ViewTasks {
		t.Errorf("currentView = %v, want %v", app.currentView, ViewTasks)
	}
	if app.taskList == nil {
		t.Fatal("taskList not created")
	}
}

func TestInitIgnoresDeletedLastProject(t *testing.T) {
	app, _, slot := newTestApp(t)
	slot.values[LastProjectKey] = "gone"

	app.Init()
	if app.currentView != ViewProjects {
		t.Errorf("currentView = %v, want %v", app.currentView, ViewProjects)
	}
}

func TestNavigation(t *testing.T) {
	app, _, slot := newTestApp(t)
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	app.Update(views.SelectedProject{ProjectID: "p1"})
	if app.currentView != ViewTasks {
		t.Fatalf("currentView = %v, want %v", app.currentView, ViewTasks)
	}
	if got := slot.values[LastProjectKey]; got != "p1" {
		t.Errorf("last project = %q, want %q", got, "p1")
	}

	app.Update(views.BackToProjects{})
	if app.currentView != ViewProjects {
		t.Errorf("currentView = %v, want %v", app.currentView, ViewProjects)
	}
	if got := slot.values[LastProjectKey]; got != "" {
		t.Errorf("last project = %q, want empty", got)
	}

	app.Update(views.ShowTeam{})
	if app.currentView != ViewTeam {
		t.Errorf("currentView = %v, want %v", app.currentView, ViewTeam)
	}
	if app.team == nil {
		t.Fatal("team view not created")
	}
}

func TestStatusLine(t *testing.T) {
	app, st, slot := newTestApp(t)

	if got := app.statusLine(); !strings.Contains(got, "no current user") {
		t.Errorf("statusLine() = %q, want no current user", got)
	}

	st.AddPerson(models.Person{ID: "u1", Name: "Ada"})
	ada, _ := st.Person("u1")
	st.SetCurrentUser(&ada)
	got := app.statusLine()
	if !strings.Contains(got, "signed in as Ada") {
		t.Errorf("statusLine() = %q, want current user", got)
	}
	if !strings.Contains(got, "saved") {
		t.Errorf("statusLine() = %q, want saved time", got)
	}

	slot.writeErr = errors.New("disk full")
	st.DeletePerson("u1")
	if got := app.statusLine(); !strings.Contains(got, "disk full") {
		t.Errorf("statusLine() = %q, want persist error", got)
	}
}

func TestTeamEditRenamesCurrentUser(t *testing.T) {
	app, st, _ := newTestApp(t)
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	app.Update(views.ShowTeam{})
	app.Update(app.team.Init()())

	deliver := func(msg tea.Msg) {
		if _, cmd := app.Update(msg); cmd != nil {
			if next := cmd(); next != nil {
				app.Update(next)
			}
		}
	}
	deliver(tea.KeyMsg{Type: tea.KeyEnter})
	if u := st.CurrentUser(); u == nil || u.ID != "1" {
		t.Fatalf("CurrentUser() = %+v, want person 1", u)
	}

	deliver(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	deliver(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(" Jr")})
	deliver(tea.KeyMsg{Type: tea.KeyCtrlS})

	if got := app.statusLine(); !strings.Contains(got, "signed in as Alex Johnson Jr") {
		t.Errorf("statusLine() = %q, want the edited name", got)
	}
	if p, _ := st.Person("1"); p.Name != "Alex Johnson Jr" {
		t.Errorf("person name = %q, want %q", p.Name, "Alex Johnson Jr")
	}
}
