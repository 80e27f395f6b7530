package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/tgienger/pm/internal/store"
	"github.com/tgienger/pm/internal/ui/styles"
	"github.com/tgienger/pm/internal/ui/views"
)

// LastProjectKey is the slot remembering the project that was open on exit
const LastProjectKey = "ui.last_project_id"

// Currently active view
type View int

const (
	ViewProjects View = iota
	ViewTasks
	ViewTeam
)

type App struct {
	store       *store.Store
	prefs       store.Slot
	log         zerolog.Logger
	styles      *styles.Styles
	currentView View
	projectList *views.ProjectListView
	taskList    *views.TaskListView
	team        *views.TeamView
	width       int
	height      int
}

// Creates a new application. prefs holds UI preferences and may be the same
// storage the store persists to.
func NewApp(st *store.Store, prefs store.Slot, log zerolog.Logger) *App {
	return &App{
		store:       st,
		prefs:       prefs,
		log:         log,
		styles:      styles.NewStyles(),
		currentView: ViewProjects,
		projectList: views.NewProjectListView(st),
	}
}

func (a *App) Init() tea.Cmd {
	lastProjectID, err := a.prefs.GetSlot(LastProjectKey)
	if err != nil {
		a.log.Warn().Err(err).Msg("failed to read last project")
	}
	if lastProjectID != "" {
		if _, ok := a.store.Project(lastProjectID); ok {
			return a.openProject(lastProjectID)
		}
	}
	return a.projectList.Init()
}

func (a *App) setLastProject(id string) {
	if err := a.prefs.SetSlot(LastProjectKey, id); err != nil {
		a.log.Warn().Err(err).Msg("failed to save last project")
	}
}

func (a *App) resize() tea.Cmd {
	w, h := a.width, a.contentHeight()
	return func() tea.Msg {
		return tea.WindowSizeMsg{Width: w, Height: h}
	}
}

// contentHeight leaves a row for the status line
func (a *App) contentHeight() int {
	return max(a.height-1, 0)
}

func (a *App) openProject(id string) tea.Cmd {
	a.currentView = ViewTasks
	a.taskList = views.NewTaskListView(a.store, id)
	a.setLastProject(id)

	return tea.Batch(a.taskList.Init(), a.resize())
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		inner := tea.WindowSizeMsg{Width: msg.Width, Height: a.contentHeight()}
		// Always update project list size since it persists
		a.projectList.Update(inner)
		var cmd tea.Cmd
		switch a.currentView {
		case ViewTasks:
			_, cmd = a.taskList.Update(inner)
		case ViewTeam:
			_, cmd = a.team.Update(inner)
		}
		return a, cmd

	case views.SelectedProject:
		return a, a.openProject(msg.ProjectID)

	case views.BackToProjects:
		a.currentView = ViewProjects
		a.setLastProject("")
		return a, tea.Batch(a.projectList.Init(), a.resize())

	case views.ShowTeam:
		a.currentView = ViewTeam
		a.team = views.NewTeamView(a.store)
		return a, tea.Batch(a.team.Init(), a.resize())
	}

	var cmd tea.Cmd
	switch a.currentView {
	case ViewProjects:
		_, cmd = a.projectList.Update(msg)
	case ViewTasks:
		_, cmd = a.taskList.Update(msg)
	case ViewTeam:
		_, cmd = a.team.Update(msg)
	}

	return a, cmd
}

func (a *App) View() string {
	var body string
	switch {
	case a.currentView == ViewTasks && a.taskList != nil:
		body = a.taskList.View()
	case a.currentView == ViewTeam && a.team != nil:
		body = a.team.View()
	default:
		body = a.projectList.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, a.statusLine())
}

func (a *App) statusLine() string {
	user := "no current user (u to pick one)"
	if u := a.store.CurrentUser(); u != nil {
		user = "signed in as " + u.Name
	}

	st := a.store.PersistStatus()
	switch {
	case st.LastError != nil:
		return a.styles.StatusBarError.Render(fmt.Sprintf("%s · not saved: %v", user, st.LastError))
	case st.Dirty:
		return a.styles.StatusBarError.Render(user + " · unsaved changes")
	case !st.LastPersistedAt.IsZero():
		return a.styles.StatusBar.Render(fmt.Sprintf("%s · saved %s", user, st.LastPersistedAt.Local().Format("15:04:05")))
	}
	return a.styles.StatusBar.Render(user)
}
