package views

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/pm/internal/models"
	"github.com/tgienger/pm/internal/store"
	"github.com/tgienger/pm/internal/ui/keys"
	"github.com/tgienger/pm/internal/ui/styles"
)

// defaultProjectLength is the end date offset for projects created without one
const defaultProjectLength = 30 * 24 * time.Hour

type projectItem struct {
	project models.Project
}

func (i projectItem) Title() string       { return i.project.Name }
func (i projectItem) Description() string { return i.project.Description }
func (i projectItem) FilterValue() string { return i.project.Name }

type projectDelegate struct {
	styles *styles.Styles
	bar    progress.Model
	width  int
}

func (d projectDelegate) Height() int                               { return 2 }
func (d projectDelegate) Spacing() int                              { return 1 }
func (d projectDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d projectDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	p, ok := item.(projectItem)
	if !ok {
		return
	}

	selected := index == m.Index()
	width := max(d.width-4, 20)

	lineStyle := d.styles.ListItem.Width(width)
	if selected {
		lineStyle = d.styles.ListSelected.Width(width)
	}

	status := renderBadge(d.styles, string(p.project.Status), styles.ProjectStatusColor(p.project.Status))
	title := p.project.Name + " " + status

	done := 0
	for _, t := range p.project.Tasks {
		if t.Status == models.TaskDone {
			done++
		}
	}
	summary := fmt.Sprintf("%s  %d/%d tasks", renderProgress(d.bar, p.project.Progress), done, len(p.project.Tasks))
	if !p.project.EndDate.IsZero() {
		summary += "  due " + p.project.EndDate.Format("Jan 2")
	}

	fmt.Fprintf(w, "%s\n%s", lineStyle.Render(title), lineStyle.Foreground(styles.Current.ForegroundDim).Render(summary))
}

type ProjectListView struct {
	store            *store.Store
	list             list.Model
	delegate         *projectDelegate
	styles           *styles.Styles
	keys             keys.KeyMap
	width            int
	height           int
	creating         bool
	loaded           bool
	confirmingDelete bool
	deleteTargetID   string
	deleteTargetName string
	newName          textinput.Model
	newDesc          textinput.Model
	newEnd           textinput.Model
	focusIdx         int // 0=name, 1=desc, 2=end date, 3=confirm
	formErr          string

	// Help popup (shown with ? at narrow widths)
	showHelpPopup bool
}

func NewProjectListView(st *store.Store) *ProjectListView {
	s := styles.NewStyles()

	newName := textinput.New()
	newName.Placeholder = "Project name"
	newName.CharLimit = 100

	newDesc := textinput.New()
	newDesc.Placeholder = "Description (optional)"
	newDesc.CharLimit = 500

	newEnd := textinput.New()
	newEnd.Placeholder = models.DateLayout
	newEnd.CharLimit = len(models.DateLayout)

	delegate := &projectDelegate{styles: s, bar: newProgressBar(20), width: 80}

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Projects"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = s.Title
	l.SetShowHelp(false)

	return &ProjectListView{
		store:    st,
		list:     l,
		delegate: delegate,
		styles:   s,
		keys:     keys.DefaultKeyMap(),
		newName:  newName,
		newDesc:  newDesc,
		newEnd:   newEnd,
	}
}

func (v *ProjectListView) Init() tea.Cmd {
	return v.reload()
}

// reload snapshots the store on the update loop
func (v *ProjectListView) reload() tea.Cmd {
	msg := v.loadProjects()
	return func() tea.Msg { return msg }
}

func (v *ProjectListView) loadProjects() tea.Msg {
	return projectsLoadedMsg{projects: v.store.Projects()}
}

type projectsLoadedMsg struct {
	projects []models.Project
}

func (v *ProjectListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		// Use content width (capped at MaxWidth) for internal layout
		contentWidth := styles.ContentWidth(msg.Width)
		v.delegate.width = contentWidth
		v.delegate.bar.Width = clamp(contentWidth-40, 10, 30)
		v.list.SetSize(contentWidth-4, msg.Height-7)
		return v, nil

	case projectsLoadedMsg:
		items := make([]list.Item, len(msg.projects))
		for i, p := range msg.projects {
			items[i] = projectItem{project: p}
		}
		cmd := v.list.SetItems(items)
		v.loaded = true
		return v, cmd

	case tea.KeyMsg:
		// Handle help popup first - any key closes it
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}

		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}

		if v.creating {
			return v.updateCreating(msg)
		}

		// let the list own keys while the user types a filter
		if v.list.FilterState() == list.Filtering {
			break
		}

		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Back):
			// Only q quits from the project list
			if v.list.FilterState() == list.FilterApplied {
				v.list.ResetFilter()
			}
			return v, nil
		case key.Matches(msg, v.keys.New):
			v.startCreate()
			return v, textinput.Blink
		case key.Matches(msg, v.keys.Team):
			return v, func() tea.Msg { return ShowTeam{} }
		case msg.String() == "?":
			v.showHelpPopup = true
			return v, nil
		case key.Matches(msg, v.keys.Enter):
			if item, ok := v.list.SelectedItem().(projectItem); ok {
				id := item.project.ID
				return v, func() tea.Msg { return SelectedProject{ProjectID: id} }
			}
		case key.Matches(msg, v.keys.Status):
			if item, ok := v.list.SelectedItem().(projectItem); ok {
				next := nextProjectStatus(item.project.Status)
				v.store.UpdateProject(item.project.ID, models.ProjectUpdate{Status: &next})
				return v, v.reload()
			}
		case key.Matches(msg, v.keys.Priority):
			if item, ok := v.list.SelectedItem().(projectItem); ok {
				next := item.project.Priority.Next()
				v.store.UpdateProject(item.project.ID, models.ProjectUpdate{Priority: &next})
				return v, v.reload()
			}
		case key.Matches(msg, v.keys.Delete):
			if item, ok := v.list.SelectedItem().(projectItem); ok {
				v.confirmingDelete = true
				v.deleteTargetID = item.project.ID
				v.deleteTargetName = item.project.Name
				return v, nil
			}
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func nextProjectStatus(s models.ProjectStatus) models.ProjectStatus {
	i := slices.Index(models.ProjectStatuses, s)
	return models.ProjectStatuses[(i+1)%len(models.ProjectStatuses)]
}

func (v *ProjectListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.store.DeleteProject(v.deleteTargetID)
		v.confirmingDelete = false
		return v, v.reload()
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *ProjectListView) startCreate() {
	v.creating = true
	v.focusIdx = 0
	v.formErr = ""
	v.newName.Reset()
	v.newDesc.Reset()
	v.newEnd.Reset()
	v.updateFocus()
}

func (v *ProjectListView) updateCreating(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.creating = false
		return v, nil

	case msg.String() == "ctrl+s":
		return v, v.createProject()

	case msg.String() == "shift+tab":
		v.focusIdx = (v.focusIdx + 3) % 4
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		v.focusIdx = (v.focusIdx + 1) % 4
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.focusIdx < 3 {
			v.focusIdx++
			v.updateFocus()
			return v, nil
		}
		return v, v.createProject()
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case 0:
		v.newName, cmd = v.newName.Update(msg)
	case 1:
		v.newDesc, cmd = v.newDesc.Update(msg)
	case 2:
		v.newEnd, cmd = v.newEnd.Update(msg)
	}
	return v, cmd
}

func (v *ProjectListView) createProject() tea.Cmd {
	name := strings.TrimSpace(v.newName.Value())
	if name == "" {
		v.formErr = "Name is required"
		return nil
	}

	now := time.Now().UTC()
	start := models.NewDate(now.Year(), now.Month(), now.Day())
	end := models.Date{Time: start.Add(defaultProjectLength)}
	if raw := strings.TrimSpace(v.newEnd.Value()); raw != "" {
		parsed, err := models.ParseDate(raw)
		if err != nil {
			v.formErr = "End date must be " + models.DateLayout
			return nil
		}
		end = parsed
	}

	p := models.Project{
		ID:          models.GenerateID(),
		Name:        name,
		Description: strings.TrimSpace(v.newDesc.Value()),
		Status:      models.ProjectPlanning,
		Priority:    models.PriorityMedium,
		StartDate:   start,
		EndDate:     end,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if u := v.store.CurrentUser(); u != nil {
		p.TeamMembers = []string{u.ID}
	}
	v.store.AddProject(p)
	v.creating = false
	return func() tea.Msg { return SelectedProject{ProjectID: p.ID} }
}

func (v *ProjectListView) updateFocus() {
	v.newName.Blur()
	v.newDesc.Blur()
	v.newEnd.Blur()
	switch v.focusIdx {
	case 0:
		v.newName.Focus()
	case 1:
		v.newDesc.Focus()
	case 2:
		v.newEnd.Focus()
	}
}

// View renders the view
func (v *ProjectListView) View() string {
	if v.showHelpPopup {
		return renderHelpPopup(v.styles, v.width, v.height,
			"↵", "open project",
			"n", "new project",
			"space", "cycle status",
			"p", "cycle priority",
			"d", "delete project",
			"u", "team",
			"/", "filter",
			"q", "quit",
		)
	}

	if v.confirmingDelete {
		return renderDeleteConfirm(v.styles, v.width, v.height,
			"Delete Project?", v.deleteTargetName, "Its tasks and time entries are deleted too.")
	}

	if v.creating {
		return v.renderCreateForm()
	}

	if !v.loaded {
		return v.styles.TitleMuted.Render("Loading...")
	}

	if len(v.list.Items()) == 0 {
		return v.renderEmpty()
	}

	content := v.list.View() + "\n" + v.renderHelp()
	return styles.CenterView(content, v.width, v.height)
}

func (v *ProjectListView) renderEmpty() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Render("No Projects"),
		"",
		s.TitleMuted.Render("Press 'n' to create your first project"),
		"",
		s.ButtonPrimary.Render(" New Project "),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *ProjectListView) renderCreateForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	nameStyle := s.Input
	descStyle := s.Input
	endStyle := s.Input
	btnStyle := s.Button

	switch v.focusIdx {
	case 0:
		nameStyle = s.InputFocused
	case 1:
		descStyle = s.InputFocused
	case 2:
		endStyle = s.InputFocused
	case 3:
		btnStyle = s.ButtonFocused
	}

	inputWidth := clamp(contentWidth-6, 20, 50)

	lines := []string{
		s.Title.Render("New Project"),
		"",
		"Name:",
		nameStyle.Width(inputWidth).Render(v.newName.View()),
		"",
		"Description:",
		descStyle.Width(inputWidth).Render(v.newDesc.View()),
		"",
		"End date:",
		endStyle.Width(16).Render(v.newEnd.View()),
		"",
		btnStyle.Render(" Create "),
	}
	if v.formErr != "" {
		lines = append(lines, "", s.Overdue.Render(v.formErr))
	}
	lines = append(lines, "", s.TitleMuted.Render("Tab: next • Ctrl+S: save • Esc: cancel"))

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Left, lines...),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *ProjectListView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	// At narrow widths, show hint to press ? for help
	if contentWidth > 0 && contentWidth < 50 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
	}
	return helpLine(v.styles,
		"↵", "open",
		"n", "new",
		"space", "status",
		"d", "del",
		"u", "team",
		"q", "quit",
	)
}
