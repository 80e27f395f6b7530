package views

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
	"github.com/tgienger/pm/internal/models"
	"github.com/tgienger/pm/internal/store"
	"github.com/tgienger/pm/internal/ui/keys"
	"github.com/tgienger/pm/internal/ui/styles"
)

// FocusArea represents which part of the UI has focus
type FocusArea int

const (
	FocusBackButton FocusArea = iota
	FocusSearchInput
	FocusPriorityDropdown
	FocusTaskList
)

// edit form fields, in tab order
const (
	editFieldTitle = iota
	editFieldDesc
	editFieldHours
	editFieldDue
	editFieldAssignees
	editFieldSave
	editFieldCount
)

// TaskListView shows tasks for a project
type TaskListView struct {
	store     *store.Store
	projectID string
	project   models.Project
	tasks     []models.Task
	people    []models.Person
	styles    *styles.Styles
	keys      keys.KeyMap
	bar       progress.Model

	width  int
	height int

	// UI state
	focus            FocusArea
	cursor           int
	scrollY          int
	searchInput      textinput.Model
	selectedPriority *models.Priority // nil = no filter
	notice           string

	// Priority dropdown state
	dropdownOpen   bool
	dropdownCursor int

	// Task creation/editing
	editing       bool
	editingNew    bool
	editTaskID    string
	editTitle     textinput.Model
	editDesc      textarea.Model
	editHours     textinput.Model
	editDue       textinput.Model
	editFocusIdx  int
	editAssignees []string
	editPeopleIdx int
	editErr       string

	// Time logging
	loggingTime bool
	logHours    textinput.Model
	logBillable bool

	// Task view mode (read-only detail view)
	viewingTask bool

	// Delete confirmation
	confirmingDelete bool
	deleteTargetID   string
	deleteTargetName string

	// Show completed tasks mode
	showingCompleted bool

	// Help popup (shown with ? at narrow widths)
	showHelpPopup bool
}

// NewTaskListView creates a new task list view
func NewTaskListView(st *store.Store, projectID string) *TaskListView {
	s := styles.NewStyles()

	search := textinput.New()
	search.Placeholder = "Search..."
	search.CharLimit = 100

	editTitle := textinput.New()
	editTitle.Placeholder = "Task title"
	editTitle.CharLimit = 200

	editDesc := textarea.New()
	editDesc.Placeholder = "Description"
	editDesc.CharLimit = 1000
	editDesc.SetWidth(50)
	editDesc.SetHeight(3)
	editDesc.ShowLineNumbers = false

	editHours := textinput.New()
	editHours.Placeholder = "0"
	editHours.CharLimit = 6

	editDue := textinput.New()
	editDue.Placeholder = models.DateLayout
	editDue.CharLimit = len(models.DateLayout)

	logHours := textinput.New()
	logHours.Placeholder = "1.5"
	logHours.CharLimit = 6

	return &TaskListView{
		store:       st,
		projectID:   projectID,
		styles:      s,
		keys:        keys.DefaultKeyMap(),
		bar:         newProgressBar(30),
		focus:       FocusTaskList,
		searchInput: search,
		editTitle:   editTitle,
		editDesc:    editDesc,
		editHours:   editHours,
		editDue:     editDue,
		logHours:    logHours,
	}
}

// Init initializes the view
func (v *TaskListView) Init() tea.Cmd {
	return v.reload()
}

type tasksLoadedMsg struct {
	project models.Project
	tasks   []models.Task
	people  []models.Person
	keepID  string
}

// taskSource feeds task titles and tags to the fuzzy matcher
type taskSource []models.Task

func (s taskSource) String(i int) string {
	return s[i].Title + " " + strings.Join(s[i].Tags, " ")
}

func (s taskSource) Len() int { return len(s) }

// reload reads the store now and delivers the result as a message; the
// store must not be touched from command goroutines
func (v *TaskListView) reload() tea.Cmd {
	msg := v.loadTasks()
	return func() tea.Msg { return msg }
}

func (v *TaskListView) loadTasks() tea.Msg {
	project, ok := v.store.Project(v.projectID)
	if !ok {
		return BackToProjects{}
	}

	tasks := make([]models.Task, 0, len(project.Tasks))
	for _, t := range project.Tasks {
		if (t.Status == models.TaskDone) != v.showingCompleted {
			continue
		}
		if v.selectedPriority != nil && t.Priority != *v.selectedPriority {
			continue
		}
		tasks = append(tasks, t)
	}

	if search := strings.TrimSpace(v.searchInput.Value()); search != "" {
		matches := fuzzy.FindFrom(search, taskSource(tasks))
		found := make([]models.Task, len(matches))
		for i, m := range matches {
			found[i] = tasks[m.Index]
		}
		tasks = found
	}

	return tasksLoadedMsg{project: project, tasks: tasks, people: v.store.People()}
}

func (v *TaskListView) selectedTask() (models.Task, bool) {
	if v.cursor < 0 || v.cursor >= len(v.tasks) {
		return models.Task{}, false
	}
	return v.tasks[v.cursor], true
}

// Update handles messages
func (v *TaskListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(v.width)
		v.editDesc.SetWidth(clamp(contentWidth-10, 20, 50))
		v.bar.Width = clamp(contentWidth-20, 10, 40)
		return v, nil

	case tasksLoadedMsg:
		v.project = msg.project
		v.tasks = msg.tasks
		v.people = msg.people
		for i, t := range v.tasks {
			if msg.keepID != "" && t.ID == msg.keepID {
				v.cursor = i
			}
		}
		if v.cursor >= len(v.tasks) {
			v.cursor = max(0, len(v.tasks)-1)
		}
		if len(v.tasks) == 0 {
			v.viewingTask = false
		}
		return v, nil

	case tea.KeyMsg:
		// Handle help popup first - any key closes it
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}

		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}

		if v.editing {
			return v.updateEditing(msg)
		}

		if v.loggingTime {
			return v.updateLoggingTime(msg)
		}

		if v.viewingTask {
			return v.updateViewingTask(msg)
		}

		if v.dropdownOpen {
			return v.updateDropdown(msg)
		}

		v.notice = ""
		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *TaskListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle search input typing first - don't process hotkeys while typing
	if v.focus == FocusSearchInput {
		switch {
		case key.Matches(msg, v.keys.Back):
			v.searchInput.Blur()
			v.focus = FocusTaskList
			return v, nil
		case key.Matches(msg, v.keys.Enter):
			v.searchInput.Blur()
			v.focus = FocusTaskList
			return v, v.reload()
		default:
			var cmd tea.Cmd
			v.searchInput, cmd = v.searchInput.Update(msg)
			return v, tea.Batch(cmd, v.reload())
		}
	}

	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		return v, func() tea.Msg { return BackToProjects{} }

	case key.Matches(msg, v.keys.Tab):
		v.cycleFocus(1)
		return v, nil

	case msg.String() == "shift+tab":
		v.cycleFocus(-1)
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.focus == FocusTaskList && v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.focus == FocusTaskList && v.cursor < len(v.tasks)-1 {
			v.cursor++
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		switch v.focus {
		case FocusBackButton:
			return v, func() tea.Msg { return BackToProjects{} }
		case FocusPriorityDropdown:
			v.dropdownOpen = true
			v.dropdownCursor = 0
			return v, nil
		case FocusTaskList:
			if len(v.tasks) > 0 {
				v.viewingTask = true
			}
		}
		return v, nil

	case key.Matches(msg, v.keys.Status):
		if task, ok := v.selectedTask(); ok && v.focus == FocusTaskList {
			next := task.Status.Next()
			v.store.UpdateTask(v.projectID, task.ID, models.TaskUpdate{Status: &next})
			return v, v.reload()
		}
		return v, nil

	case key.Matches(msg, v.keys.Priority):
		if task, ok := v.selectedTask(); ok && v.focus == FocusTaskList {
			next := task.Priority.Next()
			v.store.UpdateTask(v.projectID, task.ID, models.TaskUpdate{Priority: &next})
			return v, v.reload()
		}
		return v, nil

	case key.Matches(msg, v.keys.Edit):
		if task, ok := v.selectedTask(); ok && v.focus == FocusTaskList {
			v.startEditTask(task)
			return v, textinput.Blink
		}
		return v, nil

	case key.Matches(msg, v.keys.New):
		v.startNewTask()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Delete):
		if task, ok := v.selectedTask(); ok && v.focus == FocusTaskList {
			v.confirmDelete(task)
		}
		return v, nil

	case msg.String() == "t":
		if task, ok := v.selectedTask(); ok && v.focus == FocusTaskList {
			return v, v.startLogTime(task)
		}
		return v, nil

	case key.Matches(msg, v.keys.Search):
		v.focus = FocusSearchInput
		v.searchInput.Focus()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Filter):
		v.focus = FocusPriorityDropdown
		v.dropdownOpen = true
		v.dropdownCursor = 0
		return v, nil

	case msg.String() == "?":
		v.showHelpPopup = true
		return v, nil

	case key.Matches(msg, v.keys.ShowCompleted):
		v.showingCompleted = !v.showingCompleted
		v.cursor = 0
		v.scrollY = 0
		return v, v.reload()
	}

	return v, nil
}

func (v *TaskListView) updateDropdown(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.dropdownOpen = false
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.dropdownCursor > 0 {
			v.dropdownCursor--
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.dropdownCursor < len(models.Priorities) { // +1 for "All" option
			v.dropdownCursor++
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.dropdownCursor == 0 {
			v.selectedPriority = nil
		} else {
			p := models.Priorities[v.dropdownCursor-1]
			v.selectedPriority = &p
		}
		v.dropdownOpen = false
		v.cursor = 0
		v.scrollY = 0
		return v, v.reload()
	}

	return v, nil
}

func (v *TaskListView) confirmDelete(task models.Task) {
	v.confirmingDelete = true
	v.deleteTargetID = task.ID
	v.deleteTargetName = task.Title
}

func (v *TaskListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.store.DeleteTask(v.projectID, v.deleteTargetID)
		v.confirmingDelete = false
		v.viewingTask = false
		return v, v.reload()
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *TaskListView) updateViewingTask(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	task, ok := v.selectedTask()
	if !ok {
		v.viewingTask = false
		return v, nil
	}

	switch {
	case key.Matches(msg, v.keys.Back):
		v.viewingTask = false
		return v, nil
	case key.Matches(msg, v.keys.Edit):
		v.viewingTask = false
		v.startEditTask(task)
		return v, textinput.Blink
	case key.Matches(msg, v.keys.Delete):
		v.confirmDelete(task)
		return v, nil
	case key.Matches(msg, v.keys.Status):
		next := task.Status.Next()
		v.store.UpdateTask(v.projectID, task.ID, models.TaskUpdate{Status: &next})
		// keep the task on screen even when it moves out of the current list
		v.showingCompleted = next == models.TaskDone
		return v, v.reloadKeeping(task.ID)
	case msg.String() == "t":
		return v, v.startLogTime(task)
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit
	}
	return v, nil
}

// reloadKeeping reloads the list and moves the cursor back onto taskID
func (v *TaskListView) reloadKeeping(taskID string) tea.Cmd {
	msg := v.loadTasks()
	if loaded, ok := msg.(tasksLoadedMsg); ok {
		loaded.keepID = taskID
		msg = loaded
	}
	return func() tea.Msg { return msg }
}

func (v *TaskListView) startLogTime(task models.Task) tea.Cmd {
	if v.store.CurrentUser() == nil {
		v.notice = "Pick yourself in the team view (u) before logging time"
		v.viewingTask = false
		return func() tea.Msg { return ShowTeam{} }
	}
	v.loggingTime = true
	v.logBillable = true
	v.logHours.Reset()
	v.logHours.Focus()
	v.editTaskID = task.ID
	v.editErr = ""
	return textinput.Blink
}

func (v *TaskListView) updateLoggingTime(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.loggingTime = false
		v.logHours.Blur()
		return v, nil
	case msg.String() == "ctrl+b":
		v.logBillable = !v.logBillable
		return v, nil
	case key.Matches(msg, v.keys.Enter):
		hours, ok := parseHours(v.logHours.Value())
		if !ok || hours == 0 {
			v.editErr = "Hours must be a positive number"
			return v, nil
		}
		user := v.store.CurrentUser()
		task, ok := v.store.Task(v.projectID, v.editTaskID)
		if user == nil || !ok {
			v.loggingTime = false
			return v, v.reload()
		}

		now := time.Now().UTC()
		v.store.AddTimeEntry(models.TimeEntry{
			ID:          models.GenerateID(),
			PersonID:    user.ID,
			ProjectID:   v.projectID,
			TaskID:      task.ID,
			Hours:       hours,
			Date:        models.NewDate(now.Year(), now.Month(), now.Day()),
			Description: task.Title,
			Billable:    v.logBillable,
		})
		actual := task.ActualHours + hours
		v.store.UpdateTask(v.projectID, task.ID, models.TaskUpdate{ActualHours: &actual})

		v.loggingTime = false
		v.logHours.Blur()
		v.notice = fmt.Sprintf("Logged %gh on %q", hours, task.Title)
		return v, v.reload()
	}

	var cmd tea.Cmd
	v.logHours, cmd = v.logHours.Update(msg)
	return v, cmd
}

func (v *TaskListView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.editing = false
		return v, nil

	case msg.String() == "ctrl+s":
		return v, v.saveTask()

	case key.Matches(msg, v.keys.Tab):
		v.editFocusIdx = (v.editFocusIdx + 1) % editFieldCount
		v.updateEditFocus()
		return v, nil

	case msg.String() == "shift+tab":
		v.editFocusIdx = (v.editFocusIdx + editFieldCount - 1) % editFieldCount
		v.updateEditFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		switch v.editFocusIdx {
		case editFieldTitle, editFieldHours, editFieldDue:
			v.editFocusIdx++
			v.updateEditFocus()
			return v, nil
		case editFieldAssignees:
			v.toggleEditAssignee()
			return v, nil
		case editFieldSave:
			return v, v.saveTask()
		}
		// For the description textarea, let enter pass through for newlines

	case msg.String() == " ":
		if v.editFocusIdx == editFieldAssignees {
			v.toggleEditAssignee()
			return v, nil
		}

	case key.Matches(msg, v.keys.Up):
		if v.editFocusIdx == editFieldAssignees && v.editPeopleIdx > 0 {
			v.editPeopleIdx--
			return v, nil
		}

	case key.Matches(msg, v.keys.Down):
		if v.editFocusIdx == editFieldAssignees && v.editPeopleIdx < len(v.people)-1 {
			v.editPeopleIdx++
			return v, nil
		}
	}

	var cmd tea.Cmd
	switch v.editFocusIdx {
	case editFieldTitle:
		v.editTitle, cmd = v.editTitle.Update(msg)
	case editFieldDesc:
		v.editDesc, cmd = v.editDesc.Update(msg)
	case editFieldHours:
		v.editHours, cmd = v.editHours.Update(msg)
	case editFieldDue:
		v.editDue, cmd = v.editDue.Update(msg)
	}
	return v, cmd
}

// toggleEditAssignee toggles the person under the cursor in the edit form
func (v *TaskListView) toggleEditAssignee() {
	if v.editPeopleIdx >= len(v.people) {
		return
	}
	id := v.people[v.editPeopleIdx].ID
	if i := slices.Index(v.editAssignees, id); i >= 0 {
		v.editAssignees = slices.Delete(v.editAssignees, i, i+1)
		return
	}
	v.editAssignees = append(v.editAssignees, id)
}

func (v *TaskListView) cycleFocus(dir int) {
	v.searchInput.Blur()
	v.focus = FocusArea((int(v.focus) + dir + 4) % 4)
	if v.focus == FocusSearchInput {
		v.searchInput.Focus()
	}
}

func (v *TaskListView) visibleItems() int {
	// Each task item is 2 lines + 1 margin, below a header with progress
	availableHeight := max(v.height-14, 3)
	return max(availableHeight/3, 1)
}

func (v *TaskListView) ensureVisible() {
	visible := v.visibleItems()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visible {
		v.scrollY = v.cursor - visible + 1
	}
}

func (v *TaskListView) resetEditForm() {
	v.editing = true
	v.editFocusIdx = editFieldTitle
	v.editPeopleIdx = 0
	v.editErr = ""
	v.editTitle.Reset()
	v.editDesc.Reset()
	v.editHours.Reset()
	v.editDue.Reset()
}

func (v *TaskListView) startNewTask() {
	v.resetEditForm()
	v.editingNew = true
	v.editTaskID = ""
	v.editAssignees = []string{}
	if u := v.store.CurrentUser(); u != nil {
		v.editAssignees = append(v.editAssignees, u.ID)
	}
	v.updateEditFocus()
}

func (v *TaskListView) startEditTask(task models.Task) {
	v.resetEditForm()
	v.editingNew = false
	v.editTaskID = task.ID
	v.editAssignees = slices.Clone([]string(task.AssignedTo))
	v.editTitle.SetValue(task.Title)
	v.editDesc.SetValue(task.Description)
	if task.EstimatedHours > 0 {
		v.editHours.SetValue(strconv.FormatFloat(task.EstimatedHours, 'f', -1, 64))
	}
	if task.DueDate != nil {
		v.editDue.SetValue(task.DueDate.Format(models.DateLayout))
	}
	v.updateEditFocus()
}

func (v *TaskListView) updateEditFocus() {
	v.editTitle.Blur()
	v.editDesc.Blur()
	v.editHours.Blur()
	v.editDue.Blur()

	switch v.editFocusIdx {
	case editFieldTitle:
		v.editTitle.Focus()
	case editFieldDesc:
		v.editDesc.Focus()
	case editFieldHours:
		v.editHours.Focus()
	case editFieldDue:
		v.editDue.Focus()
	}
}

func (v *TaskListView) saveTask() tea.Cmd {
	title := strings.TrimSpace(v.editTitle.Value())
	if title == "" {
		v.editErr = "Title is required"
		return nil
	}

	var hours float64
	if raw := strings.TrimSpace(v.editHours.Value()); raw != "" {
		h, ok := parseHours(raw)
		if !ok {
			v.editErr = "Estimate must be a number of hours"
			return nil
		}
		hours = h
	}

	var due *models.Date
	if raw := strings.TrimSpace(v.editDue.Value()); raw != "" {
		d, err := models.ParseDate(raw)
		if err != nil {
			v.editErr = "Due date must be " + models.DateLayout
			return nil
		}
		due = &d
	}

	desc := strings.TrimSpace(v.editDesc.Value())
	assignees := models.Assignees(slices.Clone(v.editAssignees))

	if v.editingNew {
		v.store.AddTask(v.projectID, models.Task{
			ID:             models.GenerateID(),
			Title:          title,
			Description:    desc,
			Status:         models.TaskTodo,
			Priority:       models.PriorityMedium,
			AssignedTo:     assignees,
			EstimatedHours: hours,
			DueDate:        due,
			CreatedAt:      time.Now().UTC(),
		})
	} else {
		v.store.UpdateTask(v.projectID, v.editTaskID, models.TaskUpdate{
			Title:          &title,
			Description:    &desc,
			AssignedTo:     assignees,
			EstimatedHours: &hours,
			DueDate:        due,
			ClearDueDate:   due == nil,
		})
	}

	v.editing = false
	return v.reload()
}

// View renders the view
func (v *TaskListView) View() string {
	if v.showHelpPopup {
		return renderHelpPopup(v.styles, v.width, v.height,
			"↵", "view task",
			"space", "cycle status",
			"p", "cycle priority",
			"e", "edit task",
			"n", "new task",
			"d", "delete task",
			"t", "log time",
			"/", "search",
			"f", "filter by priority",
			"c", v.completedLabel(),
			"esc", "back",
			"q", "quit",
		)
	}

	if v.confirmingDelete {
		return renderDeleteConfirm(v.styles, v.width, v.height, "Delete Task?", v.deleteTargetName, "")
	}

	if v.editing {
		return v.renderEditForm()
	}

	if v.loggingTime {
		return v.renderLogTime()
	}

	if v.viewingTask {
		return v.renderTaskView()
	}

	var b strings.Builder
	b.WriteString(v.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(v.renderTaskList())
	b.WriteString("\n")
	if v.notice != "" {
		b.WriteString(v.styles.StatusBar.Render(v.notice))
		b.WriteString("\n")
	}
	b.WriteString(v.renderHelp())

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *TaskListView) completedLabel() string {
	if v.showingCompleted {
		return "show open tasks"
	}
	return "show done tasks"
}

func (v *TaskListView) renderHeader() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	isNarrow := contentWidth < 60

	searchStyle := s.Input
	if v.focus == FocusSearchInput {
		searchStyle = s.InputFocused
	}
	searchBox := searchStyle.Width(clamp(contentWidth-8, 10, 30)).Render(v.searchInput.View())

	dropStyle := s.Button
	if v.focus == FocusPriorityDropdown {
		dropStyle = s.ButtonFocused
	}
	label := "All"
	if v.selectedPriority != nil {
		label = string(*v.selectedPriority)
	}
	if !isNarrow {
		label = "Priority: " + label
	}
	dropBtn := dropStyle.Render(label + " ▼")

	titleText := v.project.Name
	if v.showingCompleted {
		titleText += " (Completed)"
	}
	title := lipgloss.JoinHorizontal(lipgloss.Center,
		s.Title.Render(titleText), " ",
		renderBadge(s, string(v.project.Status), styles.ProjectStatusColor(v.project.Status)),
	)
	progressLine := renderProgress(v.bar, v.project.Progress)

	var header string
	if isNarrow {
		// Narrow: stack vertically, no back button (esc still works)
		header = lipgloss.JoinVertical(lipgloss.Left, searchBox, dropBtn)
	} else {
		backStyle := s.Button
		if v.focus == FocusBackButton {
			backStyle = s.ButtonFocused
		}
		header = lipgloss.JoinHorizontal(lipgloss.Center,
			backStyle.Render("← Projects"), "  ", searchBox, "  ", dropBtn,
		)
	}

	dropdown := ""
	if v.dropdownOpen {
		dropdown = "\n" + v.renderDropdown()
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, progressLine, header+dropdown)
}

func (v *TaskListView) renderDropdown() string {
	s := v.styles

	allStyle := s.ListItem
	if v.dropdownCursor == 0 {
		allStyle = s.ListSelected
	}
	items := []string{allStyle.Render("All")}

	for i, p := range models.Priorities {
		itemStyle := s.ListItem
		if v.dropdownCursor == i+1 {
			itemStyle = s.ListSelected
		}
		dot := lipgloss.NewStyle().Foreground(styles.PriorityColor(p)).Render("●")
		items = append(items, itemStyle.Render(dot+" "+string(p)))
	}

	return s.FilterBar.Render(lipgloss.JoinVertical(lipgloss.Left, items...))
}

func (v *TaskListView) renderTaskList() string {
	s := v.styles

	if len(v.tasks) == 0 {
		if v.showingCompleted {
			return s.TitleMuted.Render("No completed tasks.")
		}
		return s.TitleMuted.Render("No tasks. Press 'n' to create one.")
	}

	var items []string
	endIdx := min(v.scrollY+v.visibleItems(), len(v.tasks))
	for i := v.scrollY; i < endIdx; i++ {
		items = append(items, v.renderTaskItem(v.tasks[i], i == v.cursor && v.focus == FocusTaskList))
	}

	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func isOverdue(t models.Task) bool {
	return t.DueDate != nil && t.Status != models.TaskDone && models.IsOverdue(*t.DueDate)
}

func (v *TaskListView) assigneeNames(t models.Task) string {
	found, missing := v.store.ResolveAssignees(t)
	names := make([]string, 0, len(found)+len(missing))
	for _, p := range found {
		names = append(names, p.Name)
	}
	if len(missing) > 0 {
		names = append(names, fmt.Sprintf("%d unknown", len(missing)))
	}
	if len(names) == 0 {
		return "unassigned"
	}
	return strings.Join(names, ", ")
}

func (v *TaskListView) renderTaskItem(task models.Task, selected bool) string {
	s := v.styles
	width := max(styles.ContentWidth(v.width)-4, 20)

	status := renderBadge(s, string(task.Status), styles.TaskStatusColor(task.Status))
	priority := lipgloss.NewStyle().Foreground(styles.PriorityColor(task.Priority)).Render(string(task.Priority))
	titleLine := status + " " + task.Title + "  " + priority
	if isOverdue(task) {
		titleLine += "  " + s.Overdue.Render("! overdue")
	}

	details := []string{v.assigneeNames(task)}
	if task.DueDate != nil {
		details = append(details, "due "+task.DueDate.Format("Jan 2"))
	}
	if task.EstimatedHours > 0 || task.ActualHours > 0 {
		details = append(details, fmt.Sprintf("%gh / %gh", task.ActualHours, task.EstimatedHours))
	}
	detailLine := s.TitleMuted.Render(strings.Join(details, " · "))

	lineStyle := s.ListItem.Width(width)
	if selected {
		lineStyle = s.ListSelected.Width(width)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lineStyle.Render(titleLine), lineStyle.Render(detailLine)) + "\n"
}

func (v *TaskListView) renderEditForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	formTitle := "New Task"
	if !v.editingNew {
		formTitle = "Edit Task"
	}

	fieldStyle := func(idx int) lipgloss.Style {
		if v.editFocusIdx == idx {
			return s.InputFocused
		}
		return s.Input
	}
	btnStyle := s.Button
	if v.editFocusIdx == editFieldSave {
		btnStyle = s.ButtonFocused
	}

	inputWidth := clamp(contentWidth-6, 20, 50)

	lines := []string{
		s.Title.Render(formTitle),
		"",
		"Title:",
		fieldStyle(editFieldTitle).Width(inputWidth).Render(v.editTitle.View()),
		"",
		"Description:",
		fieldStyle(editFieldDesc).Render(v.editDesc.View()),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.JoinVertical(lipgloss.Left, "Estimate (h):", fieldStyle(editFieldHours).Width(12).Render(v.editHours.View())),
			"  ",
			lipgloss.JoinVertical(lipgloss.Left, "Due:", fieldStyle(editFieldDue).Width(16).Render(v.editDue.View())),
		),
		"",
		"Assignees:",
		v.renderAssigneeSelector(fieldStyle(editFieldAssignees), inputWidth),
		"",
		btnStyle.Render(" Save "),
	}
	if v.editErr != "" {
		lines = append(lines, "", s.Overdue.Render(v.editErr))
	}
	lines = append(lines, "", s.TitleMuted.Render("Tab: next • ↑↓: select person • Space/↵: toggle • Ctrl+S: save • Esc: cancel"))

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Left, lines...),
	)
	return styles.CenterView(centered, v.width, v.height)
}

// renderAssigneeSelector renders the inline people checklist for the edit form
func (v *TaskListView) renderAssigneeSelector(containerStyle lipgloss.Style, width int) string {
	s := v.styles

	if len(v.people) == 0 {
		return containerStyle.Width(width).Render(s.TitleMuted.Render("No people yet"))
	}

	var items []string
	for i, p := range v.people {
		checkbox := "[ ]"
		if slices.Contains(v.editAssignees, p.ID) {
			checkbox = "[x]"
		}
		text := checkbox + " " + p.Name + " " + s.TitleMuted.Render(p.Role)

		if v.editFocusIdx == editFieldAssignees && i == v.editPeopleIdx {
			items = append(items, s.ListSelected.Render(text))
		} else {
			items = append(items, s.ListItem.Render(text))
		}
	}

	return containerStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, items...))
}

func (v *TaskListView) renderLogTime() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	task, _ := v.store.Task(v.projectID, v.editTaskID)
	billable := "[ ] billable"
	if v.logBillable {
		billable = "[x] billable"
	}

	lines := []string{
		s.Title.Render("Log Time: " + task.Title),
		"",
		"Hours:",
		s.InputFocused.Width(12).Render(v.logHours.View()),
		"",
		billable,
	}
	if v.editErr != "" {
		lines = append(lines, "", s.Overdue.Render(v.editErr))
	}
	lines = append(lines, "", s.TitleMuted.Render("↵: log • Ctrl+B: billable • Esc: cancel"))

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.FilterBar.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	// At narrow widths, show hint to press ? for help
	if contentWidth > 0 && contentWidth < 50 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
	}

	done := "done"
	if v.showingCompleted {
		done = "open"
	}
	return helpLine(v.styles,
		"↵", "view",
		"space", "status",
		"p", "priority",
		"e", "edit",
		"n", "new",
		"d", "del",
		"t", "time",
		"/", "search",
		"c", done,
		"esc", "back",
	)
}

func (v *TaskListView) renderTaskView() string {
	task, ok := v.selectedTask()
	if !ok {
		return ""
	}

	s := v.styles
	textWidth := clamp(styles.ContentWidth(v.width)-10, 20, 70)
	labelStyle := s.TitleMuted

	descText := task.Description
	if descText == "" {
		descText = s.TitleMuted.Render("No description")
	}

	due := "None"
	if task.DueDate != nil {
		due = task.DueDate.Format("Mon Jan 2, 2006")
		if isOverdue(task) {
			due += "  " + s.Overdue.Render("overdue")
		} else if task.Status != models.TaskDone {
			due += fmt.Sprintf("  (%d days)", models.DaysBetween(time.Now(), task.DueDate.Time))
		}
	}

	tags := "None"
	if len(task.Tags) > 0 {
		tags = strings.Join(task.Tags, ", ")
	}

	lines := []string{
		s.Title.MarginBottom(1).Render(task.Title),
		lipgloss.JoinHorizontal(lipgloss.Center,
			renderBadge(s, string(task.Status), styles.TaskStatusColor(task.Status)),
			" ",
			renderBadge(s, string(task.Priority), styles.PriorityColor(task.Priority)),
		),
		"",
		labelStyle.Render("Assignees"),
		v.assigneeNames(task),
		"",
		labelStyle.Render("Due"),
		due,
		"",
		labelStyle.Render("Hours"),
		fmt.Sprintf("%g logged of %g estimated", task.ActualHours, task.EstimatedHours),
		"",
		labelStyle.Render("Tags"),
		tags,
		"",
		labelStyle.Render("Description"),
		lipgloss.NewStyle().Width(textWidth).Render(descText),
	}
	if task.CompletedAt != nil {
		lines = append(lines, "", labelStyle.Render("Completed"), task.CompletedAt.Local().Format("Jan 2, 2006 3:04 PM"))
	}
	lines = append(lines, "", helpLine(s,
		"space", "status",
		"e", "edit",
		"t", "log time",
		"d", "delete",
		"esc", "back",
	))

	padded := lipgloss.NewStyle().Padding(1, 2).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	return styles.CenterView(padded, v.width, v.height)
}
