package views

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/pm/internal/models"
	"github.com/tgienger/pm/internal/store"
	"github.com/tgienger/pm/internal/ui/keys"
	"github.com/tgienger/pm/internal/ui/styles"
)

// TeamView lists people and picks the current user
type TeamView struct {
	store  *store.Store
	styles *styles.Styles
	keys   keys.KeyMap

	people      []models.Person
	hours       map[string]float64
	openTasks   map[string]int
	currentID   string
	cursor      int
	width       int
	height      int
	showingHelp bool

	// the form adds a person when editingID is empty and edits one otherwise
	adding      bool
	editingID   string
	inputs      []textinput.Model // name, email, role, availability
	focusIdx    int               // len(inputs) is the skill list
	formErr     string
	skills      []string
	skillOn     map[string]bool
	skillCursor int

	confirmingDelete bool
}

type teamLoadedMsg struct {
	people    []models.Person
	hours     map[string]float64
	openTasks map[string]int
	currentID string
}

func NewTeamView(st *store.Store) *TeamView {
	placeholders := []string{"Name", "Email", "Role", "Hours per week"}
	inputs := make([]textinput.Model, len(placeholders))
	for i, p := range placeholders {
		in := textinput.New()
		in.Placeholder = p
		in.CharLimit = 100
		inputs[i] = in
	}
	inputs[3].CharLimit = 5

	return &TeamView{
		store:  st,
		styles: styles.NewStyles(),
		keys:   keys.DefaultKeyMap(),
		inputs: inputs,
	}
}

func (v *TeamView) Init() tea.Cmd {
	return v.reload()
}

func (v *TeamView) reload() tea.Cmd {
	msg := teamLoadedMsg{
		people:    v.store.People(),
		hours:     v.store.HoursByPerson(),
		openTasks: make(map[string]int),
	}
	for _, p := range v.store.Projects() {
		for _, t := range p.Tasks {
			if t.Status == models.TaskDone {
				continue
			}
			for _, id := range t.AssignedTo {
				msg.openTasks[id]++
			}
		}
	}
	if u := v.store.CurrentUser(); u != nil {
		msg.currentID = u.ID
	}
	return func() tea.Msg { return msg }
}

func (v *TeamView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case teamLoadedMsg:
		v.people = msg.people
		v.hours = msg.hours
		v.openTasks = msg.openTasks
		v.currentID = msg.currentID
		if v.cursor >= len(v.people) {
			v.cursor = max(0, len(v.people)-1)
		}
		return v, nil

	case tea.KeyMsg:
		if v.showingHelp {
			v.showingHelp = false
			return v, nil
		}
		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}
		if v.adding {
			return v.updateAdding(msg)
		}

		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Back):
			return v, func() tea.Msg { return BackToProjects{} }
		case key.Matches(msg, v.keys.Up):
			if v.cursor > 0 {
				v.cursor--
			}
		case key.Matches(msg, v.keys.Down):
			if v.cursor < len(v.people)-1 {
				v.cursor++
			}
		case key.Matches(msg, v.keys.Enter):
			if v.cursor < len(v.people) {
				p := v.people[v.cursor]
				if p.ID == v.currentID {
					v.store.SetCurrentUser(nil)
				} else {
					v.store.SetCurrentUser(&p)
				}
				return v, v.reload()
			}
		case key.Matches(msg, v.keys.New):
			v.startAdd()
			return v, textinput.Blink
		case key.Matches(msg, v.keys.Edit):
			if v.cursor < len(v.people) {
				v.startEdit(v.people[v.cursor])
				return v, textinput.Blink
			}
		case key.Matches(msg, v.keys.Delete):
			if v.cursor < len(v.people) {
				v.confirmingDelete = true
			}
		case msg.String() == "?":
			v.showingHelp = true
		}
	}
	return v, nil
}

func (v *TeamView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.store.DeletePerson(v.people[v.cursor].ID)
		v.confirmingDelete = false
		return v, v.reload()
	case "n", "N", "esc":
		v.confirmingDelete = false
	}
	return v, nil
}

func (v *TeamView) startAdd() {
	v.adding = true
	v.editingID = ""
	v.focusIdx = 0
	v.formErr = ""
	for i := range v.inputs {
		v.inputs[i].Reset()
	}
	v.setSkills(nil)
	v.updateFocus()
}

func (v *TeamView) startEdit(p models.Person) {
	v.startAdd()
	v.editingID = p.ID
	v.inputs[0].SetValue(p.Name)
	v.inputs[1].SetValue(p.Email)
	v.inputs[2].SetValue(p.Role)
	v.inputs[3].SetValue(strconv.FormatFloat(p.Availability, 'f', -1, 64))
	v.setSkills(p.Skills)
}

// setSkills offers the catalogue plus any skills outside it, with selected
// switched on
func (v *TeamView) setSkills(selected []string) {
	v.skills = v.skills[:0]
	v.skillOn = make(map[string]bool, len(selected))
	for _, sk := range models.DefaultSkills {
		v.skills = append(v.skills, sk.Name)
	}
	for _, name := range selected {
		if !slices.Contains(v.skills, name) {
			v.skills = append(v.skills, name)
		}
		v.skillOn[name] = true
	}
	v.skillCursor = 0
}

func (v *TeamView) selectedSkills() []string {
	out := []string{}
	for _, name := range v.skills {
		if v.skillOn[name] {
			out = append(out, name)
		}
	}
	return out
}

func (v *TeamView) updateFocus() {
	for i := range v.inputs {
		if i == v.focusIdx {
			v.inputs[i].Focus()
		} else {
			v.inputs[i].Blur()
		}
	}
}

func (v *TeamView) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	fields := len(v.inputs) + 1
	onSkills := v.focusIdx == len(v.inputs)

	switch {
	case key.Matches(msg, v.keys.Back):
		v.adding = false
		return v, nil
	case msg.String() == "ctrl+s":
		return v, v.savePerson()
	case key.Matches(msg, v.keys.Tab), key.Matches(msg, v.keys.Enter) && !onSkills:
		v.focusIdx = (v.focusIdx + 1) % fields
		v.updateFocus()
		return v, nil
	case msg.String() == "shift+tab":
		v.focusIdx = (v.focusIdx + fields - 1) % fields
		v.updateFocus()
		return v, nil
	case key.Matches(msg, v.keys.Enter):
		return v, v.savePerson()
	}

	if onSkills {
		switch {
		case key.Matches(msg, v.keys.Up):
			if v.skillCursor > 0 {
				v.skillCursor--
			}
		case key.Matches(msg, v.keys.Down):
			if v.skillCursor < len(v.skills)-1 {
				v.skillCursor++
			}
		case msg.String() == " ", msg.String() == "x":
			if v.skillCursor < len(v.skills) {
				name := v.skills[v.skillCursor]
				v.skillOn[name] = !v.skillOn[name]
			}
		}
		return v, nil
	}

	var cmd tea.Cmd
	v.inputs[v.focusIdx], cmd = v.inputs[v.focusIdx].Update(msg)
	return v, cmd
}

func (v *TeamView) savePerson() tea.Cmd {
	name := strings.TrimSpace(v.inputs[0].Value())
	if name == "" {
		v.formErr = "Name is required"
		return nil
	}
	availability := 40.0
	if raw := strings.TrimSpace(v.inputs[3].Value()); raw != "" {
		a, ok := parseHours(raw)
		if !ok {
			v.formErr = "Hours per week must be a number"
			return nil
		}
		availability = a
	}
	email := strings.TrimSpace(v.inputs[1].Value())
	role := strings.TrimSpace(v.inputs[2].Value())

	if v.editingID != "" {
		v.store.UpdatePerson(v.editingID, models.PersonUpdate{
			Name:         &name,
			Email:        &email,
			Role:         &role,
			Skills:       v.selectedSkills(),
			Availability: &availability,
		})
	} else {
		v.store.AddPerson(models.Person{
			ID:           models.GenerateID(),
			Name:         name,
			Email:        email,
			Role:         role,
			Skills:       v.selectedSkills(),
			Availability: availability,
			JoinedDate:   time.Now().UTC(),
		})
	}
	v.adding = false
	v.editingID = ""
	return v.reload()
}

func (v *TeamView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	if v.showingHelp {
		return renderHelpPopup(s, v.width, v.height,
			"↵", "set / unset current user",
			"n", "add person",
			"e", "edit person and skills",
			"d", "remove person",
			"esc", "back to projects",
			"q", "quit",
		)
	}
	if v.confirmingDelete && v.cursor < len(v.people) {
		return renderDeleteConfirm(s, v.width, v.height, "Remove Person?", v.people[v.cursor].Name,
			"Their task assignments and time entries are kept.")
	}
	if v.adding {
		return v.renderAddForm()
	}

	width := max(contentWidth-4, 20)
	lines := []string{s.Title.Render("Team"), ""}
	if len(v.people) == 0 {
		lines = append(lines, s.TitleMuted.Render("Nobody here yet. Press 'n' to add someone."))
	}
	for i, p := range v.people {
		marker := "  "
		if p.ID == v.currentID {
			marker = lipgloss.NewStyle().Foreground(styles.Current.Success).Render("● ")
		}
		line := fmt.Sprintf("%s%s  %s", marker, p.Name, s.TitleMuted.Render(p.Role))
		detail := fmt.Sprintf("  %gh/week · %g h logged · %d open tasks", p.Availability, v.hours[p.ID], v.openTasks[p.ID])
		if len(p.Skills) > 0 {
			detail += " · " + strings.Join(p.Skills, ", ")
		}

		style := s.ListItem.Width(width)
		if i == v.cursor {
			style = s.ListSelected.Width(width)
		}
		lines = append(lines, style.Render(line), style.Render(s.TitleMuted.Render(detail)), "")
	}
	lines = append(lines, helpLine(s,
		"↵", "set me",
		"n", "add",
		"e", "edit",
		"d", "remove",
		"esc", "back",
	))

	return styles.CenterView(lipgloss.JoinVertical(lipgloss.Left, lines...), v.width, v.height)
}

const skillRows = 8

func (v *TeamView) renderAddForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-6, 20, 50)

	title := "Add Person"
	if v.editingID != "" {
		title = "Edit Person"
	}
	lines := []string{s.Title.Render(title), ""}
	for i, in := range v.inputs {
		style := s.Input
		if i == v.focusIdx {
			style = s.InputFocused
		}
		lines = append(lines, in.Placeholder+":", style.Width(inputWidth).Render(in.View()))
	}
	lines = append(lines, "Skills:")
	lines = append(lines, v.renderSkills(inputWidth)...)
	if v.formErr != "" {
		lines = append(lines, "", s.Overdue.Render(v.formErr))
	}
	lines = append(lines, "", s.TitleMuted.Render("Tab: next • Space: toggle skill • Ctrl+S: save • Esc: cancel"))

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Left, lines...),
	)
	return styles.CenterView(centered, v.width, v.height)
}

// renderSkills shows a window of the skill list while it has focus and the
// selection otherwise
func (v *TeamView) renderSkills(width int) []string {
	s := v.styles
	if v.focusIdx != len(v.inputs) {
		chosen := v.selectedSkills()
		if len(chosen) == 0 {
			return []string{s.TitleMuted.Render("  none")}
		}
		return []string{s.Input.Width(width).Render(strings.Join(chosen, ", "))}
	}

	start := clamp(v.skillCursor-skillRows/2, 0, max(0, len(v.skills)-skillRows))
	end := min(start+skillRows, len(v.skills))
	var lines []string
	var lastCategory models.SkillCategory
	for i := start; i < end; i++ {
		name := v.skills[i]
		if c := models.SkillCategoryOf(name); c != lastCategory || i == start {
			lines = append(lines, s.TitleMuted.Render("  "+string(c)))
			lastCategory = c
		}
		box := "[ ]"
		if v.skillOn[name] {
			box = "[x]"
		}
		style := s.ListItem
		if i == v.skillCursor {
			style = s.ListSelected
		}
		lines = append(lines, style.Width(width).Render(box+" "+name))
	}
	return lines
}
