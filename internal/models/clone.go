package models

import "slices"

// Normalize replaces nil slices with empty ones so encoded state never
// carries nulls for list fields.
func (p *Person) Normalize() {
	p.Skills = orEmpty(p.Skills)
	p.CurrentProjects = orEmpty(p.CurrentProjects)
	p.JoinedDate = p.JoinedDate.UTC()
}

func (t *Task) Normalize() {
	if t.AssignedTo == nil {
		t.AssignedTo = Assignees{}
	}
	t.Dependencies = orEmpty(t.Dependencies)
	t.Tags = orEmpty(t.Tags)
	t.CreatedAt = t.CreatedAt.UTC()
	if t.DueDate != nil {
		d := t.DueDate.utc()
		t.DueDate = &d
	}
	if t.CompletedAt != nil {
		c := t.CompletedAt.UTC()
		t.CompletedAt = &c
	}
}

func (p *Project) Normalize() {
	p.TeamMembers = orEmpty(p.TeamMembers)
	p.Tags = orEmpty(p.Tags)
	p.StartDate = p.StartDate.utc()
	p.EndDate = p.EndDate.utc()
	if p.Tasks == nil {
		p.Tasks = []Task{}
	}
	for i := range p.Tasks {
		p.Tasks[i].Normalize()
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
}

func (e *TimeEntry) Normalize() {
	e.Date = e.Date.utc()
}

func (s *AppState) Normalize() {
	if s.People == nil {
		s.People = []Person{}
	}
	if s.Projects == nil {
		s.Projects = []Project{}
	}
	if s.TimeEntries == nil {
		s.TimeEntries = []TimeEntry{}
	}
	for i := range s.People {
		s.People[i].Normalize()
	}
	for i := range s.Projects {
		s.Projects[i].Normalize()
	}
	for i := range s.TimeEntries {
		s.TimeEntries[i].Normalize()
	}
	if s.CurrentUser != nil {
		s.CurrentUser.Normalize()
	}
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Clone returns a deep copy of p
func (p Person) Clone() Person {
	p.Skills = slices.Clone(p.Skills)
	p.CurrentProjects = slices.Clone(p.CurrentProjects)
	return p
}

// Clone returns a deep copy of t
func (t Task) Clone() Task {
	t.AssignedTo = slices.Clone(t.AssignedTo)
	t.Dependencies = slices.Clone(t.Dependencies)
	t.Tags = slices.Clone(t.Tags)
	if t.DueDate != nil {
		d := *t.DueDate
		t.DueDate = &d
	}
	if t.CompletedAt != nil {
		c := *t.CompletedAt
		t.CompletedAt = &c
	}
	return t
}

// Clone returns a deep copy of p, including its tasks
func (p Project) Clone() Project {
	p.TeamMembers = slices.Clone(p.TeamMembers)
	p.Tags = slices.Clone(p.Tags)
	if p.Budget != nil {
		b := *p.Budget
		p.Budget = &b
	}
	if p.Tasks != nil {
		tasks := make([]Task, len(p.Tasks))
		for i, t := range p.Tasks {
			tasks[i] = t.Clone()
		}
		p.Tasks = tasks
	}
	return p
}

// Clone returns a deep copy of the whole state
func (s AppState) Clone() AppState {
	out := AppState{
		People:      clonePeople(s.People),
		Projects:    cloneProjects(s.Projects),
		TimeEntries: slices.Clone(s.TimeEntries),
	}
	if s.CurrentUser != nil {
		u := s.CurrentUser.Clone()
		out.CurrentUser = &u
	}
	return out
}

func clonePeople(people []Person) []Person {
	if people == nil {
		return nil
	}
	out := make([]Person, len(people))
	for i, p := range people {
		out[i] = p.Clone()
	}
	return out
}

func cloneProjects(projects []Project) []Project {
	if projects == nil {
		return nil
	}
	out := make([]Project, len(projects))
	for i, p := range projects {
		out[i] = p.Clone()
	}
	return out
}
