package store

import (
	"slices"

	"github.com/tgienger/pm/internal/models"
)

// Ids are not checked for uniqueness, so updates and deletes apply to every
// record carrying the id. Unknown ids leave the state (and the slot) untouched.

// AddPerson appends a person. The caller supplies a fresh id.
func (s *Store) AddPerson(p models.Person) {
	p = p.Clone()
	p.Normalize()
	s.state.People = append(s.state.People, p)
	s.commit()
}

// UpdatePerson merges u into the person with id, keeping the current user
// copy in sync
func (s *Store) UpdatePerson(id string, u models.PersonUpdate) {
	changed := false
	for i := range s.state.People {
		if s.state.People[i].ID != id {
			continue
		}
		s.state.People[i] = u.Apply(s.state.People[i])
		s.state.People[i].Normalize()
		changed = true
	}
	if !changed {
		return
	}

	if s.state.CurrentUser != nil && s.state.CurrentUser.ID == id {
		merged := u.Apply(s.state.CurrentUser.Clone())
		merged.Normalize()
		s.state.CurrentUser = &merged
	}
	s.commit()
}

// DeletePerson removes a person and clears the current user if it was them.
// References from tasks, projects and time entries are left in place.
func (s *Store) DeletePerson(id string) {
	n := len(s.state.People)
	s.state.People = slices.DeleteFunc(s.state.People, func(p models.Person) bool {
		return p.ID == id
	})
	if len(s.state.People) == n {
		return
	}
	if s.state.CurrentUser != nil && s.state.CurrentUser.ID == id {
		s.state.CurrentUser = nil
	}
	s.commit()
}

// AddProject appends a project; its progress is derived from its tasks
func (s *Store) AddProject(p models.Project) {
	p = p.Clone()
	p.Normalize()
	p.Progress = models.CalculateProgress(p.Tasks)
	s.state.Projects = append(s.state.Projects, p)
	s.commit()
}

// UpdateProject merges u into the project with id and refreshes UpdatedAt
func (s *Store) UpdateProject(id string, u models.ProjectUpdate) {
	s.eachProject(id, func(p *models.Project) bool {
		*p = u.Apply(*p)
		p.Normalize()
		return true
	})
}

// DeleteProject removes a project together with its time entries
func (s *Store) DeleteProject(id string) {
	n := len(s.state.Projects)
	s.state.Projects = slices.DeleteFunc(s.state.Projects, func(p models.Project) bool {
		return p.ID == id
	})
	if len(s.state.Projects) == n {
		return
	}
	s.state.TimeEntries = slices.DeleteFunc(s.state.TimeEntries, func(e models.TimeEntry) bool {
		return e.ProjectID == id
	})
	s.commit()
}

// AddTask appends a task to a project
func (s *Store) AddTask(projectID string, t models.Task) {
	t = t.Clone()
	t.Normalize()
	if t.Status == models.TaskDone && t.CompletedAt == nil {
		now := s.timestamp()
		t.CompletedAt = &now
	}

	s.eachProject(projectID, func(p *models.Project) bool {
		p.Tasks = append(p.Tasks, t.Clone())
		return true
	})
}

// UpdateTask merges u into a task. Moving a task to done stamps CompletedAt
// unless one is already set; moving it out of done clears it unless u sets one.
func (s *Store) UpdateTask(projectID, taskID string, u models.TaskUpdate) {
	s.eachProject(projectID, func(p *models.Project) bool {
		changed := false
		for i := range p.Tasks {
			if p.Tasks[i].ID != taskID {
				continue
			}
			p.Tasks[i] = s.applyTaskUpdate(p.Tasks[i], u)
			changed = true
		}
		return changed
	})
}

func (s *Store) applyTaskUpdate(before models.Task, u models.TaskUpdate) models.Task {
	after := u.Apply(before)
	after.Normalize()
	switch {
	case after.Status == models.TaskDone && before.Status != models.TaskDone && after.CompletedAt == nil:
		now := s.timestamp()
		after.CompletedAt = &now
	case after.Status != models.TaskDone && before.Status == models.TaskDone && u.CompletedAt == nil:
		after.CompletedAt = nil
	}
	return after
}

// DeleteTask removes a task from a project
func (s *Store) DeleteTask(projectID, taskID string) {
	s.eachProject(projectID, func(p *models.Project) bool {
		n := len(p.Tasks)
		p.Tasks = slices.DeleteFunc(p.Tasks, func(t models.Task) bool {
			return t.ID == taskID
		})
		return len(p.Tasks) != n
	})
}

// AddTimeEntry appends a time entry
func (s *Store) AddTimeEntry(e models.TimeEntry) {
	e.Normalize()
	s.state.TimeEntries = append(s.state.TimeEntries, e)
	s.commit()
}

// SetCurrentUser replaces the current user with a copy of p, or clears it
func (s *Store) SetCurrentUser(p *models.Person) {
	if p == nil {
		s.state.CurrentUser = nil
	} else {
		u := p.Clone()
		u.Normalize()
		s.state.CurrentUser = &u
	}
	s.commit()
}

// eachProject runs fn on every project with id. Projects fn reports as
// changed get their progress recomputed and UpdatedAt refreshed, and the
// state is committed once if anything changed.
func (s *Store) eachProject(id string, fn func(p *models.Project) bool) {
	changed := false
	for i := range s.state.Projects {
		p := &s.state.Projects[i]
		if p.ID != id || !fn(p) {
			continue
		}
		p.Progress = models.CalculateProgress(p.Tasks)
		p.UpdatedAt = s.timestamp()
		changed = true
	}
	if changed {
		s.commit()
	}
}
