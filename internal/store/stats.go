package store

import (
	"sort"

	"github.com/tgienger/pm/internal/models"
)

// Stats summarises the state for the dashboard and settings screens
type Stats struct {
	People            int
	Projects          int
	ActiveProjects    int
	CompletedProjects int
	Tasks             int
	CompletedTasks    int
	TimeEntries       int
	TotalHours        float64
	BillableHours     float64
	NonBillableHours  float64
}

// Stats computes counts and hour totals over the current state
func (s *Store) Stats() Stats {
	st := Stats{
		People:      len(s.state.People),
		Projects:    len(s.state.Projects),
		TimeEntries: len(s.state.TimeEntries),
	}
	for _, p := range s.state.Projects {
		switch p.Status {
		case models.ProjectInProgress:
			st.ActiveProjects++
		case models.ProjectCompleted:
			st.CompletedProjects++
		}
		st.Tasks += len(p.Tasks)
		for _, t := range p.Tasks {
			if t.Status == models.TaskDone {
				st.CompletedTasks++
			}
		}
	}
	for _, e := range s.state.TimeEntries {
		st.TotalHours += e.Hours
		if e.Billable {
			st.BillableHours += e.Hours
		} else {
			st.NonBillableHours += e.Hours
		}
	}
	return st
}

// HoursByPerson sums logged hours per person id
func (s *Store) HoursByPerson() map[string]float64 {
	out := make(map[string]float64)
	for _, e := range s.state.TimeEntries {
		out[e.PersonID] += e.Hours
	}
	return out
}

// HoursByProject sums logged hours per project id
func (s *Store) HoursByProject() map[string]float64 {
	out := make(map[string]float64)
	for _, e := range s.state.TimeEntries {
		out[e.ProjectID] += e.Hours
	}
	return out
}

// ProjectTask pairs a task with the project that owns it
type ProjectTask struct {
	ProjectID   string
	ProjectName string
	Task        models.Task
}

// OpenTasks returns the tasks that are not done, limited to those assigned to
// personID unless it is empty
func (s *Store) OpenTasks(personID string) []ProjectTask {
	out := []ProjectTask{}
	for _, p := range s.state.Projects {
		for _, t := range p.Tasks {
			if t.Status == models.TaskDone || (personID != "" && !t.AssignedTo.Has(personID)) {
				continue
			}
			out = append(out, ProjectTask{ProjectID: p.ID, ProjectName: p.Name, Task: t.Clone()})
		}
	}
	return out
}

// MyOpenTasks returns the tasks assigned to the current user that are not done
func (s *Store) MyOpenTasks() []ProjectTask {
	if s.state.CurrentUser == nil {
		return nil
	}
	return s.OpenTasks(s.state.CurrentUser.ID)
}

// UpcomingDeadlines returns up to n open tasks with due dates, earliest first
func (s *Store) UpcomingDeadlines(n int) []ProjectTask {
	var out []ProjectTask
	for _, p := range s.state.Projects {
		for _, t := range p.Tasks {
			if t.DueDate != nil && t.Status != models.TaskDone {
				out = append(out, ProjectTask{ProjectID: p.ID, ProjectName: p.Name, Task: t.Clone()})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Task.DueDate.Before(out[j].Task.DueDate.Time)
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
