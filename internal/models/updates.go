package models

import (
	"slices"
	"time"
)

// PersonUpdate carries the fields to change on a person.
// Nil pointers and nil slices leave the field unchanged.
type PersonUpdate struct {
	Name            *string
	Email           *string
	Role            *string
	Skills          []string
	CurrentProjects []string
	Avatar          *string
	Availability    *float64
	JoinedDate      *time.Time
}

// Apply returns p with the update merged in
func (u PersonUpdate) Apply(p Person) Person {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Email != nil {
		p.Email = *u.Email
	}
	if u.Role != nil {
		p.Role = *u.Role
	}
	if u.Skills != nil {
		p.Skills = slices.Clone(u.Skills)
	}
	if u.CurrentProjects != nil {
		p.CurrentProjects = slices.Clone(u.CurrentProjects)
	}
	if u.Avatar != nil {
		p.Avatar = *u.Avatar
	}
	if u.Availability != nil {
		p.Availability = *u.Availability
	}
	if u.JoinedDate != nil {
		p.JoinedDate = u.JoinedDate.UTC()
	}
	return p
}

// ProjectUpdate carries the fields to change on a project. Progress is
// derived by the store and tasks change only through the task operations.
type ProjectUpdate struct {
	Name        *string
	Description *string
	Status      *ProjectStatus
	Priority    *Priority
	StartDate   *Date
	EndDate     *Date
	Budget      *float64
	ClearBudget bool
	Client      *string
	TeamMembers []string
	Tags        []string
}

// Apply returns p with the update merged in
func (u ProjectUpdate) Apply(p Project) Project {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Status != nil {
		p.Status = *u.Status
	}
	if u.Priority != nil {
		p.Priority = *u.Priority
	}
	if u.StartDate != nil {
		p.StartDate = *u.StartDate
	}
	if u.EndDate != nil {
		p.EndDate = *u.EndDate
	}
	if u.ClearBudget {
		p.Budget = nil
	}
	if u.Budget != nil {
		b := *u.Budget
		p.Budget = &b
	}
	if u.Client != nil {
		p.Client = *u.Client
	}
	if u.TeamMembers != nil {
		p.TeamMembers = slices.Clone(u.TeamMembers)
	}
	if u.Tags != nil {
		p.Tags = slices.Clone(u.Tags)
	}
	return p
}

// TaskUpdate carries the fields to change on a task
type TaskUpdate struct {
	Title            *string
	Description      *string
	Status           *TaskStatus
	Priority         *Priority
	AssignedTo       Assignees
	EstimatedHours   *float64
	ActualHours      *float64
	DueDate          *Date
	ClearDueDate     bool
	CompletedAt      *time.Time
	ClearCompletedAt bool
	Dependencies     []string
	Tags             []string
}

// Apply returns t with the update merged in
func (u TaskUpdate) Apply(t Task) Task {
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Status != nil {
		t.Status = *u.Status
	}
	if u.Priority != nil {
		t.Priority = *u.Priority
	}
	if u.AssignedTo != nil {
		t.AssignedTo = slices.Clone(u.AssignedTo)
	}
	if u.EstimatedHours != nil {
		t.EstimatedHours = *u.EstimatedHours
	}
	if u.ActualHours != nil {
		t.ActualHours = *u.ActualHours
	}
	if u.ClearDueDate {
		t.DueDate = nil
	}
	if u.DueDate != nil {
		d := *u.DueDate
		t.DueDate = &d
	}
	if u.ClearCompletedAt {
		t.CompletedAt = nil
	}
	if u.CompletedAt != nil {
		c := u.CompletedAt.UTC()
		t.CompletedAt = &c
	}
	if u.Dependencies != nil {
		t.Dependencies = slices.Clone(u.Dependencies)
	}
	if u.Tags != nil {
		t.Tags = slices.Clone(u.Tags)
	}
	return t
}

// Ptr returns a pointer to v, for building updates inline
func Ptr[T any](v T) *T {
	return &v
}
