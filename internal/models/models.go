package models

import "time"

// ProjectStatus is the lifecycle state of a project
type ProjectStatus string

const (
	ProjectPlanning   ProjectStatus = "planning"
	ProjectInProgress ProjectStatus = "in-progress"
	ProjectOnHold     ProjectStatus = "on-hold"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectCancelled  ProjectStatus = "cancelled"
)

// ProjectStatuses lists every project status in display order
var ProjectStatuses = []ProjectStatus{
	ProjectPlanning, ProjectInProgress, ProjectOnHold, ProjectCompleted, ProjectCancelled,
}

func (s ProjectStatus) Valid() bool {
	for _, v := range ProjectStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// TaskStatus is the workflow state of a task
type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in-progress"
	TaskReview     TaskStatus = "review"
	TaskDone       TaskStatus = "done"
)

// TaskStatuses lists every task status in workflow order
var TaskStatuses = []TaskStatus{TaskTodo, TaskInProgress, TaskReview, TaskDone}

func (s TaskStatus) Valid() bool {
	for _, v := range TaskStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Next returns the following status in the workflow, wrapping after done
func (s TaskStatus) Next() TaskStatus {
	for i, v := range TaskStatuses {
		if s == v {
			return TaskStatuses[(i+1)%len(TaskStatuses)]
		}
	}
	return TaskTodo
}

// Priority is shared by projects and tasks
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Priorities lists every priority from lowest to highest
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

func (p Priority) Valid() bool {
	for _, v := range Priorities {
		if p == v {
			return true
		}
	}
	return false
}

// Next returns the next higher priority, wrapping after critical
func (p Priority) Next() Priority {
	for i, v := range Priorities {
		if p == v {
			return Priorities[(i+1)%len(Priorities)]
		}
	}
	return PriorityLow
}

// Person is a team member
type Person struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Role            string    `json:"role"`
	Skills          []string  `json:"skills"`
	CurrentProjects []string  `json:"currentProjects"` // informational; Project.TeamMembers is authoritative
	Avatar          string    `json:"avatar,omitempty"`
	Availability    float64   `json:"availability"` // hours per week
	JoinedDate      time.Time `json:"joinedDate"`
}

// Project owns its tasks exclusively
type Project struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Status      ProjectStatus `json:"status"`
	Priority    Priority      `json:"priority"`
	StartDate   Date          `json:"startDate"`
	EndDate     Date          `json:"endDate"`
	Budget      *float64      `json:"budget,omitempty"`
	TeamMembers []string      `json:"teamMembers"`
	Tasks       []Task        `json:"tasks"`
	Tags        []string      `json:"tags"`
	Client      string        `json:"client,omitempty"`
	Progress    int           `json:"progress"` // derived from Tasks by the store
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// Task is a unit of work inside a project
type Task struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Status         TaskStatus `json:"status"`
	Priority       Priority   `json:"priority"`
	AssignedTo     Assignees  `json:"assignedTo"`
	EstimatedHours float64    `json:"estimatedHours"`
	ActualHours    float64    `json:"actualHours"`
	DueDate        *Date      `json:"dueDate,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
	Dependencies   []string   `json:"dependencies"`
	Tags           []string   `json:"tags"`
}

// TimeEntry records hours a person worked on a project
type TimeEntry struct {
	ID          string  `json:"id"`
	PersonID    string  `json:"personId"`
	ProjectID   string  `json:"projectId"`
	TaskID      string  `json:"taskId,omitempty"`
	Hours       float64 `json:"hours"`
	Date        Date    `json:"date"`
	Description string  `json:"description"`
	Billable    bool    `json:"billable"`
}

// AppState is the unit of persistence, export and import
type AppState struct {
	People      []Person    `json:"people"`
	Projects    []Project   `json:"projects"`
	TimeEntries []TimeEntry `json:"timeEntries"`
	CurrentUser *Person     `json:"currentUser"`
}
