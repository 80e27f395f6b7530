package models

import "time"

// SeedPeople returns the team a fresh install starts with
func SeedPeople(at time.Time) []Person {
	at = at.UTC()
	return []Person{
		{
			ID:              "1",
			Name:            "Alex Johnson",
			Email:           "alex@example.com",
			Role:            "Full Stack Developer",
			Skills:          []string{"React", "Node.js", "PostgreSQL", "Docker"},
			CurrentProjects: []string{},
			Availability:    40,
			JoinedDate:      at,
		},
		{
			ID:              "2",
			Name:            "Sarah Chen",
			Email:           "sarah@example.com",
			Role:            "Frontend Developer",
			Skills:          []string{"React", "TypeScript", "UI/UX Design", "Figma"},
			CurrentProjects: []string{},
			Availability:    35,
			JoinedDate:      at,
		},
		{
			ID:              "3",
			Name:            "Michael Brown",
			Email:           "michael@example.com",
			Role:            "Backend Developer",
			Skills:          []string{"Python", "PostgreSQL", "AWS", "Docker"},
			CurrentProjects: []string{},
			Availability:    40,
			JoinedDate:      at,
		},
		{
			ID:              "4",
			Name:            "Emily Davis",
			Email:           "emily@example.com",
			Role:            "Project Manager",
			Skills:          []string{"Project Management", "Agile/Scrum", "Team Leadership"},
			CurrentProjects: []string{},
			Availability:    40,
			JoinedDate:      at,
		},
	}
}

// SeedState returns the state used on first run and after a reset
func SeedState(at time.Time) AppState {
	return AppState{
		People:      SeedPeople(at),
		Projects:    []Project{},
		TimeEntries: []TimeEntry{},
	}
}

// SkillCategory groups skills for display
type SkillCategory string

const (
	SkillFrontend   SkillCategory = "Frontend"
	SkillBackend    SkillCategory = "Backend"
	SkillDatabase   SkillCategory = "Database"
	SkillDevOps     SkillCategory = "DevOps"
	SkillDesign     SkillCategory = "Design"
	SkillManagement SkillCategory = "Management"
	SkillOther      SkillCategory = "Other"
)

// Skill is an entry of the skill catalogue
type Skill struct {
	Name     string
	Category SkillCategory
}

// DefaultSkills is the catalogue offered when editing a person
var DefaultSkills = []Skill{
	{"React", SkillFrontend},
	{"Vue.js", SkillFrontend},
	{"Angular", SkillFrontend},
	{"TypeScript", SkillFrontend},
	{"JavaScript", SkillFrontend},
	{"HTML/CSS", SkillFrontend},
	{"Node.js", SkillBackend},
	{"Python", SkillBackend},
	{"Java", SkillBackend},
	{"C#", SkillBackend},
	{"Go", SkillBackend},
	{"Ruby", SkillBackend},
	{"PostgreSQL", SkillDatabase},
	{"MongoDB", SkillDatabase},
	{"MySQL", SkillDatabase},
	{"Redis", SkillDatabase},
	{"Docker", SkillDevOps},
	{"Kubernetes", SkillDevOps},
	{"AWS", SkillDevOps},
	{"CI/CD", SkillDevOps},
	{"UI/UX Design", SkillDesign},
	{"Figma", SkillDesign},
	{"Photoshop", SkillDesign},
	{"Project Management", SkillManagement},
	{"Agile/Scrum", SkillManagement},
	{"Team Leadership", SkillManagement},
}

// SkillCategoryOf returns the catalogue category for name, or Other
func SkillCategoryOf(name string) SkillCategory {
	for _, s := range DefaultSkills {
		if s.Name == name {
			return s.Category
		}
	}
	return SkillOther
}
