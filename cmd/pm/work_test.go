package main

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tgienger/pm/internal/models"
	"github.com/tgienger/pm/internal/store"
)

// assignedExport builds an export where Alex is the current user and owns one
// of two open tasks
func assignedExport(t *testing.T) string {
	t.Helper()
	st := store.New(memSlot{})
	st.AddProject(models.Project{
		ID:        "p1",
		Name:      "Website Redesign",
		Status:    models.ProjectInProgress,
		Priority:  models.PriorityHigh,
		StartDate: models.NewDate(2026, time.January, 1),
		EndDate:   models.NewDate(2026, time.March, 1),
	})
	st.AddTask("p1", models.Task{ID: "t1", Title: "Wireframes", Status: models.TaskDone, AssignedTo: models.Assignees{"1"}})
	st.AddTask("p1", models.Task{
		ID: "t2", Title: "Launch", Status: models.TaskTodo, Priority: models.PriorityCritical,
		AssignedTo: models.Assignees{"1"}, DueDate: models.Ptr(models.NewDate(2026, time.February, 20)),
	})
	st.AddTask("p1", models.Task{ID: "t3", Title: "Review copy", Status: models.TaskInProgress, AssignedTo: models.Assignees{"2"}})
	st.AddTimeEntry(models.TimeEntry{
		ID: "e1", PersonID: "1", ProjectID: "p1", TaskID: "t1", Hours: 3.5,
		Date: models.NewDate(2026, time.January, 10), Description: "layout", Billable: true,
	})
	st.AddTimeEntry(models.TimeEntry{
		ID: "e2", PersonID: "2", ProjectID: "p1", Hours: 1.5,
		Date: models.NewDate(2026, time.January, 5), Description: "copy edits",
	})
	alex, _ := st.Person("1")
	st.SetCurrentUser(&alex)

	text, err := st.ExportData()
	if err != nil {
		t.Fatalf("ExportData() error: %v", err)
	}
	path := filepath.Join(t.TempDir(), "assigned.json")
	writeTestFile(t, path, text)
	return path
}

func TestTasks(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
	}{
		{"all open", nil, []string{"PROJECT", "Launch", "Review copy", "Sarah Chen", "2026-02-20"}, []string{"Wireframes"}},
		{"mine", []string{"--mine"}, []string{"Launch", "Alex Johnson", "critical"}, []string{"Review copy", "Wireframes"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dbPath := isolate(t)
			if _, err := runPM(t, "", "import", assignedExport(t), "--db", dbPath); err != nil {
				t.Fatalf("import failed: %v", err)
			}

			out, err := runPM(t, "", append([]string{"tasks", "--db", dbPath}, tt.args...)...)
			if err != nil {
				t.Fatalf("tasks failed: %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("expected tasks output to contain %q, got: %s", want, out)
				}
			}
			for _, notWant := range tt.notWant {
				if strings.Contains(out, notWant) {
					t.Errorf("tasks output should not contain %q, got: %s", notWant, out)
				}
			}
		})
	}
}

func TestTasks_MineWithoutCurrentUser(t *testing.T) {
	dbPath := isolate(t)
	if _, err := runPM(t, "", "import", fixtureExport(t), "--db", dbPath); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	out, err := runPM(t, "", "tasks", "--mine", "--db", dbPath)
	if err != nil {
		t.Fatalf("tasks failed: %v", err)
	}
	if !strings.Contains(out, "No current user") {
		t.Errorf("expected a hint to pick a current user, got: %s", out)
	}
}

func TestTime(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
	}{
		{"all", nil, []string{"DATE", "Alex Johnson", "Sarah Chen", "Website Redesign", "Total: 5 hours (3.5 billable)"}, nil},
		{"by person", []string{"--person", "2"}, []string{"copy edits", "Total: 1.5 hours (0 billable)"}, []string{"layout"}},
		{"unknown project", []string{"--project", "nope"}, []string{"No time entries."}, []string{"Total"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dbPath := isolate(t)
			if _, err := runPM(t, "", "import", assignedExport(t), "--db", dbPath); err != nil {
				t.Fatalf("import failed: %v", err)
			}

			out, err := runPM(t, "", append([]string{"time", "--db", dbPath}, tt.args...)...)
			if err != nil {
				t.Fatalf("time failed: %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("expected time output to contain %q, got: %s", want, out)
				}
			}
			for _, notWant := range tt.notWant {
				if strings.Contains(out, notWant) {
					t.Errorf("time output should not contain %q, got: %s", notWant, out)
				}
			}
		})
	}
}

func TestTime_SortedByDate(t *testing.T) {
	dbPath := isolate(t)
	if _, err := runPM(t, "", "import", assignedExport(t), "--db", dbPath); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	out, err := runPM(t, "", "time", "--db", dbPath)
	if err != nil {
		t.Fatalf("time failed: %v", err)
	}
	if strings.Index(out, "2026-01-05") > strings.Index(out, "2026-01-10") {
		t.Errorf("entries not in date order: %s", out)
	}
}
