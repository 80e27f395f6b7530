package store

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/tgienger/pm/internal/models"
)

func populatedStore(t *testing.T) *Store {
	t.Helper()
	s, _ := newTestStore(t)

	p := testProject("p1")
	p.Budget = models.Ptr(12500.5)
	p.Client = "Acme"
	p.TeamMembers = []string{"1", "2"}
	p.Tags = []string{"web"}
	s.AddProject(p)

	due := models.NewDate(2025, 3, 1)
	task := testTask("t1", models.TaskInProgress)
	task.AssignedTo = models.Assignees{"1"}
	task.DueDate = &due
	task.EstimatedHours = 8
	task.Dependencies = []string{"t0"}
	s.AddTask("p1", task)
	s.AddTask("p1", testTask("t2", models.TaskDone))

	s.AddProject(testProject("p2"))
	s.AddTimeEntry(models.TimeEntry{
		ID: "e1", PersonID: "1", ProjectID: "p1", TaskID: "t1",
		Hours: 2.5, Date: models.NewDate(2025, 1, 3), Description: "spike", Billable: true,
	})
	s.AddTimeEntry(models.TimeEntry{ID: "e2", PersonID: "2", ProjectID: "p2", Hours: 1, Date: models.NewDate(2025, 1, 4)})

	alex, _ := s.Person("1")
	s.SetCurrentUser(&alex)
	return s
}

func TestExportImportRoundTrip(t *testing.T) {
	src := populatedStore(t)
	text, err := src.ExportData()
	if err != nil {
		t.Fatalf("ExportData: %v", err)
	}

	dst, _ := newTestStore(t)
	if err := dst.ImportData(text); err != nil {
		t.Fatalf("ImportData: %v", err)
	}
	if !reflect.DeepEqual(dst.Snapshot(), src.Snapshot()) {
		t.Errorf("round trip differs:\n got %+v\nwant %+v", dst.Snapshot(), src.Snapshot())
	}

	again, err := dst.ExportData()
	if err != nil {
		t.Fatalf("ExportData: %v", err)
	}
	if again != text {
		t.Error("re-export should be byte-identical")
	}
}

func TestExportData_Format(t *testing.T) {
	s := populatedStore(t)
	text, err := s.ExportData()
	if err != nil {
		t.Fatalf("ExportData: %v", err)
	}
	if !strings.HasPrefix(text, "{\n  \"people\": [") {
		t.Errorf("export should be 2-space indented, got prefix %q", text[:min(len(text), 30)])
	}
	for _, want := range []string{`"assignedTo": [`, `"startDate": "2025-01-01"`, `"dueDate": "2025-03-01"`, `"currentUser": {`} {
		if !strings.Contains(text, want) {
			t.Errorf("export missing %s", want)
		}
	}
	if err := ValidatePayload(text); err != nil {
		t.Errorf("exported text fails validation: %v", err)
	}
}

func TestExport_SeedStateHasNullCurrentUser(t *testing.T) {
	s, _ := newTestStore(t)
	text, err := s.ExportData()
	if err != nil {
		t.Fatalf("ExportData: %v", err)
	}
	if !strings.Contains(text, `"currentUser": null`) {
		t.Error("seed export should carry a null current user")
	}
	if !strings.Contains(text, `"projects": []`) {
		t.Error("seed export should carry an empty project list")
	}
}

func TestImportData_Malformed(t *testing.T) {
	s := populatedStore(t)
	before := s.Snapshot()

	err := s.ImportData("{not json")
	if !errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("err = %v, want ErrMalformedPayload", err)
	}
	if !reflect.DeepEqual(s.Snapshot(), before) {
		t.Error("state changed after malformed import")
	}
}

func TestImportData_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not an object", `[]`},
		{"missing collections", `{"people": []}`},
		{"wrong type", `{"people": {}, "projects": [], "timeEntries": [], "currentUser": null}`},
		{"unknown field", `{"people": [], "projects": [], "timeEntries": [], "currentUser": null, "extra": 1}`},
		{"status not a string", replaceOnce(t, `"status": "done"`, `"status": 3`)},
		{"hours not a number", replaceOnce(t, `"hours": 2.5`, `"hours": "2.5"`)},
		{"bad date", replaceOnce(t, `"dueDate": "2025-03-01"`, `"dueDate": "soon"`)},
		{"progress out of range", replaceOnce(t, `"progress": 50`, `"progress": 140`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := populatedStore(t)
			before := s.Snapshot()

			err := s.ImportData(tt.payload)
			if !errors.Is(err, ErrInvalidPayload) {
				t.Fatalf("err = %v, want ErrInvalidPayload", err)
			}
			if errors.Is(err, ErrMalformedPayload) {
				t.Error("schema violation should not be reported as malformed")
			}
			if !reflect.DeepEqual(s.Snapshot(), before) {
				t.Error("state changed after invalid import")
			}
		})
	}
}

// replaceOnce edits a valid export of populatedStore, failing if old is absent
func replaceOnce(t *testing.T, old, new string) string {
	t.Helper()
	text, err := populatedStore(t).ExportData()
	if err != nil {
		t.Fatalf("ExportData: %v", err)
	}
	if !strings.Contains(text, old) {
		t.Fatalf("export does not contain %s", old)
	}
	return strings.Replace(text, old, new, 1)
}

// Values the mutations accept unchecked must import as well
func TestImportData_AcceptsUncheckedValues(t *testing.T) {
	tests := []struct {
		name        string
		old, new    string
		wantUnknown int
	}{
		{"unknown task status", `"status": "done"`, `"status": "finished"`, 1},
		{"unknown priority", `"priority": "low"`, `"priority": "urgent"`, 1},
		{"negative hours", `"hours": 2.5`, `"hours": -1`, 0},
		{"zero hours", `"hours": 2.5`, `"hours": 0`, 0},
		{"empty id", `"id": "p2"`, `"id": ""`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := populatedStore(t)
			if err := s.ImportData(replaceOnce(t, tt.old, tt.new)); err != nil {
				t.Fatalf("ImportData() error = %v", err)
			}
			if got := CountUnknownValues(s.Snapshot()); got != tt.wantUnknown {
				t.Errorf("CountUnknownValues = %d, want %d", got, tt.wantUnknown)
			}
		})
	}
}

func TestImportData_ReportsEveryProblem(t *testing.T) {
	payload := `{"people": [{"id": "1"}], "projects": [], "timeEntries": [], "currentUser": null}`
	err := ValidatePayload(payload)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	if len(verr.Problems) < 2 {
		t.Errorf("Problems = %v, want one entry per missing field", verr.Problems)
	}
}

const legacyPayload = `{
  "people": [
    {"id": "1", "name": "Alex Johnson", "email": "alex@company.com", "role": "Developer",
     "skills": ["React"], "currentProjects": ["p1"], "availability": 40,
     "joinedDate": "2023-01-15T00:00:00.000Z"}
  ],
  "projects": [
    {"id": "p1", "name": "Website", "description": "", "status": "in-progress", "priority": "high",
     "startDate": "2024-01-01T00:00:00.000Z", "endDate": "2024-03-31",
     "teamMembers": ["1"], "tags": [], "progress": 10,
     "createdAt": "2024-01-01T10:00:00.000Z", "updatedAt": "2024-01-02T10:00:00.000Z",
     "tasks": [
       {"id": "t1", "title": "Design", "description": "", "status": "done", "priority": "medium",
        "assignedTo": "1", "estimatedHours": 4, "actualHours": 5,
        "createdAt": "2024-01-01T10:00:00.000Z", "dependencies": [], "tags": []},
       {"id": "t2", "title": "Build", "description": "", "status": "todo", "priority": "medium",
        "estimatedHours": 4, "actualHours": 0, "dueDate": "2024-02-01",
        "createdAt": "2024-01-01T10:00:00.000Z", "dependencies": ["t1"], "tags": []}
     ]}
  ],
  "timeEntries": [
    {"id": "e1", "personId": "1", "projectId": "p1", "hours": 5, "date": "2024-01-03",
     "description": "", "billable": false}
  ],
  "currentUser": null
}`

func TestImportData_LegacyShapes(t *testing.T) {
	s, _ := newTestStore(t)
	if err := s.ImportData(legacyPayload); err != nil {
		t.Fatalf("ImportData: %v", err)
	}

	p := mustProject(t, s, "p1")
	if p.Progress != 50 {
		t.Errorf("Progress = %d, want 50 derived from tasks", p.Progress)
	}
	if want := models.NewDate(2024, 1, 1); !p.StartDate.Equal(want.Time) {
		t.Errorf("StartDate = %v, want %v", p.StartDate, want)
	}

	t1, _ := s.Task("p1", "t1")
	if !reflect.DeepEqual(t1.AssignedTo, models.Assignees{"1"}) {
		t.Errorf("t1.AssignedTo = %v, want [1]", t1.AssignedTo)
	}
	t2, _ := s.Task("p1", "t2")
	if t2.AssignedTo == nil || len(t2.AssignedTo) != 0 {
		t.Errorf("t2.AssignedTo = %#v, want empty", t2.AssignedTo)
	}
	if t2.DueDate == nil || t2.DueDate.String() != "2024-02-01" {
		t.Errorf("t2.DueDate = %v, want 2024-02-01", t2.DueDate)
	}

	text, err := s.ExportData()
	if err != nil {
		t.Fatalf("ExportData: %v", err)
	}
	if strings.Contains(text, `"assignedTo": "1"`) {
		t.Error("legacy single assignee should export as a list")
	}
}

func TestImportData_ToleratesDanglingReferences(t *testing.T) {
	payload := strings.Replace(legacyPayload, `"assignedTo": "1"`, `"assignedTo": ["1", "ghost"]`, 1)
	payload = strings.Replace(payload, `"projectId": "p1"`, `"projectId": "gone"`, 1)

	s, _ := newTestStore(t)
	if err := s.ImportData(payload); err != nil {
		t.Fatalf("ImportData: %v", err)
	}
	d := FindDangling(s.Snapshot())
	if d.Assignees != 1 || d.EntryProjs != 1 {
		t.Errorf("FindDangling = %+v, want 1 assignee and 1 entry project", d)
	}
}

func TestImportData_Persists(t *testing.T) {
	s, slot := newTestStore(t)
	if err := s.ImportData(legacyPayload); err != nil {
		t.Fatalf("ImportData: %v", err)
	}
	restored := New(slot)
	if !reflect.DeepEqual(restored.Snapshot(), s.Snapshot()) {
		t.Error("imported state was not persisted")
	}
}

func TestClearAllData(t *testing.T) {
	s := populatedStore(t)

	s.ClearAllData()
	once := s.Snapshot()
	s.ClearAllData()
	twice := s.Snapshot()

	if !reflect.DeepEqual(once, twice) {
		t.Error("clearing twice should equal clearing once")
	}
	if len(once.People) != 4 || len(once.Projects) != 0 || len(once.TimeEntries) != 0 || once.CurrentUser != nil {
		t.Errorf("cleared state = %+v, want the seed state", once)
	}
}

func TestClearAllData_MatchesFirstRun(t *testing.T) {
	slot := newMemSlot()
	s := New(slot, WithClock(newFakeClock().Now))
	first := s.Snapshot()
	s.AddProject(testProject("p1"))

	s.ClearAllData()
	if !reflect.DeepEqual(s.Snapshot(), first) {
		t.Error("clear should restore the first-run state")
	}
}

func TestFindDangling(t *testing.T) {
	state := models.AppState{
		People: []models.Person{{ID: "1"}},
		Projects: []models.Project{{
			ID:          "p1",
			TeamMembers: []string{"1", "9"},
			Tasks:       []models.Task{{ID: "t1", AssignedTo: models.Assignees{"1", "8"}}},
		}},
		TimeEntries: []models.TimeEntry{
			{ID: "e1", PersonID: "1", ProjectID: "p1", TaskID: "t1"},
			{ID: "e2", PersonID: "7", ProjectID: "p1", TaskID: "t9"},
			{ID: "e3", PersonID: "1", ProjectID: "p9"},
		},
		CurrentUser: &models.Person{ID: "6"},
	}

	got := FindDangling(state)
	want := DanglingRefs{Assignees: 1, TeamMembers: 1, EntryPeople: 1, EntryProjs: 1, EntryTasks: 1, CurrentUser: true}
	if got != want {
		t.Errorf("FindDangling = %+v, want %+v", got, want)
	}
	if !got.Any() {
		t.Error("Any() = false, want true")
	}
	if (DanglingRefs{}).Any() {
		t.Error("empty DanglingRefs should report none")
	}
}

func TestPersistedPayloadIsCompactJSON(t *testing.T) {
	s, slot := newTestStore(t)
	s.AddProject(testProject("p1"))

	raw := slot.values[DefaultKey]
	if strings.Contains(raw, "\n") {
		t.Error("persisted payload should be compact")
	}
	var decoded models.AppState
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		t.Fatalf("persisted payload does not decode: %v", err)
	}
	if len(decoded.Projects) != 1 {
		t.Errorf("len(Projects) = %d, want 1", len(decoded.Projects))
	}
}

func TestCompletedAtSurvivesRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddProject(testProject("p1"))
	done := testTask("t1", models.TaskDone)
	at := time.Date(2025, 1, 5, 12, 30, 0, 123000000, time.UTC)
	done.CompletedAt = &at
	s.AddTask("p1", done)

	text, err := s.ExportData()
	if err != nil {
		t.Fatalf("ExportData: %v", err)
	}
	dst, _ := newTestStore(t)
	if err := dst.ImportData(text); err != nil {
		t.Fatalf("ImportData: %v", err)
	}
	got, _ := dst.Task("p1", "t1")
	if got.CompletedAt == nil || !got.CompletedAt.Equal(at) {
		t.Errorf("CompletedAt = %v, want %v", got.CompletedAt, at)
	}
}
