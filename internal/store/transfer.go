package store

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/tgienger/pm/internal/models"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON string

var (
	// ErrMalformedPayload means the text is not valid JSON
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrInvalidPayload means the text is JSON but not a valid state document
	ErrInvalidPayload = errors.New("invalid payload")
)

// ValidationError lists every schema violation found in a payload
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidPayload, strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidPayload
}

var (
	schemaOnce     sync.Once
	compiledSchema *gojsonschema.Schema
	schemaErr      error
)

func stateSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	})
	return compiledSchema, schemaErr
}

// ValidatePayload checks text against the state document schema without
// decoding it
func ValidatePayload(text string) error {
	if !json.Valid([]byte(text)) {
		return ErrMalformedPayload
	}

	schema, err := stateSchema()
	if err != nil {
		return fmt.Errorf("compile state schema: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewStringLoader(text))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return &ValidationError{Problems: problems}
	}
	return nil
}

func decodeState(text string) (models.AppState, error) {
	if err := ValidatePayload(text); err != nil {
		return models.AppState{}, err
	}
	state, err := decodeStored(text)
	if err != nil {
		return models.AppState{}, &ValidationError{Problems: []string{err.Error()}}
	}
	return state, nil
}

// decodeStored decodes text without checking it against the schema, then
// derives progress. Values the mutations accept are never rejected here.
func decodeStored(text string) (models.AppState, error) {
	var state models.AppState
	if err := json.Unmarshal([]byte(text), &state); err != nil {
		return models.AppState{}, err
	}
	state.Normalize()
	for i := range state.Projects {
		state.Projects[i].Progress = models.CalculateProgress(state.Projects[i].Tasks)
	}
	return state, nil
}

// ExportData returns the whole state as indented JSON suitable for ImportData
func (s *Store) ExportData() (string, error) {
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode state: %w", err)
	}
	return string(data), nil
}

// ImportData replaces the whole state with the document in text. On any
// error the current state is left untouched; errors match ErrMalformedPayload
// or ErrInvalidPayload.
func (s *Store) ImportData(text string) error {
	state, err := decodeState(text)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to import data")
		return fmt.Errorf("import data: %w", err)
	}
	s.warnDangling(state, "imported state")
	s.warnUnknownValues(state, "imported state")

	s.state = state
	s.commit()
	s.log.Info().
		Int("people", len(state.People)).
		Int("projects", len(state.Projects)).
		Int("time_entries", len(state.TimeEntries)).
		Msg("data imported")
	return nil
}

// ClearAllData resets to the seed state used on first run
func (s *Store) ClearAllData() {
	s.state = models.SeedState(s.seedAt)
	s.commit()
}

// DanglingRefs counts references to records that do not exist
type DanglingRefs struct {
	Assignees   int
	TeamMembers int
	EntryPeople int
	EntryProjs  int
	EntryTasks  int
	CurrentUser bool
}

func (d DanglingRefs) Any() bool {
	return d.Assignees+d.TeamMembers+d.EntryPeople+d.EntryProjs+d.EntryTasks > 0 || d.CurrentUser
}

// FindDangling reports references in state that point at nothing. Deleting a
// person does not cascade, so these are expected and tolerated.
func FindDangling(state models.AppState) DanglingRefs {
	people := make(map[string]struct{}, len(state.People))
	for _, p := range state.People {
		people[p.ID] = struct{}{}
	}
	tasks := make(map[string]map[string]struct{}, len(state.Projects))
	var d DanglingRefs
	for _, p := range state.Projects {
		ids := make(map[string]struct{}, len(p.Tasks))
		for _, t := range p.Tasks {
			ids[t.ID] = struct{}{}
			for _, a := range t.AssignedTo {
				if _, ok := people[a]; !ok {
					d.Assignees++
				}
			}
		}
		tasks[p.ID] = ids
		for _, m := range p.TeamMembers {
			if _, ok := people[m]; !ok {
				d.TeamMembers++
			}
		}
	}
	for _, e := range state.TimeEntries {
		if _, ok := people[e.PersonID]; !ok {
			d.EntryPeople++
		}
		projectTasks, ok := tasks[e.ProjectID]
		if !ok {
			d.EntryProjs++
			continue
		}
		if e.TaskID != "" {
			if _, ok := projectTasks[e.TaskID]; !ok {
				d.EntryTasks++
			}
		}
	}
	if state.CurrentUser != nil {
		_, ok := people[state.CurrentUser.ID]
		d.CurrentUser = !ok
	}
	return d
}

func (s *Store) warnDangling(state models.AppState, what string) {
	d := FindDangling(state)
	if !d.Any() {
		return
	}
	s.log.Warn().
		Int("assignees", d.Assignees).
		Int("team_members", d.TeamMembers).
		Int("entry_people", d.EntryPeople).
		Int("entry_projects", d.EntryProjs).
		Int("entry_tasks", d.EntryTasks).
		Bool("current_user", d.CurrentUser).
		Msgf("%s has references to missing records", what)
}

// CountUnknownValues counts statuses and priorities outside the known sets.
// They are kept as given; views fall back to the first value when cycling.
func CountUnknownValues(state models.AppState) int {
	n := 0
	for _, p := range state.Projects {
		if !p.Status.Valid() {
			n++
		}
		if !p.Priority.Valid() {
			n++
		}
		for _, t := range p.Tasks {
			if !t.Status.Valid() {
				n++
			}
			if !t.Priority.Valid() {
				n++
			}
		}
	}
	return n
}

func (s *Store) warnUnknownValues(state models.AppState, what string) {
	if n := CountUnknownValues(state); n > 0 {
		s.log.Warn().Int("count", n).Msgf("%s has unknown statuses or priorities", what)
	}
}
