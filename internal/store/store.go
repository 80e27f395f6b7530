// Package store holds the authoritative copy of the application state.
//
// A Store is created once at startup and handed to every view. Each mutation
// updates the in-memory state, recomputes derived fields and then writes the
// whole state to a durable slot. Write failures are logged and reported via
// PersistStatus, never returned from the mutation itself; the in-memory state
// stays the source of truth for the rest of the session.
//
// A Store is not safe for concurrent use.
package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/tgienger/pm/internal/models"
)

// DefaultKey is the slot the state is persisted under
const DefaultKey = "project-manager-data"

// BackupSuffix names the slot that keeps a persisted state which could not be
// decoded on startup, e.g. "project-manager-data.corrupt"
const BackupSuffix = ".corrupt"

// Slot is durable key/value storage. GetSlot returns "" and a nil error when
// the key has never been written.
type Slot interface {
	GetSlot(key string) (string, error)
	SetSlot(key, value string) error
}

// PersistStatus describes how the durable copy relates to the in-memory state
type PersistStatus struct {
	LastPersistedAt time.Time
	LastError       error
	// Dirty is true while the in-memory state has changes the slot does not
	Dirty bool
}

// Store owns the application state
type Store struct {
	slot   Slot
	key    string
	log    zerolog.Logger
	now    func() time.Time
	seedAt time.Time

	state  models.AppState
	status PersistStatus
}

// Option configures a Store
type Option func(*Store)

func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithClock replaces time.Now, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithKey sets the slot name the state is stored under
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// New restores the state persisted in slot, falling back to the seed state
// when there is none or it cannot be read.
func New(slot Slot, opts ...Option) *Store {
	s := &Store{
		slot: slot,
		key:  DefaultKey,
		log:  zerolog.Nop(),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.seedAt = s.timestamp()
	s.load()
	return s
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}

func (s *Store) load() {
	raw, err := s.slot.GetSlot(s.key)
	if err != nil {
		// the slot may still hold good data, so the seed is not written over it
		s.log.Warn().Err(err).Str("key", s.key).Msg("failed to read persisted state; using seed data")
		s.state = models.SeedState(s.seedAt)
		s.status.LastError = fmt.Errorf("read slot %s: %w", s.key, err)
		return
	}
	if raw == "" {
		s.log.Info().Str("key", s.key).Msg("no persisted state; using seed data")
		s.seed()
		return
	}

	state, err := decodeStored(raw)
	if err != nil {
		s.recoverFrom(raw, fmt.Errorf("%w: %v", ErrMalformedPayload, err))
		return
	}
	if err := ValidatePayload(raw); err != nil {
		s.log.Warn().Err(err).Str("key", s.key).Msg("persisted state does not match the export format; loaded as is")
	}
	s.warnDangling(state, "restored state")
	s.warnUnknownValues(state, "restored state")

	s.state = state
	s.status = PersistStatus{LastPersistedAt: s.timestamp()}
	s.log.Debug().
		Int("people", len(state.People)).
		Int("projects", len(state.Projects)).
		Int("time_entries", len(state.TimeEntries)).
		Msg("state restored")
}

// recoverFrom falls back to the seed state after raw could not be decoded.
// raw is copied to the backup slot first; if that fails the seed stays in
// memory until the next change so raw is not lost by startup alone.
func (s *Store) recoverFrom(raw string, cause error) {
	backup := s.key + BackupSuffix
	if err := s.slot.SetSlot(backup, raw); err != nil {
		s.log.Error().Err(err).Str("key", backup).Msg("failed to back up unreadable state")
		s.state = models.SeedState(s.seedAt)
		s.status.LastError = fmt.Errorf("back up slot %s: %w", s.key, err)
		return
	}
	s.log.Warn().Err(cause).Str("key", s.key).Str("backup", backup).Msg("failed to load state; using seed data")
	s.seed()
}

func (s *Store) seed() {
	s.state = models.SeedState(s.seedAt)
	s.commit()
}

// commit marks the state changed and writes it to the slot
func (s *Store) commit() {
	s.status.Dirty = true
	s.persist()
}

func (s *Store) persist() {
	data, err := json.Marshal(s.state)
	if err != nil {
		s.status.LastError = fmt.Errorf("encode state: %w", err)
		s.log.Error().Err(err).Msg("failed to save state")
		return
	}
	if err := s.slot.SetSlot(s.key, string(data)); err != nil {
		s.status.LastError = fmt.Errorf("write slot %s: %w", s.key, err)
		s.log.Error().Err(err).Str("key", s.key).Msg("failed to save state")
		return
	}
	s.status = PersistStatus{LastPersistedAt: s.timestamp()}
}

// PersistStatus reports when the state was last written and whether the
// in-memory state has diverged since
func (s *Store) PersistStatus() PersistStatus {
	return s.status
}

// Close flushes unsaved changes and returns the last persistence error, if any
func (s *Store) Close() error {
	if s.status.Dirty {
		s.persist()
	}
	return s.status.LastError
}

// People returns a copy of all people
func (s *Store) People() []models.Person {
	out := make([]models.Person, len(s.state.People))
	for i, p := range s.state.People {
		out[i] = p.Clone()
	}
	return out
}

// Projects returns a copy of all projects with their tasks
func (s *Store) Projects() []models.Project {
	out := make([]models.Project, len(s.state.Projects))
	for i, p := range s.state.Projects {
		out[i] = p.Clone()
	}
	return out
}

// TimeEntries returns a copy of all time entries
func (s *Store) TimeEntries() []models.TimeEntry {
	out := make([]models.TimeEntry, len(s.state.TimeEntries))
	copy(out, s.state.TimeEntries)
	return out
}

// CurrentUser returns a copy of the selected person, or nil
func (s *Store) CurrentUser() *models.Person {
	if s.state.CurrentUser == nil {
		return nil
	}
	u := s.state.CurrentUser.Clone()
	return &u
}

// Snapshot returns a deep copy of the whole state
func (s *Store) Snapshot() models.AppState {
	return s.state.Clone()
}

// Person looks a person up by id
func (s *Store) Person(id string) (models.Person, bool) {
	if i := s.personIndex(id); i >= 0 {
		return s.state.People[i].Clone(), true
	}
	return models.Person{}, false
}

// Project looks a project up by id
func (s *Store) Project(id string) (models.Project, bool) {
	if i := s.projectIndex(id); i >= 0 {
		return s.state.Projects[i].Clone(), true
	}
	return models.Project{}, false
}

// Task looks a task up within its project
func (s *Store) Task(projectID, taskID string) (models.Task, bool) {
	pi := s.projectIndex(projectID)
	if pi < 0 {
		return models.Task{}, false
	}
	if ti := taskIndex(s.state.Projects[pi].Tasks, taskID); ti >= 0 {
		return s.state.Projects[pi].Tasks[ti].Clone(), true
	}
	return models.Task{}, false
}

// ResolveAssignees splits a task's assignees into known people and ids that
// no longer resolve to anyone
func (s *Store) ResolveAssignees(task models.Task) (found []models.Person, missing []string) {
	for _, id := range task.AssignedTo {
		if p, ok := s.Person(id); ok {
			found = append(found, p)
		} else {
			missing = append(missing, id)
		}
	}
	return found, missing
}

func (s *Store) personIndex(id string) int {
	for i, p := range s.state.People {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) projectIndex(id string) int {
	for i, p := range s.state.Projects {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func taskIndex(tasks []models.Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
