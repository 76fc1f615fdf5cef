package handlers

import (
	"sync"
	"time"

	"axiapac.com/timesheets/core"
	"github.com/google/uuid"
)

// SessionState holds the per-employee selected-timesheet slot. Single writer
// per employee in practice, but guarded anyway since gin handlers run
// concurrently.
type SessionState struct {
	mu       sync.Mutex
	selected map[uint]uint // EmployeeId -> TimesheetId
}

func NewSessionState() *SessionState {
	return &SessionState{selected: make(map[uint]uint)}
}

func (s *SessionState) SelectedTimesheet(employeeID uint) uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected[employeeID]
}

func (s *SessionState) SetSelectedTimesheet(employeeID, timesheetID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected[employeeID] = timesheetID
}

func (s *SessionState) ClearSelectedTimesheet(employeeID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.selected, employeeID)
}

// EditConversationTTL matches the 20-minute editing window a stale
// conversation stays resumable for.
const EditConversationTTL = 20 * time.Minute

type editEntry struct {
	session    *core.EditSession
	employeeID uint
	messages   []string
	touched    time.Time
}

func (e *editEntry) takeMessages() []string {
	msgs := e.messages
	e.messages = nil
	return msgs
}

// EditRegistry keeps in-flight edit sessions keyed by conversation id.
type EditRegistry struct {
	mu      sync.Mutex
	entries map[string]*editEntry
	ttl     time.Duration
}

func NewEditRegistry(ttl time.Duration) *EditRegistry {
	return &EditRegistry{entries: make(map[string]*editEntry), ttl: ttl}
}

// Begin registers a new conversation and returns its id.
func (r *EditRegistry) Begin(employeeID uint, session *core.EditSession, entry *editEntry) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.purgeLocked()

	id := uuid.New().String()
	entry.session = session
	entry.employeeID = employeeID
	entry.touched = time.Now()
	r.entries[id] = entry
	return id
}

// Get returns the live conversation for an id, refreshing its idle timer.
// Expired and unknown ids both come back nil.
func (r *EditRegistry) Get(id string, employeeID uint) *editEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.purgeLocked()

	entry, ok := r.entries[id]
	if !ok || entry.employeeID != employeeID {
		return nil
	}
	entry.touched = time.Now()
	return entry
}

func (r *EditRegistry) End(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
}

func (r *EditRegistry) purgeLocked() {
	cutoff := time.Now().Add(-r.ttl)
	for id, entry := range r.entries {
		if entry.touched.Before(cutoff) {
			delete(r.entries, id)
		}
	}
}
