// Package conversation drives the multi-turn reservation dialog: a
// per-call session state machine and the process-wide registry that owns
// the sessions.
package conversation

import (
	"sync"
	"time"

	"rapidpark/internal/entities"
)

// Step is a stage of the reservation dialog. Steps advance linearly; a
// failed extraction re-prompts in place.
type Step int

const (
	StepName Step = iota
	StepVehicle
	StepArrival
	StepDuration
	StepEmail
	StepConfirm
	StepDone
	StepCancelled
)

func (s Step) String() string {
	switch s {
	case StepName:
		return "awaiting_name"
	case StepVehicle:
		return "awaiting_vehicle"
	case StepArrival:
		return "awaiting_arrival"
	case StepDuration:
		return "awaiting_duration"
	case StepEmail:
		return "awaiting_email"
	case StepConfirm:
		return "awaiting_confirmation"
	case StepDone:
		return "completed"
	case StepCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Session accumulates one caller's answers across turns. The mutex
// serializes turns: at most one in-flight transition per call ID.
type Session struct {
	mu sync.Mutex

	CallID       string
	Step         Step
	CustomerName string
	VehicleReg   string
	VehicleType  string
	Arrival      time.Time
	DurationMin  int
	Email        string
	EmailSkipped bool
	Quote        *entities.Quote
	Retries      int

	CreatedAt time.Time
	LastSeen  time.Time
}

// Snapshot is a read-only copy of a session for diagnostics.
type Snapshot struct {
	CallID       string    `json:"call_id"`
	Step         string    `json:"step"`
	CustomerName string    `json:"customer_name,omitempty"`
	VehicleReg   string    `json:"vehicle_reg,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	LastSeen     time.Time `json:"last_seen"`
}

// Registry maps call IDs to live sessions. It is process-local shared
// state: in-flight conversations do not survive a restart.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// GetOrCreate returns the session for callID, creating one at StepName on
// first contact. Calling it twice with the same ID returns the same
// session, not a fresh one.
func (r *Registry) GetOrCreate(callID string) *Session {
	r.mu.RLock()
	sess, ok := r.sessions[callID]
	r.mu.RUnlock()
	if ok {
		return sess
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if sess, ok := r.sessions[callID]; ok {
		return sess
	}
	now := r.now()
	sess = &Session{
		CallID:    callID,
		Step:      StepName,
		CreatedAt: now,
		LastSeen:  now,
	}
	r.sessions[callID] = sess
	return sess
}

// Remove deletes a session, succeeding even if absent.
func (r *Registry) Remove(callID string) {
	r.mu.Lock()
	delete(r.sessions, callID)
	r.mu.Unlock()
}

// List returns diagnostic snapshots of all sessions, in no particular order.
func (r *Registry) List() []Snapshot {
	r.mu.RLock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, sess := range r.sessions {
		sessions = append(sessions, sess)
	}
	r.mu.RUnlock()

	snaps := make([]Snapshot, 0, len(sessions))
	for _, sess := range sessions {
		sess.mu.Lock()
		snaps = append(snaps, Snapshot{
			CallID:       sess.CallID,
			Step:         sess.Step.String(),
			CustomerName: sess.CustomerName,
			VehicleReg:   sess.VehicleReg,
			CreatedAt:    sess.CreatedAt,
			LastSeen:     sess.LastSeen,
		})
		sess.mu.Unlock()
	}
	return snaps
}

// EvictIdle removes sessions whose last turn is older than maxIdle and
// returns how many were purged. Abandoned calls would otherwise pin
// memory for the life of the process.
func (r *Registry) EvictIdle(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)
	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, sess := range r.sessions {
		sess.mu.Lock()
		stale := sess.LastSeen.Before(cutoff)
		sess.mu.Unlock()
		if stale {
			delete(r.sessions, id)
			evicted++
		}
	}
	return evicted
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
