package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sheikh-saqib/atm-ledger-system/internal/models"
)

const (
	DefaultIdleTimeout = 15 * time.Minute
	DefaultMaxPending  = 100
)

// Entry pairs a session with the mutex that serializes its requests.
type Entry struct {
	mu      sync.Mutex
	Session *models.Session

	lastSeen time.Time // guarded by Registry.mu
}

// Lock serializes use of the session; call the returned func to release it.
func (e *Entry) Lock() func() {
	e.mu.Lock()
	return e.mu.Unlock
}

// Registry keeps sessions by token. Sessions unused for longer than the
// idle timeout are dropped, and at most maxPending sessions that have not
// logged in yet are kept, oldest evicted first.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Entry
	pending  map[string]time.Time // token -> time added, not logged in yet

	idleTimeout time.Duration
	maxPending  int
	lastSweep   time.Time
	now         func() time.Time
}

// NewRegistry creates a Registry. Non-positive arguments use
// DefaultIdleTimeout and DefaultMaxPending.
func NewRegistry(idleTimeout time.Duration, maxPending int) *Registry {
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	if maxPending <= 0 {
		maxPending = DefaultMaxPending
	}
	return &Registry{
		sessions:    make(map[string]*Entry),
		pending:     make(map[string]time.Time),
		idleTimeout: idleTimeout,
		maxPending:  maxPending,
		now:         time.Now,
	}
}

// New creates a fresh logged-out session with a random token. The entry is
// not stored until Add or AddPending is called.
func (r *Registry) New() *Entry {
	return &Entry{Session: &models.Session{Token: uuid.New().String()}}
}

// Add stores a logged-in session.
func (r *Registry) Add(e *Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweep(now)
	e.lastSeen = now
	r.sessions[e.Session.Token] = e
}

// AddPending stores a session that has not logged in yet so the client can
// retry on it. The oldest pending session is evicted once the cap is hit.
func (r *Registry) AddPending(e *Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweep(now)
	e.lastSeen = now
	token := e.Session.Token
	r.sessions[token] = e
	r.pending[token] = now

	for len(r.pending) > r.maxPending {
		oldest, at := "", time.Time{}
		for t, added := range r.pending {
			if oldest == "" || added.Before(at) {
				oldest, at = t, added
			}
		}
		r.remove(oldest)
	}
}

// Promote marks a pending session as logged in so the pending cap no
// longer applies to it.
func (r *Registry) Promote(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pending, token)
}

// Get returns the session for token and marks it as used. Expired sessions
// are removed and reported as missing.
func (r *Registry) Get(token string) (*Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[token]
	if !ok {
		return nil, false
	}
	now := r.now()
	if now.Sub(e.lastSeen) > r.idleTimeout {
		r.remove(token)
		return nil, false
	}
	e.lastSeen = now
	return e, true
}

func (r *Registry) Close(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remove(token)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// sweep drops idle sessions, at most twice per idle timeout.
// r.mu must be held.
func (r *Registry) sweep(now time.Time) {
	if now.Sub(r.lastSweep) < r.idleTimeout/2 {
		return
	}
	r.lastSweep = now
	for token, e := range r.sessions {
		if now.Sub(e.lastSeen) > r.idleTimeout {
			r.remove(token)
		}
	}
}

// r.mu must be held.
func (r *Registry) remove(token string) {
	delete(r.sessions, token)
	delete(r.pending, token)
}
