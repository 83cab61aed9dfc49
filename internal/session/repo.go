package session

import (
	"errors"
	"sync"
	"time"

	"pointscalc/internal/attribute"
	"pointscalc/internal/goal"
	"pointscalc/internal/utils"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for tokens that were never issued or have expired.
var ErrSessionNotFound = errors.New("session not found")

// Change records one accepted mutation of a session.
type Change struct {
	Field string    `json:"field"`
	Value string    `json:"value"`
	At    time.Time `json:"at"`
}

// Session is the state owned by one calculator user: the attribute set
// being edited and the goal it is measured against.
type Session struct {
	Attributes attribute.Set
	Goal       int

	history *utils.RingBuffer[Change]
	updated time.Time
}

// Snapshot is a copy of a session that is safe to read without locking.
type Snapshot struct {
	Token      string        `json:"token"`
	Attributes attribute.Set `json:"attributes"`
	Goal       int           `json:"goal"`
}

// Mutation changes a session in place and describes what it changed.
type Mutation func(s *Session) Change

// Repository is a thread-safe in-memory store of sessions. Sessions that
// were not touched for longer than the TTL are removed by a background
// cleanup loop. Nothing is persisted; a restart forgets every session.
//
// Example:
//
//	repo := session.NewRepository(30*time.Minute, 20)
//	go repo.Serve()
//	defer repo.Stop()
//	s := repo.Create()
type Repository struct {
	ttl           time.Duration // idle time after which a session expires
	historyLength int           // number of changes kept per session

	sessions map[string]*Session
	mu       sync.RWMutex

	now  func() time.Time
	done chan struct{}
	once sync.Once
}

// Create starts a new session with the default attribute set and the
// minimum goal.
func (r *Repository) Create() Snapshot {
	s := &Session{
		Goal:    goal.MinimumThreshold,
		history: utils.NewRingBuffer[Change](r.historyLength),
		updated: r.now(),
	}
	token := uuid.NewString()

	r.mu.Lock()
	r.sessions[token] = s
	r.mu.Unlock()

	return snapshot(token, s)
}

// Get returns a copy of the session and marks it as recently used.
func (r *Repository) Get(token string) (Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, found := r.sessions[token]
	if !found {
		return Snapshot{}, false
	}
	s.updated = r.now()
	return snapshot(token, s), true
}

// Update applies mutate to the session under the repository lock, records
// the change in the session history and returns the resulting state.
func (r *Repository) Update(token string, mutate Mutation) (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, found := r.sessions[token]
	if !found {
		return Snapshot{}, ErrSessionNotFound
	}

	change := mutate(s)
	s.updated = r.now()
	change.At = s.updated
	s.history.Push(change)

	return snapshot(token, s), nil
}

// History returns the recorded changes of a session from the oldest to the newest.
func (r *Repository) History(token string) ([]Change, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, found := r.sessions[token]
	if !found {
		return nil, false
	}
	return s.history.ToSlice(), true
}

// Delete removes a session. Deleting an unknown token is not an error.
func (r *Repository) Delete(token string) {
	r.mu.Lock()
	delete(r.sessions, token)
	r.mu.Unlock()
}

// Len returns the number of live sessions.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Cleanup removes every session idle for longer than the TTL and returns
// how many were removed.
func (r *Repository) Cleanup() int {
	var outdated []string

	r.mu.RLock()
	now := r.now()
	for token, s := range r.sessions {
		if now.Sub(s.updated) > r.ttl {
			outdated = append(outdated, token)
		}
	}
	r.mu.RUnlock()

	if len(outdated) == 0 {
		return 0
	}

	removed := 0
	r.mu.Lock()
	for _, token := range outdated {
		// The session may have been touched since it was collected.
		if s, found := r.sessions[token]; found && now.Sub(s.updated) > r.ttl {
			delete(r.sessions, token)
			removed++
		}
	}
	r.mu.Unlock()
	return removed
}

// Serve runs Cleanup once a minute until Stop is called. It blocks and
// should be started in its own goroutine:
//
//	go repo.Serve()
func (r *Repository) Serve() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.Cleanup()
		case <-r.done:
			return
		}
	}
}

// Stop ends the cleanup loop. It is safe to call more than once and before Serve.
func (r *Repository) Stop() {
	r.once.Do(func() { close(r.done) })
}

func snapshot(token string, s *Session) Snapshot {
	return Snapshot{Token: token, Attributes: s.Attributes, Goal: s.Goal}
}

// NewRepository creates an empty repository.
// Parameters:
//   - ttl: idle time after which a session is removed by the cleanup loop.
//   - historyLength: number of changes kept per session; older ones are overwritten.
//
// Call Serve in a separate goroutine to start the cleanup.
func NewRepository(ttl time.Duration, historyLength int) *Repository {
	return &Repository{
		ttl:           ttl,
		historyLength: historyLength,
		sessions:      make(map[string]*Session),
		now:           time.Now,
		done:          make(chan struct{}),
	}
}
