// internal/pkg/resilience/state.go
package resilience

import "sync"

// SessionState carries the per-session resilience flags, most importantly
// whether the "working on demo data" notice has already been shown. It is
// threaded through the request context instead of living in a package-level
// variable, so concurrent sessions in one process never interfere.
type SessionState struct {
	mu       sync.Mutex
	notified bool
}

// MarkNotified flips the notice flag and reports whether this call was the
// first one for the session. Many parallel fallback reads may race here;
// exactly one wins.
func (s *SessionState) MarkNotified() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.notified {
		return false
	}
	s.notified = true
	return true
}

// Notified reports whether the session has already been told about the
// fallback mode.
func (s *SessionState) Notified() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notified
}

// Store hands out one SessionState per logical session key.
type Store struct {
	mu     sync.Mutex
	states map[string]*SessionState
}

func NewStore() *Store {
	return &Store{states: make(map[string]*SessionState)}
}

// Get returns the state for a session, creating it on first use.
func (st *Store) Get(sessionKey string) *SessionState {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.states[sessionKey]
	if !ok {
		s = &SessionState{}
		st.states[sessionKey] = s
	}
	return s
}

// Drop forgets a session, typically on logout. The next request under the
// same key starts a fresh session and may be notified again.
func (st *Store) Drop(sessionKey string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.states, sessionKey)
}
