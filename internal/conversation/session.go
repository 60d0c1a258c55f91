package conversation

import (
	"sync"

	"github.com/acme/voice-dialer/internal/domain"
)

// Session is the ephemeral state of one answered call. The telephony
// provider issues markup requests for a call sequentially, so fields need no
// per-session locking once the session is handed out.
type Session struct {
	CallID        string
	State         domain.SessionState
	LastUtterance string
	LastReply     string
	LastAudio     string
}

// SessionStore tracks in-progress call sessions by provider call id.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewSessionStore creates an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*Session)}
}

// Obtain returns the session for callID, creating it when the call is seen
// for the first time. The second return value reports whether it was created.
func (s *SessionStore) Obtain(callID string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[callID]; ok {
		return session, false
	}
	session := &Session{CallID: callID, State: domain.SessionStateIntro}
	s.sessions[callID] = session
	return session, true
}

// Remove destroys the session for callID, if any.
func (s *SessionStore) Remove(callID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, callID)
}

// Len reports the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
