package api

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/lookbusy1344/arm-lifter/liftjob"
)

var (
	// ErrSessionNotFound is returned when a session is not found.
	ErrSessionNotFound = errors.New("session not found")
	// ErrTooManySessions is returned when a session create request would
	// exceed the configured maximum.
	ErrTooManySessions = errors.New("too many active sessions")
)

// Session is one active lift job: its id, when it was created, and the
// liftjob.Job holding its instruction batch, emitted IR, and last CFG
// layout.
type Session struct {
	ID        string
	Job       *liftjob.Job
	CreatedAt time.Time
}

// SessionManager manages the set of active lift sessions.
type SessionManager struct {
	sessions    map[string]*Session
	broadcaster *Broadcaster
	maxSessions int
	mu          sync.RWMutex
}

// NewSessionManager creates a session manager. maxSessions <= 0 means
// unbounded.
func NewSessionManager(broadcaster *Broadcaster, maxSessions int) *SessionManager {
	return &SessionManager{
		sessions:    make(map[string]*Session),
		broadcaster: broadcaster,
		maxSessions: maxSessions,
	}
}

// CreateSession allocates a new session with a random hex id and an empty
// liftjob.Job.
func (sm *SessionManager) CreateSession() (*Session, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.maxSessions > 0 && len(sm.sessions) >= sm.maxSessions {
		return nil, ErrTooManySessions
	}

	sessionID, err := generateSessionID()
	if err != nil {
		return nil, err
	}

	session := &Session{
		ID:        sessionID,
		Job:       liftjob.New(),
		CreatedAt: time.Now(),
	}
	sm.sessions[sessionID] = session
	debugLog("session %s created (%d active)", sessionID, len(sm.sessions))
	return session, nil
}

// GetSession returns the session with the given id.
func (sm *SessionManager) GetSession(id string) (*Session, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, ok := sm.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// DestroySession removes a session.
func (sm *SessionManager) DestroySession(id string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, ok := sm.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(sm.sessions, id)
	debugLog("session %s destroyed (%d active)", id, len(sm.sessions))
	return nil
}

// ListSessions returns every active session, oldest first isn't guaranteed
// (map iteration order).
func (sm *SessionManager) ListSessions() []*Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	sessions := make([]*Session, 0, len(sm.sessions))
	for _, s := range sm.sessions {
		sessions = append(sessions, s)
	}
	return sessions
}

// Count returns the number of active sessions.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// generateSessionID creates a cryptographically random 16-byte hex session
// identifier.
func generateSessionID() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
