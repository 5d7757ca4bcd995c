package wizard

import (
	"sync"
	"time"
)

// UpdatedAt returns the time of the last draft mutation or transition.
func (w *Wizard) UpdatedAt() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.updatedAt
}

// expired reports whether the session has been idle longer than timeout.
func (w *Wizard) expired(timeout time.Duration) bool {
	return time.Since(w.UpdatedAt()) > timeout
}

// SessionStore tracks one open wizard per user. Closing a session
// discards the draft; nothing is persisted.
type SessionStore struct {
	sessions map[int64]*Wizard
	mu       sync.RWMutex
	timeout  time.Duration
}

// NewSessionStore creates a session store with the given idle timeout.
func NewSessionStore(timeout time.Duration) *SessionStore {
	if timeout <= 0 {
		timeout = 30 * time.Minute
	}
	return &SessionStore{
		sessions: make(map[int64]*Wizard),
		timeout:  timeout,
	}
}

// Get returns the user's open session, or nil.
func (ss *SessionStore) Get(userID int64) *Wizard {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	session := ss.sessions[userID]
	if session == nil || session.expired(ss.timeout) {
		return nil
	}
	return session
}

// Open starts a fresh session for the user, replacing any existing one.
func (ss *SessionStore) Open(userID int64, w *Wizard) *Wizard {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.sessions[userID] = w
	return w
}

// Close discards the user's session and its draft.
func (ss *SessionStore) Close(userID int64) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.sessions, userID)
}

// Cleanup removes expired sessions and returns how many were dropped.
func (ss *SessionStore) Cleanup() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	removed := 0
	for userID, session := range ss.sessions {
		if session.expired(ss.timeout) {
			delete(ss.sessions, userID)
			removed++
		}
	}
	return removed
}
