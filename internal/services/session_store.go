package services

import "sync"

// DefaultSessionID is used when a caller supplies no session header.
// Callers sharing it will observe each other's documents; a real
// session mechanism is required before multi-tenant use.
const DefaultSessionID = "default"

// SessionStore maps a session identifier to the most recently
// extracted document text for that session. Entries live for the
// process lifetime; a new upload overwrites the prior value.
type SessionStore struct {
	mu   sync.RWMutex
	docs map[string]string
}

func NewSessionStore() *SessionStore {
	return &SessionStore{docs: make(map[string]string)}
}

func (s *SessionStore) Put(sessionID, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[sessionID] = text
}

func (s *SessionStore) Get(sessionID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	text, ok := s.docs[sessionID]
	return text, ok
}
