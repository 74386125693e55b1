package memory

import (
	"context"
	"strings"
	"sync"

	"clubsync/contexts/identity-access/auth-service/ports"
)

// Store keeps sessions in memory for tests and local wiring.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]ports.Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]ports.Session)}
}

func (s *Store) SetSession(session ports.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.SessionID] = session
}

func (s *Store) GetSession(_ context.Context, sessionID string) (ports.Session, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, found := s.sessions[strings.TrimSpace(sessionID)]
	return session, found, nil
}
