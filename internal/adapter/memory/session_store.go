// Package memory provides process-local adapters for development and tests.
package memory

import (
	"context"
	"sync"

	"github.com/DinuthRashmika/waste-collector/internal/domain"
)

var _ domain.SessionStore = (*SessionStore)(nil)

// SessionStore keeps session values in a map. Values do not survive a restart.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]map[string]string
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]map[string]string)}
}

func (s *SessionStore) Get(_ context.Context, sessionID, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[sessionID][key], nil
}

func (s *SessionStore) Set(_ context.Context, sessionID, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, ok := s.sessions[sessionID]
	if !ok {
		values = make(map[string]string)
		s.sessions[sessionID] = values
	}
	values[key] = value
	return nil
}

func (s *SessionStore) Delete(_ context.Context, sessionID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	delete(values, key)
	if len(values) == 0 {
		delete(s.sessions, sessionID)
	}
	return nil
}
