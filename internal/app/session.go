package app

import (
	"context"
	"fmt"

	"github.com/DinuthRashmika/waste-collector/internal/domain"
)

// Session is the explicit session context handed to a RequestListSync: the
// credential of one session ID in a SessionStore.
type Session struct {
	store domain.SessionStore
	id    string
}

func NewSession(store domain.SessionStore, sessionID string) *Session {
	return &Session{store: store, id: sessionID}
}

func (s *Session) ID() string {
	return s.id
}

// Token returns the bearer credential, or "" when the session has none.
func (s *Session) Token(ctx context.Context) (string, error) {
	token, err := s.store.Get(ctx, s.id, domain.SessionTokenKey)
	if err != nil {
		return "", fmt.Errorf("failed to read session token: %w", err)
	}
	return token, nil
}

func (s *Session) SetToken(ctx context.Context, token string) error {
	if err := s.store.Set(ctx, s.id, domain.SessionTokenKey, token); err != nil {
		return fmt.Errorf("failed to store session token: %w", err)
	}
	return nil
}

func (s *Session) Clear(ctx context.Context) error {
	if err := s.store.Delete(ctx, s.id, domain.SessionTokenKey); err != nil {
		return fmt.Errorf("failed to clear session token: %w", err)
	}
	return nil
}
