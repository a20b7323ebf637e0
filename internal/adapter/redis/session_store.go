package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/DinuthRashmika/waste-collector/internal/domain"
	"github.com/DinuthRashmika/waste-collector/internal/platform/crypto"
)

var _ domain.SessionStore = (*SessionStore)(nil)

// SessionStore keeps session values under session:{id}:{key}, encrypted and
// bound to the session id. Every write refreshes the TTL.
type SessionStore struct {
	rdb    goredis.Cmdable
	crypto crypto.Service
	ttl    time.Duration
}

func NewSessionStore(rdb goredis.Cmdable, cryptoSvc crypto.Service, ttl time.Duration) *SessionStore {
	return &SessionStore{rdb: rdb, crypto: cryptoSvc, ttl: ttl}
}

func sessionKey(sessionID, key string) string {
	return "session:" + sessionID + ":" + key
}

func (s *SessionStore) Get(ctx context.Context, sessionID, key string) (string, error) {
	stored, err := s.rdb.Get(ctx, sessionKey(sessionID, key)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session value: %w", err)
	}

	value, err := s.crypto.Decrypt(stored, sessionID)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt session value: %w", err)
	}
	return value, nil
}

func (s *SessionStore) Set(ctx context.Context, sessionID, key, value string) error {
	encrypted, err := s.crypto.Encrypt(value, sessionID)
	if err != nil {
		return fmt.Errorf("failed to encrypt session value: %w", err)
	}

	if err := s.rdb.Set(ctx, sessionKey(sessionID, key), encrypted, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write session value: %w", err)
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, sessionID, key string) error {
	if err := s.rdb.Del(ctx, sessionKey(sessionID, key)).Err(); err != nil {
		return fmt.Errorf("failed to delete session value: %w", err)
	}
	return nil
}
