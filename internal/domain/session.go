package domain

import "context"

// SessionTokenKey is the fixed name the bearer credential is stored under.
const SessionTokenKey = "token"

// SessionStore is a client-persisted key-value store scoped by session ID.
// Get returns "" and no error when the key is absent.
type SessionStore interface {
	Get(ctx context.Context, sessionID, key string) (string, error)
	Set(ctx context.Context, sessionID, key, value string) error
	Delete(ctx context.Context, sessionID, key string) error
}
