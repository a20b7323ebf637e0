package app

import (
	"context"
	"errors"
	"testing"

	"github.com/DinuthRashmika/waste-collector/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_TokenRoundtrip(t *testing.T) {
	ctx := context.Background()
	store := newMockSessionStore()
	s := NewSession(store, "sid-1")

	require.NoError(t, s.SetToken(ctx, "abc"))

	token, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", token)
	assert.Equal(t, "abc", store.values["sid-1/"+domain.SessionTokenKey])
}

func TestSession_ClearLeavesEmptyToken(t *testing.T) {
	ctx := context.Background()
	s := NewSession(newMockSessionStore(), "sid-1")
	require.NoError(t, s.SetToken(ctx, "abc"))

	require.NoError(t, s.Clear(ctx))

	token, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestSession_IsolatedByID(t *testing.T) {
	ctx := context.Background()
	store := newMockSessionStore()
	require.NoError(t, NewSession(store, "a").SetToken(ctx, "token-a"))

	token, err := NewSession(store, "b").Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestSession_StoreErrorWrapped(t *testing.T) {
	store := newMockSessionStore()
	store.getErr = errors.New("redis down")

	_, err := NewSession(store, "sid").Token(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read session token")
	assert.ErrorIs(t, err, store.getErr)
}
