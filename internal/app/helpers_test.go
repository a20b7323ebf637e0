package app

import (
	"context"
	"errors"
	"sync"

	"github.com/DinuthRashmika/waste-collector/internal/domain"
)

// --- Mock implementations ---

type mockSessionStore struct {
	mu     sync.Mutex
	values map[string]string
	getErr error
	delErr error
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{values: make(map[string]string)}
}

func (m *mockSessionStore) Get(_ context.Context, sessionID, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", m.getErr
	}
	return m.values[sessionID+"/"+key], nil
}

func (m *mockSessionStore) Set(_ context.Context, sessionID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[sessionID+"/"+key] = value
	return nil
}

func (m *mockSessionStore) Delete(_ context.Context, sessionID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.delErr != nil {
		return m.delErr
	}
	delete(m.values, sessionID+"/"+key)
	return nil
}

// fakeRequestAPI is a function-field double for tests that need to block or count.
type fakeRequestAPI struct {
	listFn     func(ctx context.Context, token string) ([]domain.CollectionRequest, error)
	completeFn func(ctx context.Context, token, requestID string) (*domain.CollectionRequest, error)
}

func (f *fakeRequestAPI) ListConfirmed(ctx context.Context, token string) ([]domain.CollectionRequest, error) {
	if f.listFn != nil {
		return f.listFn(ctx, token)
	}
	return nil, errors.New("not implemented")
}

func (f *fakeRequestAPI) Complete(ctx context.Context, token, requestID string) (*domain.CollectionRequest, error) {
	if f.completeFn != nil {
		return f.completeFn(ctx, token, requestID)
	}
	return nil, errors.New("not implemented")
}

// --- Test helpers ---

func ptr(f float64) *float64 { return &f }

func request(id string) domain.CollectionRequest {
	return domain.CollectionRequest{
		ID:         id,
		User:       domain.RequestUser{Name: "user-" + id},
		Address:    "Address " + id,
		AddressLat: ptr(6.9271),
		AddressLng: ptr(79.8612),
		Status:     domain.StatusConfirmed,
	}
}

func ids(requests []domain.CollectionRequest) []string {
	out := make([]string, 0, len(requests))
	for _, r := range requests {
		out = append(out, r.ID)
	}
	return out
}
