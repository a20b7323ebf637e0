package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"github.com/DinuthRashmika/waste-collector/internal/domain"
)

const (
	FetchErrorPrefix    = "Error fetching confirmed requests: "
	CompleteErrorPrefix = "Error completing request: "
	NoticeCompleted     = "Request marked as complete"
	LoginPath           = "/login"
)

// Snapshot is a copy of a RequestListSync's state that callers may keep.
type Snapshot struct {
	State
	Closed bool
}

// RequestListSync loads a collector's confirmed requests and keeps the local list
// in step with completions. One instance per mounted dashboard.
//
// Network calls are not serialised: two completions for different IDs may be in
// flight at once. Only the state transition is guarded.
type RequestListSync struct {
	api     domain.RequestAPI
	session *Session

	loadOnce sync.Once

	mu      sync.Mutex
	state   State
	notices []string
	closed  bool
}

func NewRequestListSync(api domain.RequestAPI, session *Session) *RequestListSync {
	return &RequestListSync{
		api:     api,
		session: session,
		state:   State{Phase: PhaseLoading},
	}
}

// Load issues the initial read. Only the first call reaches the backend; later
// calls return the current state.
func (r *RequestListSync) Load(ctx context.Context) Snapshot {
	r.loadOnce.Do(func() {
		requests, err := r.fetch(ctx)
		if err != nil {
			slog.WarnContext(ctx, "Failed to load confirmed requests", "session_id", r.session.ID(), "error", err)
			r.dispatch(ctx, LoadFailed{Message: FetchErrorPrefix + displayMessage(err)})
			return
		}
		slog.DebugContext(ctx, "Loaded confirmed requests", "session_id", r.session.ID(), "count", len(requests))
		r.dispatch(ctx, Loaded{Requests: requests})
	})
	return r.Snapshot()
}

func (r *RequestListSync) fetch(ctx context.Context) ([]domain.CollectionRequest, error) {
	token, err := r.session.Token(ctx)
	if err != nil {
		return nil, err
	}
	requests, err := r.api.ListConfirmed(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to list confirmed requests: %w", err)
	}
	return requests, nil
}

// Complete asks the backend to mark requestID completed and drops it from the
// local list on success. The list is never re-fetched. On failure the list stays
// as it was and the error slot carries the reason. Cancelling ctx does not abort
// the backend call.
func (r *RequestListSync) Complete(ctx context.Context, requestID string) error {
	r.mu.Lock()
	closed, known := r.closed, r.state.Phase == PhaseReady && r.state.contains(requestID)
	r.mu.Unlock()
	if closed {
		return domain.ErrViewClosed
	}
	if !known {
		return domain.ErrRequestNotInList
	}

	// The write runs to completion even if the caller goes away; Close decides
	// whether its result is applied.
	ctx = context.WithoutCancel(ctx)

	updated, err := r.complete(ctx, requestID)
	if err != nil {
		slog.WarnContext(ctx, "Failed to complete request", "request_id", requestID, "error", err)
		r.dispatch(ctx, CompleteFailed{Message: CompleteErrorPrefix + displayMessage(err)})
		return fmt.Errorf("failed to complete request %s: %w", requestID, err)
	}

	if updated != nil && updated.Status != "" && updated.Status != domain.StatusCompleted {
		slog.WarnContext(ctx, "Backend accepted completion but reported another status",
			"request_id", requestID, "status", updated.Status)
	}

	if r.dispatch(ctx, Completed{RequestID: requestID}) {
		r.mu.Lock()
		r.notices = append(r.notices, NoticeCompleted)
		r.mu.Unlock()
	}
	slog.InfoContext(ctx, "Request completed", "request_id", requestID, "session_id", r.session.ID())
	return nil
}

func (r *RequestListSync) complete(ctx context.Context, requestID string) (*domain.CollectionRequest, error) {
	token, err := r.session.Token(ctx)
	if err != nil {
		return nil, err
	}
	return r.api.Complete(ctx, token, requestID)
}

// EndSession discards the credential, unmounts this instance and returns the
// path to navigate to. It never fails; a store error is only logged.
func (r *RequestListSync) EndSession(ctx context.Context) string {
	if err := r.session.Clear(ctx); err != nil {
		slog.ErrorContext(ctx, "Failed to clear session on logout", "session_id", r.session.ID(), "error", err)
	}
	r.Close()
	return LoginPath
}

// Close unmounts the instance. Results of calls still in flight are discarded.
func (r *RequestListSync) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
}

func (r *RequestListSync) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	requests := make([]domain.CollectionRequest, len(r.state.Requests))
	copy(requests, r.state.Requests)
	return Snapshot{
		State:  State{Phase: r.state.Phase, Requests: requests, Err: r.state.Err},
		Closed: r.closed,
	}
}

// DrainNotices returns the pending user notices and forgets them.
func (r *RequestListSync) DrainNotices() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	notices := r.notices
	r.notices = nil
	return notices
}

// dispatch applies e unless the instance was closed; it reports whether it did.
func (r *RequestListSync) dispatch(ctx context.Context, e Event) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		slog.DebugContext(ctx, "Discarding state update for closed view", "session_id", r.session.ID(), "event", fmt.Sprintf("%T", e))
		return false
	}
	r.state = Reduce(r.state, e)
	return true
}

// displayMessage prefers the server-supplied message over the transport error.
func displayMessage(err error) string {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err.Error()
	}
	return err.Error()
}
