package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/DinuthRashmika/waste-collector/internal/domain"
)

// ViewMetrics observes the number of mounted views.
type ViewMetrics interface {
	SetMounted(n int)
}

type mountedView struct {
	sync      *RequestListSync
	sessionID string
	lastSeen  time.Time
}

// Views keeps one RequestListSync per mounted dashboard. A view belongs to the
// session that mounted it and is unmounted on logout or after being idle for ttl.
type Views struct {
	api     domain.RequestAPI
	store   domain.SessionStore
	clock   clockwork.Clock
	ttl     time.Duration
	metrics ViewMetrics

	mu    sync.Mutex
	views map[uuid.UUID]*mountedView
}

// NewViews creates a view registry. metrics may be nil.
func NewViews(api domain.RequestAPI, store domain.SessionStore, clock clockwork.Clock, ttl time.Duration, metrics ViewMetrics) *Views {
	return &Views{
		api:     api,
		store:   store,
		clock:   clock,
		ttl:     ttl,
		metrics: metrics,
		views:   make(map[uuid.UUID]*mountedView),
	}
}

// Mount creates a view for sessionID and starts its initial load in the background.
// The load outlives ctx's cancellation but keeps its values (correlation ID).
func (v *Views) Mount(ctx context.Context, sessionID string) (uuid.UUID, *RequestListSync) {
	viewID := uuid.New()
	rls := NewRequestListSync(v.api, NewSession(v.store, sessionID))

	v.mu.Lock()
	v.views[viewID] = &mountedView{sync: rls, sessionID: sessionID, lastSeen: v.clock.Now()}
	n := len(v.views)
	v.mu.Unlock()
	v.observe(n)

	slog.InfoContext(ctx, "View mounted", "view_id", viewID, "session_id", sessionID)

	loadCtx := context.WithoutCancel(ctx)
	go rls.Load(loadCtx)

	return viewID, rls
}

// Get returns the view if it exists and belongs to sessionID.
func (v *Views) Get(viewID uuid.UUID, sessionID string) (*RequestListSync, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	mv, ok := v.views[viewID]
	if !ok || mv.sessionID != sessionID {
		return nil, domain.ErrViewNotFound
	}
	mv.lastSeen = v.clock.Now()
	return mv.sync, nil
}

func (v *Views) Unmount(viewID uuid.UUID) {
	v.mu.Lock()
	mv, ok := v.views[viewID]
	if ok {
		delete(v.views, viewID)
	}
	n := len(v.views)
	v.mu.Unlock()

	if ok {
		mv.sync.Close()
		v.observe(n)
	}
}

// UnmountSession closes every view of sessionID and returns how many there were.
func (v *Views) UnmountSession(sessionID string) int {
	return v.unmountWhere(func(mv *mountedView) bool {
		return mv.sessionID == sessionID
	})
}

// EvictIdle unmounts views not accessed within the ttl.
func (v *Views) EvictIdle() int {
	cutoff := v.clock.Now().Add(-v.ttl)
	return v.unmountWhere(func(mv *mountedView) bool {
		return mv.lastSeen.Before(cutoff)
	})
}

func (v *Views) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.views)
}

func (v *Views) unmountWhere(match func(*mountedView) bool) int {
	v.mu.Lock()
	var closed []*RequestListSync
	for id, mv := range v.views {
		if match(mv) {
			closed = append(closed, mv.sync)
			delete(v.views, id)
		}
	}
	n := len(v.views)
	v.mu.Unlock()

	for _, rls := range closed {
		rls.Close()
	}
	if len(closed) > 0 {
		v.observe(n)
	}
	return len(closed)
}

// StartEvictionTimer periodically unmounts idle views.
// Returns a stop function that should be deferred.
func (v *Views) StartEvictionTimer(interval time.Duration) func() {
	ticker := v.clock.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.Chan():
				if evicted := v.EvictIdle(); evicted > 0 {
					slog.Debug("Evicted idle views", "count", evicted, "remaining", v.Len())
				}
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	return func() {
		close(done)
	}
}

func (v *Views) observe(n int) {
	if v.metrics != nil {
		v.metrics.SetMounted(n)
	}
}
