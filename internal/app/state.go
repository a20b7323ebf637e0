package app

import "github.com/DinuthRashmika/waste-collector/internal/domain"

type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReady
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is the local view of the collector's confirmed requests. Err is the single
// displayed error string; in PhaseFailed it replaces the list, in PhaseReady it is
// shown next to it.
type State struct {
	Phase    Phase
	Requests []domain.CollectionRequest
	Err      string
}

// Event is a transition input for Reduce.
type Event interface {
	apply(s State) State
}

// Loaded carries the backend's answer to the initial read.
type Loaded struct {
	Requests []domain.CollectionRequest
}

// LoadFailed carries the display message of a failed initial read.
type LoadFailed struct {
	Message string
}

// Completed reports that the backend accepted the completion of RequestID.
type Completed struct {
	RequestID string
}

// CompleteFailed carries the display message of a failed completion.
type CompleteFailed struct {
	Message string
}

// Reduce applies e to s and returns the new state. s is not modified.
func Reduce(s State, e Event) State {
	return e.apply(s)
}

func (e Loaded) apply(s State) State {
	if s.Phase != PhaseLoading {
		return s
	}
	requests := make([]domain.CollectionRequest, len(e.Requests))
	copy(requests, e.Requests)
	return State{Phase: PhaseReady, Requests: requests}
}

func (e LoadFailed) apply(s State) State {
	if s.Phase != PhaseLoading {
		return s
	}
	return State{Phase: PhaseFailed, Err: e.Message}
}

// Removal is keyed by ID so completions arriving out of order each drop their own entry.
func (e Completed) apply(s State) State {
	if s.Phase != PhaseReady {
		return s
	}
	remaining := make([]domain.CollectionRequest, 0, len(s.Requests))
	for _, r := range s.Requests {
		if r.ID != e.RequestID {
			remaining = append(remaining, r)
		}
	}
	return State{Phase: PhaseReady, Requests: remaining, Err: s.Err}
}

func (e CompleteFailed) apply(s State) State {
	if s.Phase != PhaseReady {
		return s
	}
	requests := make([]domain.CollectionRequest, len(s.Requests))
	copy(requests, s.Requests)
	return State{Phase: PhaseReady, Requests: requests, Err: e.Message}
}

func (s State) contains(requestID string) bool {
	for _, r := range s.Requests {
		if r.ID == requestID {
			return true
		}
	}
	return false
}
