package app

import (
	"testing"

	"github.com/DinuthRashmika/waste-collector/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestReduce_LoadedFromLoading(t *testing.T) {
	s := Reduce(State{Phase: PhaseLoading}, Loaded{Requests: []domain.CollectionRequest{request("R1"), request("R2")}})

	assert.Equal(t, PhaseReady, s.Phase)
	assert.Equal(t, []string{"R1", "R2"}, ids(s.Requests))
	assert.Empty(t, s.Err)
}

func TestReduce_LoadedKeepsBackendOrder(t *testing.T) {
	s := Reduce(State{Phase: PhaseLoading}, Loaded{Requests: []domain.CollectionRequest{request("Z"), request("A"), request("M")}})

	assert.Equal(t, []string{"Z", "A", "M"}, ids(s.Requests))
}

func TestReduce_LoadedIgnoredOutsideLoading(t *testing.T) {
	ready := State{Phase: PhaseReady, Requests: []domain.CollectionRequest{request("R1")}}
	s := Reduce(ready, Loaded{Requests: []domain.CollectionRequest{request("X")}})

	assert.Equal(t, []string{"R1"}, ids(s.Requests))
}

func TestReduce_LoadFailed(t *testing.T) {
	s := Reduce(State{Phase: PhaseLoading}, LoadFailed{Message: "boom"})

	assert.Equal(t, PhaseFailed, s.Phase)
	assert.Equal(t, "boom", s.Err)
	assert.Empty(t, s.Requests)
}

func TestReduce_CompletedRemovesByID(t *testing.T) {
	ready := State{Phase: PhaseReady, Requests: []domain.CollectionRequest{request("R1"), request("R2")}}
	s := Reduce(ready, Completed{RequestID: "R1"})

	assert.Equal(t, PhaseReady, s.Phase)
	assert.Equal(t, []string{"R2"}, ids(s.Requests))
}

func TestReduce_CompletedDoesNotMutateInput(t *testing.T) {
	ready := State{Phase: PhaseReady, Requests: []domain.CollectionRequest{request("R1"), request("R2")}}
	_ = Reduce(ready, Completed{RequestID: "R1"})

	assert.Equal(t, []string{"R1", "R2"}, ids(ready.Requests))
}

func TestReduce_CompletedUnknownIDIsNoop(t *testing.T) {
	ready := State{Phase: PhaseReady, Requests: []domain.CollectionRequest{request("R2")}}
	s := Reduce(ready, Completed{RequestID: "R1"})

	assert.Equal(t, []string{"R2"}, ids(s.Requests))
}

func TestReduce_CompletedOutOfOrder(t *testing.T) {
	ready := State{Phase: PhaseReady, Requests: []domain.CollectionRequest{request("R1"), request("R2"), request("R3")}}

	s := Reduce(ready, Completed{RequestID: "R3"})
	s = Reduce(s, Completed{RequestID: "R1"})

	assert.Equal(t, []string{"R2"}, ids(s.Requests))
}

func TestReduce_CompleteFailedKeepsList(t *testing.T) {
	ready := State{Phase: PhaseReady, Requests: []domain.CollectionRequest{request("R1")}}
	s := Reduce(ready, CompleteFailed{Message: "nope"})

	assert.Equal(t, PhaseReady, s.Phase)
	assert.Equal(t, []string{"R1"}, ids(s.Requests))
	assert.Equal(t, "nope", s.Err)
}

func TestReduce_CompleteFailedIgnoredWhileLoading(t *testing.T) {
	s := Reduce(State{Phase: PhaseLoading}, CompleteFailed{Message: "nope"})

	assert.Equal(t, PhaseLoading, s.Phase)
	assert.Empty(t, s.Err)
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "loading", PhaseLoading.String())
	assert.Equal(t, "ready", PhaseReady.String())
	assert.Equal(t, "failed", PhaseFailed.String())
	assert.Equal(t, "unknown", Phase(42).String())
}
