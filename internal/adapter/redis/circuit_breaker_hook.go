package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	goredis "github.com/redis/go-redis/v9"

	"github.com/DinuthRashmika/waste-collector/internal/adapter/metrics"
)

const breakerComponent = "redis"

// BreakerSettings tunes the Redis circuit breaker.
type BreakerSettings struct {
	FailureThreshold uint          // consecutive failures that open the breaker
	Delay            time.Duration // time open before a half-open trial
	SuccessThreshold uint          // successful trials needed to close again
}

func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		FailureThreshold: 5,
		Delay:            30 * time.Second,
		SuccessThreshold: 1,
	}
}

// CircuitBreakerHook implements redis.Hook and fails every command fast while
// Redis is unavailable. There is no cached fallback: a session read served from
// a stale copy could resurrect a token that was cleared on logout.
type CircuitBreakerHook struct {
	cb circuitbreaker.CircuitBreaker[any]
}

var _ goredis.Hook = (*CircuitBreakerHook)(nil)

func NewCircuitBreakerHook(settings BreakerSettings, m *metrics.BreakerMetrics) *CircuitBreakerHook {
	cb := circuitbreaker.NewBuilder[any]().
		WithFailureThreshold(settings.FailureThreshold).
		WithDelay(settings.Delay).
		WithSuccessThreshold(settings.SuccessThreshold).
		OnStateChanged(func(e circuitbreaker.StateChangedEvent) {
			slog.Warn("Circuit breaker state changed",
				"component", breakerComponent,
				"from", e.OldState.String(),
				"to", e.NewState.String(),
			)
			m.Transition(breakerComponent, e.NewState.String(), stateToFloat(e.NewState))
		}).
		Build()

	return &CircuitBreakerHook{cb: cb}
}

func stateToFloat(state circuitbreaker.State) float64 {
	switch state {
	case circuitbreaker.ClosedState:
		return 0
	case circuitbreaker.HalfOpenState:
		return 1
	case circuitbreaker.OpenState:
		return 2
	default:
		return -1
	}
}

func (h *CircuitBreakerHook) DialHook(next goredis.DialHook) goredis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		if !h.cb.TryAcquirePermit() {
			return nil, fmt.Errorf("redis circuit breaker open: %w", circuitbreaker.ErrOpen)
		}
		conn, err := next(ctx, network, addr)
		if err != nil {
			h.cb.RecordError(err)
			return nil, err
		}
		h.cb.RecordSuccess()
		return conn, nil
	}
}

func (h *CircuitBreakerHook) ProcessHook(next goredis.ProcessHook) goredis.ProcessHook {
	return func(ctx context.Context, cmd goredis.Cmder) error {
		if !h.cb.TryAcquirePermit() {
			err := fmt.Errorf("redis circuit breaker open: %w", circuitbreaker.ErrOpen)
			cmd.SetErr(err)
			return err
		}

		err := next(ctx, cmd)
		h.record(err)
		return err
	}
}

func (h *CircuitBreakerHook) ProcessPipelineHook(next goredis.ProcessPipelineHook) goredis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []goredis.Cmder) error {
		if !h.cb.TryAcquirePermit() {
			return fmt.Errorf("redis circuit breaker open: %w", circuitbreaker.ErrOpen)
		}

		err := next(ctx, cmds)
		h.record(err)
		return err
	}
}

// record counts a result. A missing key is an answer, not a failure.
func (h *CircuitBreakerHook) record(err error) {
	if err != nil && !errors.Is(err, goredis.Nil) {
		h.cb.RecordError(err)
		return
	}
	h.cb.RecordSuccess()
}

// State returns the current breaker state.
func (h *CircuitBreakerHook) State() circuitbreaker.State {
	return h.cb.State()
}
