package resilience

import (
	"log/slog"
	"sync"
	"time"

	"crs-booking-engine/internal/pkg/clock"
	"crs-booking-engine/internal/pkg/config"
	"crs-booking-engine/internal/pkg/errs"
)

type BreakerState int

const (
	StateClosed BreakerState = iota
	StateOpen
	StateHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// CircuitBreaker guards one external operation class (availability, pricing,
// reservation). State is per-process and shared by all concurrent callers;
// transitions are logged for the audit trail.
type CircuitBreaker struct {
	name             string
	failureThreshold int
	resetTimeout     time.Duration
	clock            clock.Clock

	mu                  sync.Mutex
	state               BreakerState
	consecutiveFailures int
	lastFailureTime     time.Time
	probeInFlight       bool
}

func NewCircuitBreaker(name string, cfg config.BreakerConfig, clk clock.Clock) *CircuitBreaker {
	return &CircuitBreaker{
		name:             name,
		failureThreshold: cfg.FailureThreshold,
		resetTimeout:     cfg.ResetTimeout,
		clock:            clk,
		state:            StateClosed,
	}
}

// Call runs fn through the breaker. In OPEN state it fails fast with
// errs.ErrCircuitOpen without invoking fn; once the reset timeout elapses a
// single HALF_OPEN probe is admitted.
func Call[T any](cb *CircuitBreaker, fn func() (T, error)) (T, error) {
	var zero T
	if err := cb.before(); err != nil {
		return zero, err
	}

	result, err := fn()
	cb.after(err)
	return result, err
}

func (cb *CircuitBreaker) before() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateOpen:
		if cb.clock.Now().Sub(cb.lastFailureTime) < cb.resetTimeout {
			return errs.ErrCircuitOpen
		}
		cb.setState(StateHalfOpen)
		cb.probeInFlight = true
		return nil
	case StateHalfOpen:
		if cb.probeInFlight {
			return errs.ErrCircuitOpen
		}
		cb.probeInFlight = true
		return nil
	default:
		return nil
	}
}

func (cb *CircuitBreaker) after(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateHalfOpen {
		cb.probeInFlight = false
		if err != nil {
			cb.lastFailureTime = cb.clock.Now()
			cb.setState(StateOpen)
			return
		}
		cb.consecutiveFailures = 0
		cb.setState(StateClosed)
		return
	}

	if err == nil {
		cb.consecutiveFailures = 0
		return
	}

	cb.consecutiveFailures++
	cb.lastFailureTime = cb.clock.Now()
	if cb.state == StateClosed && cb.consecutiveFailures >= cb.failureThreshold {
		cb.setState(StateOpen)
	}
}

// setState assumes cb.mu is held.
func (cb *CircuitBreaker) setState(next BreakerState) {
	if cb.state == next {
		return
	}
	prev := cb.state
	cb.state = next
	slog.Info("circuit breaker state changed",
		"breaker", cb.name,
		"from", prev.String(),
		"to", next.String(),
		"consecutive_failures", cb.consecutiveFailures)
}

func (cb *CircuitBreaker) State() BreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *CircuitBreaker) Name() string {
	return cb.name
}
