package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"syscall"
	"time"

	"crs-booking-engine/internal/pkg/config"
)

// Policy controls the retry loop wrapped around every external CRS call.
// Each attempt races against AttemptTimeout; a fired timeout abandons the
// attempt and counts as a retryable failure.
type Policy struct {
	MaxRetries     int
	BaseDelay      time.Duration
	MaxDelay       time.Duration
	AttemptTimeout time.Duration
}

func NewPolicy(cfg config.RetryConfig) Policy {
	return Policy{
		MaxRetries:     cfg.MaxRetries,
		BaseDelay:      cfg.BaseDelay,
		MaxDelay:       cfg.MaxDelay,
		AttemptTimeout: cfg.AttemptTimeout,
	}
}

func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:     3,
		BaseDelay:      time.Second,
		MaxDelay:       5 * time.Second,
		AttemptTimeout: 10 * time.Second,
	}
}

// ExhaustedError wraps the last underlying failure once MaxRetries is spent.
type ExhaustedError struct {
	Operation string
	Attempts  int
	Last      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("operation %q failed after %d attempts: %v", e.Operation, e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}

// Retryable is implemented by errors that carry their own transience
// classification (e.g. provider HTTP errors for 5xx/429).
type Retryable interface {
	Retryable() bool
}

// IsRetryable classifies a failure as transient: attempt timeout, connection
// reset/refused, DNS failure, or an error that self-reports as retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var r Retryable
	if errors.As(err, &r) {
		return r.Retryable()
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return false
}

// Execute runs fn under the retry policy. Fatal (non-retryable) failures
// propagate immediately; retryable ones are retried with exponential backoff
// capped at MaxDelay. Exhausting all retries yields an ExhaustedError.
func Execute[T any](ctx context.Context, p Policy, operation string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 1; attempt <= p.MaxRetries+1; attempt++ {
		result, err := runAttempt(ctx, p.AttemptTimeout, fn)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !IsRetryable(err) {
			return zero, err
		}

		if attempt == p.MaxRetries+1 {
			break
		}

		delay := backoffDelay(p, attempt)
		slog.Warn("retrying operation after transient failure",
			"operation", operation,
			"attempt", attempt,
			"delay", delay,
			"error", err)

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delay):
		}
	}

	slog.Error("operation failed after max retries",
		"operation", operation,
		"attempts", p.MaxRetries+1,
		"error", lastErr)

	return zero, &ExhaustedError{Operation: operation, Attempts: p.MaxRetries + 1, Last: lastErr}
}

// runAttempt races fn against the per-attempt timeout. A timed-out attempt is
// abandoned rather than cancelled cooperatively; the goroutine drains into a
// buffered channel so it cannot leak a send.
func runAttempt[T any](ctx context.Context, timeout time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		result T
		err    error
	}
	done := make(chan outcome, 1)

	go func() {
		result, err := fn(attemptCtx)
		done <- outcome{result: result, err: err}
	}()

	select {
	case o := <-done:
		return o.result, o.err
	case <-attemptCtx.Done():
		var zero T
		return zero, attemptCtx.Err()
	}
}

func backoffDelay(p Policy, attempt int) time.Duration {
	delay := p.BaseDelay << (attempt - 1)
	if delay > p.MaxDelay || delay <= 0 {
		delay = p.MaxDelay
	}
	return delay
}
