//go:build unit

package resilience_test

import (
	"context"
	"errors"
	"net"
	"syscall"
	"testing"
	"time"

	"crs-booking-engine/internal/pkg/resilience"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy() resilience.Policy {
	return resilience.Policy{
		MaxRetries:     3,
		BaseDelay:      time.Millisecond,
		MaxDelay:       4 * time.Millisecond,
		AttemptTimeout: 100 * time.Millisecond,
	}
}

type retryableErr struct{ msg string }

func (e retryableErr) Error() string   { return e.msg }
func (e retryableErr) Retryable() bool { return true }

type fatalErr struct{ msg string }

func (e fatalErr) Error() string   { return e.msg }
func (e fatalErr) Retryable() bool { return false }

func TestExecute(t *testing.T) {
	t.Run("succeeds first attempt", func(t *testing.T) {
		calls := 0
		result, err := resilience.Execute(context.Background(), fastPolicy(), "op", func(_ context.Context) (int, error) {
			calls++
			return 42, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 42, result)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries then succeeds after maxRetries failures", func(t *testing.T) {
		calls := 0
		result, err := resilience.Execute(context.Background(), fastPolicy(), "op", func(_ context.Context) (string, error) {
			calls++
			if calls <= 3 {
				return "", retryableErr{msg: "blip"}
			}
			return "ok", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", result)
		assert.Equal(t, 4, calls)
	})

	t.Run("fatal error invoked exactly once", func(t *testing.T) {
		calls := 0
		_, err := resilience.Execute(context.Background(), fastPolicy(), "op", func(_ context.Context) (int, error) {
			calls++
			return 0, fatalErr{msg: "rejected"}
		})
		require.Error(t, err)
		assert.Equal(t, 1, calls)

		var exhausted *resilience.ExhaustedError
		assert.False(t, errors.As(err, &exhausted))
	})

	t.Run("exhausted retries wraps last failure and attempt count", func(t *testing.T) {
		calls := 0
		underlying := retryableErr{msg: "still down"}
		_, err := resilience.Execute(context.Background(), fastPolicy(), "availability", func(_ context.Context) (int, error) {
			calls++
			return 0, underlying
		})
		require.Error(t, err)
		assert.Equal(t, 4, calls)

		var exhausted *resilience.ExhaustedError
		require.True(t, errors.As(err, &exhausted))
		assert.Equal(t, 4, exhausted.Attempts)
		assert.Equal(t, "availability", exhausted.Operation)
		assert.ErrorIs(t, err, underlying)
	})

	t.Run("attempt timeout is retryable", func(t *testing.T) {
		policy := fastPolicy()
		policy.AttemptTimeout = 5 * time.Millisecond
		policy.MaxRetries = 1

		calls := 0
		_, err := resilience.Execute(context.Background(), policy, "op", func(ctx context.Context) (int, error) {
			calls++
			<-ctx.Done()
			time.Sleep(time.Millisecond)
			return 0, ctx.Err()
		})
		require.Error(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("cancelled context aborts the backoff wait", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		policy := fastPolicy()
		policy.BaseDelay = time.Minute
		policy.MaxDelay = time.Minute

		calls := 0
		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()
		_, err := resilience.Execute(ctx, policy, "op", func(_ context.Context) (int, error) {
			calls++
			return 0, retryableErr{msg: "blip"}
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "deadline exceeded", err: context.DeadlineExceeded, want: true},
		{name: "connection reset", err: syscall.ECONNRESET, want: true},
		{name: "connection refused", err: syscall.ECONNREFUSED, want: true},
		{name: "dns failure", err: &net.DNSError{Name: "crs.example.com", IsNotFound: true}, want: true},
		{name: "self-reported retryable", err: retryableErr{msg: "503"}, want: true},
		{name: "self-reported fatal", err: fatalErr{msg: "400"}, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, resilience.IsRetryable(c.err))
		})
	}
}
