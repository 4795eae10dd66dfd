package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastBackoff keeps test sleeps in the microsecond range.
func fastBackoff() Backoff {
	return Backoff{Attempts: 3, Base: time.Microsecond, Cap: time.Millisecond}
}

func TestRetry_FirstAttemptSucceeds(t *testing.T) {
	calls := 0
	got, err := Retry(context.Background(), fastBackoff(), func(ctx context.Context) (string, error) {
		calls++
		return "organic results", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "organic results", got)
	assert.Equal(t, 1, calls)
}

func TestRetry_RecoversFromRetryableFailures(t *testing.T) {
	calls := 0
	got, err := Retry(context.Background(), fastBackoff(), func(ctx context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, MarkRetryable(errors.New("rate limited"), 429)
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 3, calls)
}

func TestRetry_PermanentErrorStopsImmediately(t *testing.T) {
	permanent := errors.New("serper: status 403: bad key")
	calls := 0
	_, err := Retry(context.Background(), fastBackoff(), func(ctx context.Context) (int, error) {
		calls++
		return 0, permanent
	})
	require.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestRetry_BudgetExhaustedReturnsLastError(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), fastBackoff(), func(ctx context.Context) (int, error) {
		calls++
		return 0, MarkRetryable(errors.New("still down"), 503)
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)

	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 503, pe.Status)
}

func TestRetry_ContextCancelStopsRetrying(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := Retry(ctx, Backoff{Attempts: 5, Base: time.Hour}, func(ctx context.Context) (int, error) {
		calls++
		cancel()
		return 0, MarkRetryable(errors.New("flaky"), 0)
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls, "no attempts after cancellation")
}

func TestRetry_CustomRetryablePredicate(t *testing.T) {
	sentinel := errors.New("try again")
	b := fastBackoff()
	b.Retryable = func(err error) bool { return errors.Is(err, sentinel) }

	calls := 0
	got, err := Retry(context.Background(), b, func(ctx context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", sentinel
		}
		return "second time lucky", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "second time lucky", got)
	assert.Equal(t, 2, calls)
}

func TestRetry_NotifySeesEveryScheduledRetry(t *testing.T) {
	var attempts []int
	b := fastBackoff()
	b.Notify = func(attempt int, err error) {
		attempts = append(attempts, attempt)
		assert.Error(t, err)
	}

	_, err := Retry(context.Background(), b, func(ctx context.Context) (int, error) {
		return 0, MarkRetryable(errors.New("rate limited"), 429)
	})
	require.Error(t, err)
	// Two retries follow three attempts; the final failure is not a retry.
	assert.Equal(t, []int{1, 2}, attempts)
}

func TestBackoff_DelayDoublesAndStaysCapped(t *testing.T) {
	b := Backoff{Base: time.Second, Cap: 3 * time.Second, Jitter: 0.2}.withDefaults()

	first := b.delay(0)
	assert.InDelta(t, float64(time.Second), float64(first), float64(time.Second)*0.21)

	second := b.delay(1)
	assert.InDelta(t, float64(2*time.Second), float64(second), float64(2*time.Second)*0.21)

	// Far past the cap, the jittered delay still hugs the cap.
	huge := b.delay(40)
	assert.InDelta(t, float64(3*time.Second), float64(huge), float64(3*time.Second)*0.21)
	assert.Greater(t, huge, time.Duration(0))
}

func TestBackoff_ZeroValueDefaults(t *testing.T) {
	b := Backoff{}.withDefaults()
	assert.Equal(t, 3, b.Attempts)
	assert.Equal(t, time.Second, b.Base)
	assert.Equal(t, 20*time.Second, b.Cap)
	assert.InDelta(t, 0.2, b.Jitter, 0.001)
}
