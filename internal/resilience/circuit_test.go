package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testBreaker returns a breaker with injectable time.
func testBreaker(threshold int, cooldown time.Duration) (*Breaker, *time.Time) {
	b := NewBreaker(threshold, cooldown)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }
	return b, &now
}

func callOK(t *testing.T, b *Breaker) {
	t.Helper()
	_, err := Call(context.Background(), b, func(ctx context.Context) (int, error) {
		return 1, nil
	})
	require.NoError(t, err)
}

func callFail(t *testing.T, b *Breaker) error {
	t.Helper()
	_, err := Call(context.Background(), b, func(ctx context.Context) (int, error) {
		return 0, errors.New("provider down")
	})
	return err
}

func TestBreaker_StaysClosedBelowThreshold(t *testing.T) {
	b, _ := testBreaker(3, time.Minute)

	require.Error(t, callFail(t, b))
	require.Error(t, callFail(t, b))
	assert.False(t, b.Tripped())

	// A success resets the failure run entirely.
	callOK(t, b)
	require.Error(t, callFail(t, b))
	require.Error(t, callFail(t, b))
	assert.False(t, b.Tripped())
}

func TestBreaker_TripsAtThresholdAndRejects(t *testing.T) {
	b, _ := testBreaker(3, time.Minute)

	for i := 0; i < 3; i++ {
		err := callFail(t, b)
		require.Error(t, err)
		require.NotErrorIs(t, err, ErrBreakerOpen, "real failures pass through")
	}
	require.True(t, b.Tripped())

	// While tripped, the op must not run at all.
	ran := false
	_, err := Call(context.Background(), b, func(ctx context.Context) (int, error) {
		ran = true
		return 0, nil
	})
	require.ErrorIs(t, err, ErrBreakerOpen)
	assert.False(t, ran)
}

func TestBreaker_TrialSuccessAfterCooldownCloses(t *testing.T) {
	b, now := testBreaker(2, time.Minute)

	require.Error(t, callFail(t, b))
	require.Error(t, callFail(t, b))
	require.True(t, b.Tripped())

	*now = now.Add(time.Minute)
	require.False(t, b.Tripped())

	callOK(t, b)
	assert.False(t, b.Tripped())

	// Fully closed again: the failure counter restarts from zero.
	require.Error(t, callFail(t, b))
	assert.False(t, b.Tripped())
}

func TestBreaker_TrialFailureRestartsCooldown(t *testing.T) {
	b, now := testBreaker(2, time.Minute)

	require.Error(t, callFail(t, b))
	require.Error(t, callFail(t, b))

	*now = now.Add(time.Minute)
	err := callFail(t, b)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrBreakerOpen, "the trial call reaches the provider")

	// Reopened: halfway through the fresh cooldown everything is rejected.
	*now = now.Add(30 * time.Second)
	_, err = Call(context.Background(), b, func(ctx context.Context) (int, error) {
		return 0, nil
	})
	require.ErrorIs(t, err, ErrBreakerOpen)
}

func TestBreaker_ReturnsOpResult(t *testing.T) {
	b, _ := testBreaker(5, time.Minute)

	got, err := Call(context.Background(), b, func(ctx context.Context) (string, error) {
		return "payload", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "payload", got)
}

func TestNewBreaker_Defaults(t *testing.T) {
	b := NewBreaker(0, 0)
	assert.Equal(t, 5, b.threshold)
	assert.Equal(t, 30*time.Second, b.cooldown)
}
