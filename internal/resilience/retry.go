package resilience

import (
	"context"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// Backoff shapes the retry schedule for one provider call. The zero value
// gets three attempts starting at one second, which suits the per-second
// metering serper.dev applies.
type Backoff struct {
	// Attempts is the total try budget including the first call. Default 3.
	Attempts int

	// Base is the delay before the first retry; each further retry doubles
	// it. Default 1s.
	Base time.Duration

	// Cap bounds any single delay. Default 20s.
	Cap time.Duration

	// Jitter spreads each delay by up to this fraction either way so
	// concurrent workers do not retry in lockstep. Default 0.2.
	Jitter float64

	// Retryable overrides IsRetryable when set.
	Retryable func(error) bool

	// Notify observes each scheduled retry before its sleep.
	Notify func(attempt int, err error)
}

func (b Backoff) withDefaults() Backoff {
	if b.Attempts <= 0 {
		b.Attempts = 3
	}
	if b.Base <= 0 {
		b.Base = time.Second
	}
	if b.Cap <= 0 {
		b.Cap = 20 * time.Second
	}
	if b.Jitter <= 0 {
		b.Jitter = 0.2
	}
	return b
}

// delay returns the sleep before retry number retry (0-based): Base doubled
// per retry, capped, then jittered.
func (b Backoff) delay(retry int) time.Duration {
	d := b.Base << retry
	if d <= 0 || d > b.Cap {
		d = b.Cap
	}
	spread := 1 + b.Jitter*(2*rand.Float64()-1)
	return time.Duration(float64(d) * spread)
}

// Retry runs op until it succeeds, fails non-retryably, exhausts the
// attempt budget, or the context ends. The last error comes back unwrapped
// so callers can still inspect status codes.
func Retry[T any](ctx context.Context, b Backoff, op func(context.Context) (T, error)) (T, error) {
	b = b.withDefaults()
	retryable := b.Retryable
	if retryable == nil {
		retryable = IsRetryable
	}

	var zero T
	var lastErr error
	for attempt := 1; attempt <= b.Attempts; attempt++ {
		val, err := op(ctx)
		if err == nil {
			return val, nil
		}
		lastErr = err

		if ctx.Err() != nil || !retryable(err) || attempt == b.Attempts {
			break
		}
		if b.Notify != nil {
			b.Notify(attempt, err)
		}

		timer := time.NewTimer(b.delay(attempt - 1))
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, lastErr
		case <-timer.C:
		}
	}
	return zero, lastErr
}

// LogRetries returns a Notify callback that warns through the global
// logger, tagged with the provider and operation.
func LogRetries(provider, operation string) func(int, error) {
	return func(attempt int, err error) {
		zap.L().Warn("resilience: retrying provider call",
			zap.String("provider", provider),
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}
}
