// Package resilience guards outbound provider calls: bounded retries with
// jittered backoff for flaky responses, and a breaker that stops hammering
// a provider that keeps failing outright.
package resilience

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
)

// ErrBreakerOpen is returned while a Breaker is cooling down.
var ErrBreakerOpen = eris.New("resilience: breaker open")

// Breaker trips after a run of consecutive failures and rejects calls for
// a cooldown period. The first call after the cooldown goes through as a
// trial: its success closes the breaker, its failure restarts the
// cooldown.
type Breaker struct {
	threshold int
	cooldown  time.Duration

	mu       sync.Mutex
	failures int
	open     bool
	openedAt time.Time

	now func() time.Time
}

// NewBreaker creates a Breaker. Non-positive arguments fall back to 5
// failures and a 30 second cooldown, long enough to ride out the brief
// provider outages a SERP stage run actually encounters.
func NewBreaker(threshold int, cooldown time.Duration) *Breaker {
	if threshold <= 0 {
		threshold = 5
	}
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}
	return &Breaker{threshold: threshold, cooldown: cooldown, now: time.Now}
}

// Call runs op through the breaker, returning ErrBreakerOpen without
// calling op while the breaker is cooling down.
func Call[T any](ctx context.Context, b *Breaker, op func(context.Context) (T, error)) (T, error) {
	var zero T
	if !b.admit() {
		return zero, ErrBreakerOpen
	}
	val, err := op(ctx)
	b.record(err)
	return val, err
}

// Tripped reports whether the breaker currently rejects calls.
func (b *Breaker) Tripped() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.open && b.now().Sub(b.openedAt) < b.cooldown
}

func (b *Breaker) admit() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.open {
		return true
	}
	// Cooldown elapsed: let a trial call through.
	return b.now().Sub(b.openedAt) >= b.cooldown
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil {
		b.failures = 0
		b.open = false
		return
	}

	b.failures++
	if b.open || b.failures >= b.threshold {
		b.open = true
		b.openedAt = b.now()
	}
}
