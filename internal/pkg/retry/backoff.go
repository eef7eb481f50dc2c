// Package retry provides the exponential backoff used by the labels-service
// and search-backend HTTP clients (§4.4, §4.5). No generic retry/backoff
// library is present anywhere in the reference corpus, so this is hand-rolled
// over time.Sleep/context.Context.
package retry

import (
	"context"
	"time"
)

// Policy is an exponential backoff schedule: base, doubling each attempt,
// capped at Max, for at most MaxAttempts total tries.
type Policy struct {
	Base        time.Duration
	Factor      float64
	Max         time.Duration
	MaxAttempts int
}

// DefaultPolicy matches §4.4/§4.5: base 500ms, factor 2, cap 30s, 6 attempts.
var DefaultPolicy = Policy{
	Base:        500 * time.Millisecond,
	Factor:      2,
	Max:         30 * time.Second,
	MaxAttempts: 6,
}

// Delay returns the sleep duration before attempt n (0-indexed: attempt 0 is
// the first retry after an initial failure).
func (p Policy) Delay(attempt int) time.Duration {
	d := p.Base
	for i := 0; i < attempt; i++ {
		d = time.Duration(float64(d) * p.Factor)
		if d > p.Max {
			return p.Max
		}
	}
	return d
}

// Do calls fn until it returns a nil error, retryable(err) reports false, or
// the attempt budget is exhausted, sleeping Delay(attempt) between tries and
// respecting ctx cancellation. It returns the last error seen.
func Do(ctx context.Context, p Policy, retryable func(error) bool, fn func() error) error {
	var err error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if !retryable(err) {
			return err
		}
		if attempt == p.MaxAttempts-1 {
			break
		}
		select {
		case <-time.After(p.Delay(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
