package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelayDoublesAndCaps(t *testing.T) {
	p := Policy{Base: 500 * time.Millisecond, Factor: 2, Max: 2 * time.Second, MaxAttempts: 10}
	assert.Equal(t, 500*time.Millisecond, p.Delay(0))
	assert.Equal(t, time.Second, p.Delay(1))
	assert.Equal(t, 2*time.Second, p.Delay(2))
	assert.Equal(t, 2*time.Second, p.Delay(5), "capped at Max")
}

func TestDoStopsOnSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Policy{Base: time.Millisecond, Factor: 2, Max: time.Millisecond, MaxAttempts: 5},
		func(error) bool { return true },
		func() error {
			calls++
			if calls == 2 {
				return nil
			}
			return errors.New("transient")
		})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestDoStopsOnNonRetryable(t *testing.T) {
	calls := 0
	permanent := errors.New("permanent")
	err := Do(context.Background(), Policy{Base: time.Millisecond, Factor: 2, Max: time.Millisecond, MaxAttempts: 5},
		func(error) bool { return false },
		func() error {
			calls++
			return permanent
		})
	assert.Equal(t, permanent, err)
	assert.Equal(t, 1, calls)
}

func TestDoExhaustsBudget(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Policy{Base: time.Millisecond, Factor: 1, Max: time.Millisecond, MaxAttempts: 3},
		func(error) bool { return true },
		func() error {
			calls++
			return errors.New("still failing")
		})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Do(ctx, Policy{Base: time.Second, Factor: 1, Max: time.Second, MaxAttempts: 3},
		func(error) bool { return true },
		func() error { return errors.New("fail") })
	assert.ErrorIs(t, err, context.Canceled)
}
