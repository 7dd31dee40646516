// Package retry provides the bounded backoff loop used to wait for
// trigger-created rows to become visible.
package retry

import (
	"context"
	"time"
)

// Policy is a bounded exponential backoff: the first retry waits BaseDelay,
// each subsequent retry multiplies the delay by Multiplier.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64

	// Sleep is swappable in tests; nil means time.Sleep with context cancel.
	Sleep func(ctx context.Context, d time.Duration) error
}

// ErrExhausted is returned by Do when every attempt reported not-done.
type exhaustedError struct{}

func (exhaustedError) Error() string { return "retry attempts exhausted" }

var ErrExhausted error = exhaustedError{}

// Do calls fn up to MaxAttempts times. fn returns (done, err): a non-nil err
// aborts immediately, done=true stops with success. No delay follows the
// final attempt.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context, attempt int) (bool, error)) error {
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	delay := p.BaseDelay
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		done, err := fn(ctx, attempt)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if attempt < p.MaxAttempts-1 {
			if err := sleep(ctx, delay); err != nil {
				return err
			}
			delay = time.Duration(float64(delay) * p.Multiplier)
		}
	}
	return ErrExhausted
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
