package retry

import (
	"context"
	"time"

	pkgerrors "github.com/velomax/partner-client/pkg/errors"
)

const (
	defaultMaxAttempts = 3
	defaultBaseDelay   = time.Second
)

// Policy controls how many times an operation is attempted and how long the
// waits between attempts are. Backoff is linear: BaseDelay * attempt number.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// Normalize fills zero fields with the default attempt cap and delay.
func (p Policy) Normalize() Policy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = defaultMaxAttempts
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = defaultBaseDelay
	}
	return p
}

// Do invokes fn until it succeeds, the attempt cap is reached, or the error is
// not retryable. Only errors whose kind metadata marks them retryable (network
// and server failures) trigger another attempt; validation and auth failures
// return immediately. Context cancellation aborts the wait between attempts.
func Do(ctx context.Context, policy Policy, fn func(ctx context.Context) error) error {
	policy = policy.Normalize()

	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !pkgerrors.Retryable(lastErr) {
			return lastErr
		}
		if attempt == policy.MaxAttempts {
			break
		}

		timer := time.NewTimer(policy.BaseDelay * time.Duration(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		timer.Stop()
	}
	return lastErr
}
