package retry

import (
	"context"
	stdErrors "errors"
	"testing"
	"time"

	pkgerrors "github.com/velomax/partner-client/pkg/errors"
)

func TestDoStopsAfterSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Policy{MaxAttempts: 3, BaseDelay: time.Millisecond}, func(context.Context) error {
		calls++
		if calls < 2 {
			return pkgerrors.New(pkgerrors.KindNetwork, "timeout")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestDoExhaustsAttemptsWithLinearBackoff(t *testing.T) {
	const base = 5 * time.Millisecond

	calls := 0
	start := time.Now()
	err := Do(context.Background(), Policy{MaxAttempts: 3, BaseDelay: base}, func(context.Context) error {
		calls++
		return pkgerrors.New(pkgerrors.KindServer, "boom")
	})
	elapsed := time.Since(start)

	if calls != 3 {
		t.Fatalf("expected exactly 3 calls, got %d", calls)
	}
	if err == nil || pkgerrors.As(err).Kind() != pkgerrors.KindServer {
		t.Fatalf("expected final server error, got %v", err)
	}
	// Waits are base*1 then base*2.
	if elapsed < 3*base {
		t.Fatalf("expected at least %v of linear backoff, elapsed %v", 3*base, elapsed)
	}
}

func TestDoFailsFastOnNonRetryableKinds(t *testing.T) {
	for _, kind := range []pkgerrors.Kind{pkgerrors.KindValidation, pkgerrors.KindUnauthorized, pkgerrors.KindNotFound} {
		calls := 0
		err := Do(context.Background(), Policy{MaxAttempts: 3, BaseDelay: time.Millisecond}, func(context.Context) error {
			calls++
			return pkgerrors.New(kind, "nope")
		})
		if calls != 1 {
			t.Fatalf("kind %s: expected a single call, got %d", kind, calls)
		}
		if pkgerrors.As(err).Kind() != kind {
			t.Fatalf("kind %s: unexpected error %v", kind, err)
		}
	}
}

func TestDoFailsFastOnUntypedErrors(t *testing.T) {
	calls := 0
	sentinel := stdErrors.New("plain failure")
	err := Do(context.Background(), Policy{MaxAttempts: 3, BaseDelay: time.Millisecond}, func(context.Context) error {
		calls++
		return sentinel
	})
	if calls != 1 {
		t.Fatalf("expected a single call, got %d", calls)
	}
	if !stdErrors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}
}

func TestDoHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := Do(ctx, Policy{MaxAttempts: 5, BaseDelay: time.Minute}, func(context.Context) error {
		calls++
		cancel()
		return pkgerrors.New(pkgerrors.KindNetwork, "timeout")
	})
	if calls != 1 {
		t.Fatalf("expected a single call before cancellation, got %d", calls)
	}
	if !stdErrors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPolicyNormalize(t *testing.T) {
	p := Policy{}.Normalize()
	if p.MaxAttempts != 3 {
		t.Fatalf("expected default attempt cap 3, got %d", p.MaxAttempts)
	}
	if p.BaseDelay != time.Second {
		t.Fatalf("expected default base delay 1s, got %v", p.BaseDelay)
	}
}
