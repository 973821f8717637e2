package yahoo

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/sethvargo/go-retry"
)

// RetryPolicy controls how transient failures are retried. Attempt i sleeps
// min(BaseSleep * 2^i, MaxSleep) scaled by a random factor in [0.7, 1.3).
type RetryPolicy struct {
	Attempts  int
	BaseSleep time.Duration
	MaxSleep  time.Duration
}

// DefaultRetryPolicy mirrors the low-volume interactive profile of the tool:
// a short base sleep and a small attempt budget.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts:  3,
		BaseSleep: 600 * time.Millisecond,
		MaxSleep:  10 * time.Second,
	}
}

func (p RetryPolicy) backoff() retry.Backoff {
	attempts := p.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	base := p.BaseSleep
	if base <= 0 {
		base = time.Millisecond
	}
	b := retry.NewExponential(base)
	if p.MaxSleep > 0 {
		b = retry.WithCappedDuration(p.MaxSleep, b)
	}
	jittered := retry.BackoffFunc(func() (time.Duration, bool) {
		d, stop := b.Next()
		if stop {
			return 0, true
		}
		factor := 0.7 + 0.6*rand.Float64()
		return time.Duration(float64(d) * factor), false
	})
	return retry.WithMaxRetries(uint64(attempts-1), jittered)
}

// doWithRetry runs fn under the policy. Transient failures are retried with
// backoff; auth and unknown failures surface immediately. The returned error
// is always an *APIError when fn fails.
func doWithRetry(ctx context.Context, p RetryPolicy, fn func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	var out []byte
	err := retry.Do(ctx, p.backoff(), func(ctx context.Context) error {
		b, err := fn(ctx)
		if err == nil {
			out = b
			return nil
		}
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Kind == KindTransient {
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
