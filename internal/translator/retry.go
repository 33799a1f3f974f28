package translator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/MimeLyc/srt-translator/pkg/log"
)

// RetryPolicy bounds the retries of a single translation.
// Delays double from BaseDelay and are capped at MaxDelay.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 2,
		BaseDelay:  time.Second,
		MaxDelay:   10 * time.Second,
	}
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(p.BaseDelay),
		backoff.WithMaxInterval(p.MaxDelay),
		backoff.WithMultiplier(2),
		backoff.WithRandomizationFactor(0),
		backoff.WithMaxElapsedTime(0),
	)
	return backoff.WithMaxRetries(backoff.WithContext(exp, ctx), uint64(max(0, p.MaxRetries)))
}

// Retrying retries a Translator on transient failures. Context cancellation
// and service errors that cannot succeed on retry (bad request, auth,
// permission) are returned at once.
type Retrying struct {
	next   Translator
	policy RetryPolicy

	// nil uses the backoff package's real timer
	newTimer func() backoff.Timer
}

func NewRetrying(next Translator, policy RetryPolicy) *Retrying {
	return &Retrying{next: next, policy: policy}
}

func (r *Retrying) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	attempts := 0
	op := func() (string, error) {
		attempts++
		out, err := r.next.Translate(ctx, text, sourceLang, targetLang)
		if err != nil && !retryable(ctx, err) {
			return "", backoff.Permanent(err)
		}
		return out, err
	}
	notify := func(err error, wait time.Duration) {
		log.Warn("translation failed, retrying in %s (attempt %d/%d): %v", wait, attempts, r.policy.MaxRetries+1, err)
	}

	var timer backoff.Timer
	if r.newTimer != nil {
		timer = r.newTimer()
	}

	out, err := backoff.RetryNotifyWithTimerAndData(op, r.policy.backOff(ctx), notify, timer)
	if err != nil && attempts > 1 && retryable(ctx, err) {
		return "", fmt.Errorf("translation failed after %d attempts: %w", attempts, err)
	}
	return out, err
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return false
	}
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Temporary()
	}
	return true
}
