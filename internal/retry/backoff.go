// Package retry holds the exponential backoff shared by the Kafka publisher,
// the subscriber and the top-up protocol client.
package retry

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/jeffleon2/draftea-topup/config"
)

const (
	defaultMaxAttempts = 5
	defaultBaseDelay   = 100 * time.Millisecond
	defaultMaxDelay    = 10 * time.Second
)

// WithDefaults fills the zero fields of cfg.
func WithDefaults(cfg config.RetryConfig) config.RetryConfig {
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.BaseDelay == 0 {
		cfg.BaseDelay = defaultBaseDelay
	}
	if cfg.MaxDelay == 0 {
		cfg.MaxDelay = defaultMaxDelay
	}
	return cfg
}

// Backoff computes the delay before the next attempt: 2^attempt * BaseDelay,
// capped at MaxDelay. With Jitter the delay varies by -15%..+15%.
func Backoff(cfg config.RetryConfig, attempt int) time.Duration {
	delay := time.Duration(math.Pow(2, float64(attempt))) * cfg.BaseDelay

	// large attempts overflow the shift
	if attempt > 30 || delay < 0 || delay > cfg.MaxDelay {
		delay = cfg.MaxDelay
	}

	if cfg.Jitter {
		jitter := time.Duration(rand.Float64() * float64(delay) * 0.3)
		delay = delay + jitter - time.Duration(float64(delay)*0.15)
	}

	return delay
}

// Wait blocks for d or until ctx is done.
func Wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
