// Package retry runs operations with exponential backoff.
//
// The backoff ladder is fixed: BaseDelay, 2x, 4x, 8x and so on, with no
// jitter and no upper bound. An operation with MaxRetries = N is
// attempted exactly N+1 times. When every attempt fails the last error
// is returned unwrapped so callers can inspect it directly; the attempt
// count is recorded in the log.
package retry

import (
	"context"
	"math"
	"time"

	"github.com/mybudget/go-datasync/logger"
	"go.uber.org/zap"
)

// Operation produces a value or fails. The context should be respected
// for cancellation and timeout.
type Operation[T any] func(ctx context.Context) (T, error)

// Do runs op under the policy. The name identifies the operation in
// logs. Cancelling the context aborts the backoff wait; the operation
// itself is responsible for honoring the context while running.
func Do[T any](ctx context.Context, log logger.Logger, name string, policy Policy, op Operation[T]) (T, error) {
	var zero T

	if err := policy.Validate(); err != nil {
		return zero, err
	}
	if op == nil {
		return zero, ErrNilOperation
	}

	attempts := policy.Attempts()
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			backoff := policy.Delay(attempt - 1)
			log.Warn("retrying after backoff",
				zap.String("operation", name),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
			)
			if err := sleep(ctx, backoff); err != nil {
				return zero, ErrAborted(err)
			}
		}

		data, err := op(ctx)
		if err == nil {
			if attempt > 1 {
				log.Debug("operation recovered",
					zap.String("operation", name),
					zap.Int("attempt", attempt),
				)
			}
			return data, nil
		}
		lastErr = err

		log.Warn("operation failed",
			zap.String("operation", name),
			zap.Error(err),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
		)
	}

	log.Error("retries exhausted",
		zap.String("operation", name),
		zap.Int("attempts", attempts),
		zap.Error(lastErr),
	)
	return zero, lastErr
}

// sleep waits for d or until the context is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Policy controls how many times an operation is attempted and how long
// to wait between attempts.
type Policy struct {
	// MaxRetries is the number of retries after the first attempt.
	// 0 means a single attempt.
	// default: 3
	MaxRetries int `mapstructure:"max_retries"`
	// BaseDelay is the wait before the first retry. Each further retry
	// doubles it. 0 retries immediately.
	// default: 5 * time.Second
	BaseDelay time.Duration `mapstructure:"base_delay"`
}

// DefaultPolicy returns the default retry policy.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries: 3,
		BaseDelay:  5 * time.Second,
	}
}

// Validate validates the policy
func (p Policy) Validate() error {
	if p.MaxRetries < 0 {
		return ErrInvalidMaxRetries(p.MaxRetries)
	}
	if p.BaseDelay < 0 {
		return ErrInvalidBaseDelay(p.BaseDelay)
	}
	return nil
}

// Attempts returns the total number of attempts the policy allows.
func (p Policy) Attempts() int {
	return p.MaxRetries + 1
}

// Delay returns the wait after the given 1-based failed attempt:
// BaseDelay, 2*BaseDelay, 4*BaseDelay, ...
func (p Policy) Delay(retryNum int) time.Duration {
	if retryNum < 1 {
		return 0
	}
	return time.Duration(math.Pow(2, float64(retryNum-1))) * p.BaseDelay
}
