package retry

import (
	"fmt"
	"time"
)

// Predefined errors
var (
	// ErrNilOperation is returned when Do is called without an operation
	ErrNilOperation = fmt.Errorf("retry: nil operation")
)

// Error constructors

// ErrAborted wraps the context error that interrupted a backoff wait
func ErrAborted(err error) error {
	return fmt.Errorf("retry: aborted during backoff: %w", err)
}

// ErrInvalidMaxRetries returns an error for invalid max retries
func ErrInvalidMaxRetries(retries int) error {
	return fmt.Errorf("retry: invalid max retries: %d (must be >= 0)", retries)
}

// ErrInvalidBaseDelay returns an error for invalid base delay
func ErrInvalidBaseDelay(delay time.Duration) error {
	return fmt.Errorf("retry: invalid base delay: %v (must be >= 0)", delay)
}
