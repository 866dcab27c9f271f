package cache

import "fmt"

// Predefined errors
var (
	// ErrStoreClosed is returned when a subscription is attempted on a closed store
	ErrStoreClosed = fmt.Errorf("cache: store is closed")
)

// Error constructors

// ErrTypeMismatch returns an error for a cached value of an unexpected type
func ErrTypeMismatch(key, want, got string) error {
	return fmt.Errorf("cache: type mismatch for key %q: want %s, got %s", key, want, got)
}

// ErrInvalidName returns an error for invalid name
func ErrInvalidName(name string) error {
	return fmt.Errorf("cache: invalid name: %s (must be non-empty)", name)
}

// ErrInvalidInitialCapacity returns an error for invalid initial capacity
func ErrInvalidInitialCapacity(capacity int) error {
	return fmt.Errorf("cache: invalid initial capacity: %d (must be >= 0)", capacity)
}

// ErrInvalidEventBuffer returns an error for invalid event buffer size
func ErrInvalidEventBuffer(size int) error {
	return fmt.Errorf("cache: invalid event buffer: %d (must be >= 1)", size)
}
