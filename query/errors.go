package query

import "fmt"

// Predefined errors
var (
	// ErrSkipped is returned when a query is disabled or its key is
	// empty; nothing was fetched and nothing was written
	ErrSkipped = fmt.Errorf("query: skipped: query disabled or key empty")
	// ErrNilFetcher is returned when no fetcher is provided
	ErrNilFetcher = fmt.Errorf("query: nil fetcher")
	// ErrNilStore is returned when a coordinator is created without a store
	ErrNilStore = fmt.Errorf("query: nil store")
	// ErrHandleClosed is returned when operating on a closed handle
	ErrHandleClosed = fmt.Errorf("query: handle is closed")
)

// Error constructors

// ErrResultType returns an error for a shared result of an unexpected type
func ErrResultType(key, want, got string) error {
	return fmt.Errorf("query: unexpected result type for key %q: want %s, got %s", key, want, got)
}

// ErrFetcherPanic wraps a recovered fetcher panic
func ErrFetcherPanic(key string, recovered any) error {
	return fmt.Errorf("query: fetcher for key %q panicked: %v", key, recovered)
}

// ErrInvalidOption returns an error for an invalid option value
func ErrInvalidOption(name string, value any) error {
	return fmt.Errorf("query: invalid %s: %v (must be >= 0)", name, value)
}
