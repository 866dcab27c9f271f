package finance

import "errors"

var (
	// ErrNilSyncClient is returned when the client is created without
	// a synchronization client.
	ErrNilSyncClient = errors.New("finance: sync client cannot be nil")

	// ErrNilAPI is returned when the client is created without an API
	// implementation.
	ErrNilAPI = errors.New("finance: api cannot be nil")
)
