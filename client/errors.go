package client

import "errors"

var (
	// ErrClientClosed is returned when subscribing or mutating through
	// a closed client.
	ErrClientClosed = errors.New("client: client is closed")

	// ErrInvalidDedupingInterval is returned when the deduping
	// interval is negative.
	ErrInvalidDedupingInterval = errors.New("client: deduping interval cannot be negative")

	// ErrInvalidErrorRetryCount is returned when the retry count is
	// negative.
	ErrInvalidErrorRetryCount = errors.New("client: error retry count cannot be negative")

	// ErrInvalidErrorRetryInterval is returned when the retry interval
	// is negative.
	ErrInvalidErrorRetryInterval = errors.New("client: error retry interval cannot be negative")

	// ErrInvalidLoadingTimeout is returned when the loading timeout is
	// negative.
	ErrInvalidLoadingTimeout = errors.New("client: loading timeout cannot be negative")
)
