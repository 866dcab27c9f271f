package query

import "time"

// Defaults applied when an option is left at its zero value.
const (
	// DefaultDedupingInterval is the freshness window for cached entries
	DefaultDedupingInterval = 2 * time.Second
	// DefaultErrorRetryCount is the number of retries after a failed fetch
	DefaultErrorRetryCount = 3
	// DefaultErrorRetryInterval seeds the backoff ladder between retries
	DefaultErrorRetryInterval = 5 * time.Second
	// DefaultLoadingTimeout is how long a fetch may take before it is
	// reported as slow
	DefaultLoadingTimeout = 3 * time.Second
)

// Options tune a single query. The zero value (or nil) means defaults.
type Options[T any] struct {
	// Disabled turns the query off entirely: no fetch, no cache write,
	// no state change. Used for dependent queries whose inputs are not
	// ready yet.
	Disabled bool

	// DedupingInterval is the freshness window. A value fetched within
	// it is served from the cache without a network call.
	// default: 2s
	DedupingInterval time.Duration

	// ErrorRetryCount is the number of retries after the first failed
	// attempt.
	// default: 3
	ErrorRetryCount int

	// ErrorRetryInterval is the wait before the first retry; each
	// further retry doubles it, without jitter or cap.
	// default: 5s
	ErrorRetryInterval time.Duration

	// LoadingTimeout is advisory: when a fetch takes longer,
	// OnLoadingSlow fires once. The fetch is never cancelled by it.
	// default: 3s
	LoadingTimeout time.Duration

	// OnLoadingSlow is called with the key when LoadingTimeout elapses
	// before the fetch completes.
	OnLoadingSlow func(key string)

	// OnSuccess is called with the fetched value for every caller that
	// receives it, shared flights included.
	OnSuccess func(data T)

	// OnError is called with the final error once retries are exhausted.
	OnError func(err error)

	// FallbackData seeds a subscription before the first fetch lands.
	// A subscription holding fallback data starts with Loading false.
	FallbackData *T

	// RefetchInterval revalidates the key on a fixed cadence. 0 disables.
	RefetchInterval time.Duration

	// RefetchCron revalidates on a cron schedule with seconds precision,
	// e.g. "0 */5 * * * *". Empty disables.
	RefetchCron string

	// RefetchOnFocus revalidates when the host signals focus.
	RefetchOnFocus bool

	// RefetchOnReconnect revalidates when the host signals reconnect.
	RefetchOnReconnect bool
}

// withDefaults returns a copy with zero values replaced by defaults.
// A nil receiver yields pure defaults.
func (o *Options[T]) withDefaults() *Options[T] {
	out := Options[T]{}
	if o != nil {
		out = *o
	}
	if out.DedupingInterval == 0 {
		out.DedupingInterval = DefaultDedupingInterval
	}
	if out.ErrorRetryCount == 0 {
		out.ErrorRetryCount = DefaultErrorRetryCount
	}
	if out.ErrorRetryInterval == 0 {
		out.ErrorRetryInterval = DefaultErrorRetryInterval
	}
	if out.LoadingTimeout == 0 {
		out.LoadingTimeout = DefaultLoadingTimeout
	}
	return &out
}

// Validate validates the options
func (o *Options[T]) Validate() error {
	if o.DedupingInterval < 0 {
		return ErrInvalidOption("deduping interval", o.DedupingInterval)
	}
	if o.ErrorRetryCount < 0 {
		return ErrInvalidOption("error retry count", o.ErrorRetryCount)
	}
	if o.ErrorRetryInterval < 0 {
		return ErrInvalidOption("error retry interval", o.ErrorRetryInterval)
	}
	if o.LoadingTimeout < 0 {
		return ErrInvalidOption("loading timeout", o.LoadingTimeout)
	}
	if o.RefetchInterval < 0 {
		return ErrInvalidOption("refetch interval", o.RefetchInterval)
	}
	return nil
}
