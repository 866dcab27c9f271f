// Package query coordinates reads against the shared cache store.
//
// The query package follows go-datasync conventions:
// - Interface-driven design for testability
// - Uses logger.Logger interface for unified logging
// - Uses routine package for safe goroutine execution
// - Structured error handling
//
// A query is identified by its cache key. At most one fetch per key runs
// at a time: concurrent callers join the in-flight fetch and share its
// result. A key fetched less than DedupingInterval ago is served from
// the cache without a network call. Failed fetches retry on an
// exponential ladder before the error is surfaced.
//
// Invalidating a key does not abort a fetch already in flight for it;
// the response still lands in the cache when it arrives, even when a
// fresher write happened in between.
package query

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/mybudget/go-datasync/cache"
	"github.com/mybudget/go-datasync/logger"
	"github.com/mybudget/go-datasync/retry"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Fetcher loads the value for a key from its source, typically a network
// round trip. The context should be respected for cancellation and
// timeout.
type Fetcher[T any] func(ctx context.Context) (T, error)

// Coordinator owns the per-key flight slots over a cache store. One
// coordinator serves all queries of a client.
type Coordinator struct {
	logger logger.Logger
	store  *cache.Store
	group  singleflight.Group
}

// NewCoordinator creates a coordinator over the given store.
func NewCoordinator(log logger.Logger, store *cache.Store) (*Coordinator, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	return &Coordinator{
		logger: log,
		store:  store,
	}, nil
}

// Store returns the underlying store.
func (c *Coordinator) Store() *cache.Store {
	return c.store
}

// Fetch returns the value for key, going to the fetcher only when the
// cached entry is missing or older than the deduping window. Concurrent
// calls for the same key collapse onto a single fetcher invocation and
// share its result.
//
// Cancelling the context abandons the wait; the fetch itself keeps
// running and its result still lands in the cache for other callers.
func Fetch[T any](ctx context.Context, c *Coordinator, key string, fetcher Fetcher[T], opts *Options[T]) (T, error) {
	return fetch(ctx, c, key, fetcher, opts, false)
}

// Refetch behaves like Fetch but skips the freshness fast path, forcing
// a revalidation. It still joins a fetch already in flight for the key.
func Refetch[T any](ctx context.Context, c *Coordinator, key string, fetcher Fetcher[T], opts *Options[T]) (T, error) {
	return fetch(ctx, c, key, fetcher, opts, true)
}

func fetch[T any](ctx context.Context, c *Coordinator, key string, fetcher Fetcher[T], opts *Options[T], forced bool) (T, error) {
	var zero T

	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return zero, err
	}
	if opts.Disabled || key == "" {
		return zero, ErrSkipped
	}
	if fetcher == nil {
		return zero, ErrNilFetcher
	}

	if !forced {
		if e, ok := c.store.Get(key); ok && e.FreshWithin(opts.DedupingInterval) {
			data, ok := e.Data.(T)
			if !ok {
				return zero, ErrResultType(key, fmt.Sprintf("%T", zero), fmt.Sprintf("%T", e.Data))
			}
			c.logger.Debug("cache hit within deduping window",
				zap.String("key", key),
				zap.Duration("age", e.Age()),
			)
			if opts.OnSuccess != nil {
				opts.OnSuccess(data)
			}
			return data, nil
		}
	}

	// advisory only: the fetch is never cancelled for being slow
	if opts.LoadingTimeout > 0 && opts.OnLoadingSlow != nil {
		slow := time.AfterFunc(opts.LoadingTimeout, func() { opts.OnLoadingSlow(key) })
		defer slow.Stop()
	}

	policy := retry.Policy{
		MaxRetries: opts.ErrorRetryCount,
		BaseDelay:  opts.ErrorRetryInterval,
	}

	// the flight belongs to the key, not to any single caller: it keeps
	// the values of the initiating context but not its cancellation
	flightCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		if !forced {
			// another caller may have landed a fetch while this one was
			// waiting for the flight slot
			if e, ok := c.store.Get(key); ok && e.FreshWithin(opts.DedupingInterval) {
				return e.Data, nil
			}
		}

		c.store.BeginFlight(key)
		defer c.store.EndFlight(key)

		data, err := retry.Do(flightCtx, c.logger, key, policy, guarded(c.logger, key, fetcher))
		if err != nil {
			return nil, err
		}
		c.store.Set(key, data)
		return data, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			if opts.OnError != nil {
				opts.OnError(res.Err)
			}
			return zero, res.Err
		}
		data, ok := res.Val.(T)
		if !ok {
			err := ErrResultType(key, fmt.Sprintf("%T", zero), fmt.Sprintf("%T", res.Val))
			if opts.OnError != nil {
				opts.OnError(err)
			}
			return zero, err
		}
		c.logger.Debug("fetch completed",
			zap.String("key", key),
			zap.Bool("shared", res.Shared),
		)
		if opts.OnSuccess != nil {
			opts.OnSuccess(data)
		}
		return data, nil

	case <-ctx.Done():
		c.logger.Debug("caller abandoned in-flight fetch",
			zap.String("key", key),
			zap.Error(ctx.Err()),
		)
		return zero, ctx.Err()
	}
}

// guarded converts fetcher panics into errors so a faulty fetcher fails
// the attempt instead of crashing the process.
func guarded[T any](log logger.Logger, key string, fetcher Fetcher[T]) retry.Operation[T] {
	return func(ctx context.Context) (data T, err error) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("fetcher panicked",
					zap.String("key", key),
					zap.Any("panic", rec),
					zap.String("stack", string(debug.Stack())),
				)
				err = ErrFetcherPanic(key, rec)
			}
		}()
		return fetcher(ctx)
	}
}
