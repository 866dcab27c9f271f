// Package mutation executes write operations and keeps the cache
// coherent afterwards.
//
// The mutation package follows go-datasync conventions:
// - Interface-driven design for testability
// - Uses logger.Logger interface for unified logging
// - Structured error handling
//
// A mutator runs exactly once per Mutate call and is never retried. On
// success the executor applies the configured cache invalidations, each
// exactly once, so dependent queries refetch on their next read. On
// failure the cache is left untouched.
package mutation

import (
	"context"
	"strings"
	"sync"

	"github.com/mybudget/go-datasync/logger"
	"go.uber.org/zap"
)

// PrefixWildcard marks an invalidation key as a prefix match when it
// appears as the key's suffix.
const PrefixWildcard = "*"

// Mutator performs the write and returns the server's view of the
// result.
type Mutator[TData, TVars any] func(ctx context.Context, vars TVars) (TData, error)

// Invalidator removes cache entries after a successful mutation.
// *cache.Store satisfies it.
type Invalidator interface {
	Invalidate(key string)
	InvalidatePrefix(prefix string)
	Clear()
}

// State is the observable progress of the most recent Mutate call. It
// resets at the start of every invocation.
type State[TData any] struct {
	// Data is the mutator result, nil until a call succeeds.
	Data *TData
	// Loading is true while a mutator is running.
	Loading bool
	// Err is the failure of the last call, nil after a success.
	Err error
}

// Executor runs one kind of mutation against one cache.
type Executor[TData, TVars any] struct {
	logger      logger.Logger
	invalidator Invalidator
	mutator     Mutator[TData, TVars]
	opts        *Options[TData]

	mu    sync.Mutex
	state State[TData]
}

// New creates an executor for the given mutator.
func New[TData, TVars any](log logger.Logger, invalidator Invalidator, mutator Mutator[TData, TVars], opts *Options[TData]) (*Executor[TData, TVars], error) {
	if invalidator == nil {
		return nil, ErrNilInvalidator
	}
	if mutator == nil {
		return nil, ErrNilMutator
	}
	if opts == nil {
		opts = &Options[TData]{}
	}

	return &Executor[TData, TVars]{
		logger:      log,
		invalidator: invalidator,
		mutator:     mutator,
		opts:        opts,
	}, nil
}

// State returns a copy of the current mutation state.
func (e *Executor[TData, TVars]) State() State[TData] {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Mutate runs the mutator once. The optimistic update, if configured,
// is applied synchronously before the mutator starts, so subscribers
// see it immediately. OnSettled runs on both outcomes.
func (e *Executor[TData, TVars]) Mutate(ctx context.Context, vars TVars) (TData, error) {
	var zero TData

	e.mu.Lock()
	e.state = State[TData]{Loading: true}
	e.mu.Unlock()

	if e.opts.OnSettled != nil {
		defer e.opts.OnSettled()
	}

	if e.opts.OptimisticUpdate != nil {
		e.opts.OptimisticUpdate()
	}

	data, err := e.mutator(ctx, vars)
	if err != nil {
		e.mu.Lock()
		e.state = State[TData]{Err: err}
		e.mu.Unlock()

		e.logger.Warn("mutation failed", zap.Error(err))
		if e.opts.OnError != nil {
			e.opts.OnError(err)
		}
		return zero, err
	}

	e.mu.Lock()
	e.state = State[TData]{Data: &data}
	e.mu.Unlock()

	if e.opts.OnSuccess != nil {
		e.opts.OnSuccess(data)
	}
	e.applyInvalidations()

	return data, nil
}

// applyInvalidations evicts the configured keys after a success.
// ClearCache wins over individual keys since it already removes them.
func (e *Executor[TData, TVars]) applyInvalidations() {
	if e.opts.ClearCache {
		e.invalidator.Clear()
		e.logger.Debug("mutation cleared the cache")
		return
	}

	for _, key := range e.opts.InvalidateKeys {
		if prefix, ok := strings.CutSuffix(key, PrefixWildcard); ok {
			e.invalidator.InvalidatePrefix(prefix)
			continue
		}
		e.invalidator.Invalidate(key)
	}

	if n := len(e.opts.InvalidateKeys); n > 0 {
		e.logger.Debug("mutation invalidated cache keys", zap.Int("count", n))
	}
}
