package query

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/mybudget/go-datasync/cache"
	"github.com/mybudget/go-datasync/routine"
	"go.uber.org/zap"
)

// State is a snapshot of a subscription.
type State[T any] struct {
	// Data is the latest value, nil until the first load completes.
	// Fallback data counts as a first value.
	Data *T
	// Loading is true only while the first load runs and no data exists
	// yet. Revalidations over existing data never set it.
	Loading bool
	// IsValidating is true while the subscription has a fetch running,
	// first load and background revalidations alike.
	IsValidating bool
	// Err is the final error of the last failed fetch. It is cleared by
	// the next successful load; existing data survives an error.
	Err error
}

// Handle is a live subscription to one key. It keeps a State in sync
// with the store: writes to the key are adopted, invalidations trigger
// a revalidation. A closed handle never changes state again, even when
// a fetch it started lands later.
type Handle[T any] struct {
	// Dependencies
	c       *Coordinator
	fetcher Fetcher[T]

	// Configuration
	key      string
	opts     *Options[T]
	disabled bool

	// Runtime state
	mu      sync.Mutex
	state   State[T]
	updates chan State[T]

	watcher *cache.Watcher
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	closed  atomic.Bool
	once    sync.Once // Ensures Close is only executed once
}

// Subscribe creates a subscription for key and kicks off the initial
// load in the background. A disabled subscription (or an empty key) is
// a valid no-op handle: it holds fallback data when provided and never
// fetches.
func Subscribe[T any](c *Coordinator, key string, fetcher Fetcher[T], opts *Options[T]) (*Handle[T], error) {
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if c.store.Closed() {
		return nil, cache.ErrStoreClosed
	}
	if fetcher == nil {
		return nil, ErrNilFetcher
	}

	h := &Handle[T]{
		c:        c,
		fetcher:  fetcher,
		key:      key,
		opts:     opts,
		disabled: opts.Disabled || key == "",
		updates:  make(chan State[T], 1),
	}

	// seed from the cache first, fallback data second
	if v, ok, err := cache.GetTyped[T](c.store, key); err == nil && ok {
		h.state.Data = &v
	} else if opts.FallbackData != nil {
		h.state.Data = opts.FallbackData
	}

	if h.disabled {
		return h, nil
	}

	h.ctx, h.cancel = context.WithCancel(context.Background())
	h.watcher = c.store.Watch(key)

	h.wg.Add(1)
	routine.GoNamed(c.logger, "query-"+key+"-watch", func() {
		defer h.wg.Done()
		h.watchLoop()
	})

	h.wg.Add(1)
	routine.GoNamedWithContext(h.ctx, c.logger, "query-"+key+"-init", func(ctx context.Context) {
		defer h.wg.Done()
		h.fetchAndApply(ctx, false)
	})

	return h, nil
}

// Key returns the subscribed key.
func (h *Handle[T]) Key() string {
	return h.key
}

// State returns the current snapshot.
func (h *Handle[T]) State() State[T] {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Updates returns a stream of state snapshots. The stream is conflated:
// a snapshot that was not consumed before the next change is replaced,
// so readers always observe the latest state. The channel closes with
// the handle.
func (h *Handle[T]) Updates() <-chan State[T] {
	return h.updates
}

// Refetch forces a revalidation, bypassing the freshness window but
// still joining any fetch already in flight. It blocks until the value
// (or error) is available.
func (h *Handle[T]) Refetch(ctx context.Context) (T, error) {
	var zero T
	if h.closed.Load() {
		return zero, ErrHandleClosed
	}
	if h.disabled {
		return zero, ErrSkipped
	}
	return h.fetchAndApply(ctx, true)
}

// Revalidate runs a window-honoring fetch in the background. It is the
// entry point for scheduler-driven refreshes.
func (h *Handle[T]) Revalidate(ctx context.Context) {
	if h.closed.Load() || h.disabled {
		return
	}
	h.fetchAndApply(ctx, false)
}

// Set writes data for the key locally, without a network call. The
// store fans the write out to every subscriber of the key; mutations
// use it for optimistic updates.
func (h *Handle[T]) Set(data T) {
	if h.closed.Load() || h.disabled {
		return
	}
	h.c.store.Set(h.key, data)
	h.adoptFromStore()
}

// Close tears the subscription down: the watcher is deregistered, the
// background goroutines drain, the updates channel closes. Results of
// fetches still in flight go to the store but not to this handle.
// It can be called multiple times safely.
func (h *Handle[T]) Close() {
	h.once.Do(func() {
		h.closed.Store(true)
		if h.cancel != nil {
			h.cancel()
		}
		if h.watcher != nil {
			h.watcher.Close()
		}
		h.wg.Wait()

		h.mu.Lock()
		close(h.updates)
		h.mu.Unlock()
	})
}

// watchLoop reacts to store changes for the key: adopt new data, refetch
// after invalidation. It exits when the watcher or the handle closes.
func (h *Handle[T]) watchLoop() {
	for {
		select {
		case ev, ok := <-h.watcher.Events():
			if !ok {
				return
			}
			switch ev.Type {
			case cache.EventSet:
				h.adoptFromStore()
			case cache.EventInvalidate:
				h.fetchAndApply(h.ctx, false)
			}
		case <-h.ctx.Done():
			return
		}
	}
}

// fetchAndApply runs one fetch and folds the outcome into the state.
// Late results are discarded once the handle is closed; the store write
// has already happened inside the flight either way.
func (h *Handle[T]) fetchAndApply(ctx context.Context, forced bool) (T, error) {
	var zero T

	h.mu.Lock()
	if h.closed.Load() {
		h.mu.Unlock()
		return zero, ErrHandleClosed
	}
	if h.state.Data == nil {
		h.state.Loading = true
	}
	h.state.IsValidating = true
	h.publishLocked()
	h.mu.Unlock()

	var (
		data T
		err  error
	)
	if forced {
		data, err = Refetch(ctx, h.c, h.key, h.fetcher, h.opts)
	} else {
		data, err = Fetch(ctx, h.c, h.key, h.fetcher, h.opts)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed.Load() {
		return data, err
	}

	h.state.Loading = false
	h.state.IsValidating = false
	if err != nil {
		// an abandoned wait or a skip is not a data error
		if !errors.Is(err, context.Canceled) && !errors.Is(err, ErrSkipped) {
			h.state.Err = err
		}
	} else {
		h.state.Data = &data
		h.state.Err = nil
	}
	h.publishLocked()

	return data, err
}

// adoptFromStore folds the store's current value for the key into the
// state. Writes from other subscribers and mutations arrive here.
func (h *Handle[T]) adoptFromStore() {
	v, ok, err := cache.GetTyped[T](h.c.store, h.key)
	if err != nil {
		h.c.logger.Warn("cached value has unexpected type",
			zap.String("key", h.key),
			zap.Error(err),
		)
		return
	}
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed.Load() {
		return
	}
	h.state.Data = &v
	h.state.Err = nil
	h.state.Loading = false
	h.publishLocked()
}

// publishLocked emits the current state on the updates channel. An
// unconsumed snapshot is replaced rather than queued. Caller must hold
// h.mu.
func (h *Handle[T]) publishLocked() {
	if h.closed.Load() {
		return
	}
	select {
	case h.updates <- h.state:
	default:
		select {
		case <-h.updates:
		default:
		}
		select {
		case h.updates <- h.state:
		default:
		}
	}
}
