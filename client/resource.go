package client

import (
	"context"
	"sync"

	"github.com/mybudget/go-datasync/query"
	"github.com/mybudget/go-datasync/revalidate"
)

// Resource couples a subscription handle with the scheduler that keeps
// it fresh. Closing the resource stops both.
type Resource[T any] struct {
	handle    *query.Handle[T]
	scheduler *revalidate.Scheduler // nil when no trigger is armed
	once      sync.Once
}

// Subscribe opens a live subscription through the client. Options left
// at their zero value inherit the client configuration; the refetch
// trigger fields arm a scheduler wired to the client's signal hub.
func Subscribe[T any](c *Client, key string, fetcher query.Fetcher[T], opts *query.Options[T]) (*Resource[T], error) {
	if c.closed.Load() {
		return nil, ErrClientClosed
	}

	merged := query.Options[T]{}
	if opts != nil {
		merged = *opts
	}
	if merged.DedupingInterval == 0 {
		merged.DedupingInterval = c.cfg.DedupingInterval
	}
	if merged.ErrorRetryCount == 0 {
		merged.ErrorRetryCount = c.cfg.ErrorRetryCount
	}
	if merged.ErrorRetryInterval == 0 {
		merged.ErrorRetryInterval = c.cfg.ErrorRetryInterval
	}
	if merged.LoadingTimeout == 0 {
		merged.LoadingTimeout = c.cfg.LoadingTimeout
	}
	merged.RefetchOnFocus = merged.RefetchOnFocus || c.cfg.RefetchOnFocus
	merged.RefetchOnReconnect = merged.RefetchOnReconnect || c.cfg.RefetchOnReconnect

	h, err := query.Subscribe(c.coord, key, fetcher, &merged)
	if err != nil {
		return nil, err
	}

	r := &Resource[T]{handle: h}

	active := !merged.Disabled && key != ""
	armed := merged.RefetchInterval > 0 || merged.RefetchCron != "" ||
		merged.RefetchOnFocus || merged.RefetchOnReconnect
	if active && armed {
		sched, err := revalidate.New(c.logger, &revalidate.Config{
			Name:        key,
			Interval:    merged.RefetchInterval,
			CronSpec:    merged.RefetchCron,
			OnFocus:     merged.RefetchOnFocus,
			OnReconnect: merged.RefetchOnReconnect,
			Source:      c.hub,
		}, func(ctx context.Context) {
			h.Revalidate(ctx)
		})
		if err != nil {
			h.Close()
			return nil, err
		}
		if err := sched.Start(); err != nil {
			sched.Stop()
			h.Close()
			return nil, err
		}
		r.scheduler = sched
	}

	return r, nil
}

// Key returns the cache key this resource observes.
func (r *Resource[T]) Key() string {
	return r.handle.Key()
}

// State returns a copy of the current subscription state.
func (r *Resource[T]) State() query.State[T] {
	return r.handle.State()
}

// Updates returns the state stream. See query.Handle.Updates.
func (r *Resource[T]) Updates() <-chan query.State[T] {
	return r.handle.Updates()
}

// Refetch forces a fresh fetch regardless of entry age.
func (r *Resource[T]) Refetch(ctx context.Context) (T, error) {
	return r.handle.Refetch(ctx)
}

// Set writes data into the cache for this resource's key.
func (r *Resource[T]) Set(data T) {
	r.handle.Set(data)
}

// Close stops the scheduler and closes the subscription. It can be
// called multiple times safely.
func (r *Resource[T]) Close() {
	r.once.Do(func() {
		if r.scheduler != nil {
			r.scheduler.Stop()
		}
		r.handle.Close()
	})
}
