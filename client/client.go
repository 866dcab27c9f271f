// Package client is the composition root of the data synchronization
// kit. It owns the cache store, the fetch coordinator and the signal
// hub, and hands out subscriptions and mutation executors bound to
// them.
//
// The client package follows go-datasync conventions:
// - Interface-driven design for testability
// - Uses logger.Logger interface for unified logging
// - Configuration with validation and defaults
// - Structured error handling
package client

import (
	"sync/atomic"

	"github.com/mybudget/go-datasync/cache"
	"github.com/mybudget/go-datasync/logger"
	"github.com/mybudget/go-datasync/mutation"
	"github.com/mybudget/go-datasync/query"
	"github.com/mybudget/go-datasync/revalidate"
	"go.uber.org/zap"
)

// Client bundles the shared pieces every subscription and mutation
// needs. Create one per application and close it on shutdown.
type Client struct {
	logger logger.Logger
	cfg    *Config

	store  *cache.Store
	coord  *query.Coordinator
	hub    *revalidate.Hub
	closed atomic.Bool
}

// New creates a client. A nil config uses defaults, a nil logger
// silences the kit.
func New(log logger.Logger, cfg *Config) (*Client, error) {
	if log == nil {
		log = logger.Nop()
	}

	if cfg == nil {
		cfg = DefaultConfig()
	} else {
		cfg.merge(DefaultConfig())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store, err := cache.New(log, &cache.Config{Name: "datasync"})
	if err != nil {
		return nil, err
	}

	coord, err := query.NewCoordinator(log, store)
	if err != nil {
		store.Close()
		return nil, err
	}

	c := &Client{
		logger: log,
		cfg:    cfg,
		store:  store,
		coord:  coord,
		hub:    revalidate.NewHub(log),
	}

	log.Debug("client created",
		zap.Duration("deduping_interval", cfg.DedupingInterval),
		zap.Int("error_retry_count", cfg.ErrorRetryCount),
		zap.Duration("error_retry_interval", cfg.ErrorRetryInterval),
		zap.Bool("refetch_on_focus", cfg.RefetchOnFocus),
		zap.Bool("refetch_on_reconnect", cfg.RefetchOnReconnect),
	)
	return c, nil
}

// Store returns the underlying cache.
func (c *Client) Store() *cache.Store {
	return c.store
}

// Coordinator returns the fetch coordinator for direct one-shot reads.
func (c *Client) Coordinator() *query.Coordinator {
	return c.coord
}

// Hub returns the signal hub the host environment pumps.
func (c *Client) Hub() *revalidate.Hub {
	return c.hub
}

// EmitFocus reports that the application regained focus.
func (c *Client) EmitFocus() {
	c.hub.EmitFocus()
}

// EmitReconnect reports that network connectivity returned.
func (c *Client) EmitReconnect() {
	c.hub.EmitReconnect()
}

// Clear evicts every cache entry. Watchers stay subscribed and see the
// eviction.
func (c *Client) Clear() {
	c.store.Clear()
}

// Closed reports whether the client has been shut down.
func (c *Client) Closed() bool {
	return c.closed.Load()
}

// Close shuts the client down. Open resources go inert; closing them
// afterwards is still safe.
func (c *Client) Close() {
	if !c.closed.CompareAndSwap(false, true) {
		return
	}

	c.hub.Close()
	c.store.Close()
	c.logger.Debug("client closed")
}

// Mutation builds an executor that mutates through the client's cache.
func Mutation[TData, TVars any](c *Client, mutator mutation.Mutator[TData, TVars], opts *mutation.Options[TData]) (*mutation.Executor[TData, TVars], error) {
	if c.closed.Load() {
		return nil, ErrClientClosed
	}
	return mutation.New(c.logger, c.store, mutator, opts)
}
