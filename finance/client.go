// Package finance binds the myBudget domain to the data
// synchronization kit: one accessor per resource and one mutation
// constructor per write, each carrying the cache keys it reads or
// invalidates.
//
// The finance package follows go-datasync conventions:
// - Interface-driven design for testability
// - Uses logger.Logger interface for unified logging
// - Structured error handling
package finance

import (
	"github.com/mybudget/go-datasync/client"
	"github.com/mybudget/go-datasync/logger"
)

// Client exposes the domain's reads and writes through a shared
// synchronization client.
type Client struct {
	logger logger.Logger
	sync   *client.Client
	api    API
}

// New binds an API implementation to a synchronization client.
func New(log logger.Logger, syncClient *client.Client, api API) (*Client, error) {
	if log == nil {
		log = logger.Nop()
	}
	if syncClient == nil {
		return nil, ErrNilSyncClient
	}
	if api == nil {
		return nil, ErrNilAPI
	}

	return &Client{
		logger: log,
		sync:   syncClient,
		api:    api,
	}, nil
}

// Sync returns the underlying synchronization client.
func (c *Client) Sync() *client.Client {
	return c.sync
}
