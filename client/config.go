package client

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the client-wide defaults applied to every subscription
// that does not override them.
type Config struct {
	// DedupingInterval is the freshness window for cache entries.
	DedupingInterval time.Duration `env:"DATASYNC_DEDUPING_INTERVAL" envDefault:"2s" mapstructure:"deduping_interval"`
	// ErrorRetryCount is how many times a failed fetch is retried.
	ErrorRetryCount int `env:"DATASYNC_ERROR_RETRY_COUNT" envDefault:"3" mapstructure:"error_retry_count"`
	// ErrorRetryInterval is the base delay of the retry backoff.
	ErrorRetryInterval time.Duration `env:"DATASYNC_ERROR_RETRY_INTERVAL" envDefault:"5s" mapstructure:"error_retry_interval"`
	// LoadingTimeout is how long a fetch may run before the slow
	// callback fires.
	LoadingTimeout time.Duration `env:"DATASYNC_LOADING_TIMEOUT" envDefault:"3s" mapstructure:"loading_timeout"`
	// RefetchOnFocus arms the focus trigger on every subscription.
	RefetchOnFocus bool `env:"DATASYNC_REFETCH_ON_FOCUS" envDefault:"false" mapstructure:"refetch_on_focus"`
	// RefetchOnReconnect arms the reconnect trigger on every
	// subscription.
	RefetchOnReconnect bool `env:"DATASYNC_REFETCH_ON_RECONNECT" envDefault:"false" mapstructure:"refetch_on_reconnect"`
}

// DefaultConfig returns the configuration used when nothing else is
// provided.
func DefaultConfig() *Config {
	return &Config{
		DedupingInterval:   2 * time.Second,
		ErrorRetryCount:    3,
		ErrorRetryInterval: 5 * time.Second,
		LoadingTimeout:     3 * time.Second,
	}
}

// FromEnv loads the configuration from environment variables.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("client: parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// merge fills zero fields from defaults.
func (c *Config) merge(defaults *Config) {
	if c.DedupingInterval == 0 {
		c.DedupingInterval = defaults.DedupingInterval
	}
	if c.ErrorRetryCount == 0 {
		c.ErrorRetryCount = defaults.ErrorRetryCount
	}
	if c.ErrorRetryInterval == 0 {
		c.ErrorRetryInterval = defaults.ErrorRetryInterval
	}
	if c.LoadingTimeout == 0 {
		c.LoadingTimeout = defaults.LoadingTimeout
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.DedupingInterval < 0 {
		return ErrInvalidDedupingInterval
	}
	if c.ErrorRetryCount < 0 {
		return ErrInvalidErrorRetryCount
	}
	if c.ErrorRetryInterval < 0 {
		return ErrInvalidErrorRetryInterval
	}
	if c.LoadingTimeout < 0 {
		return ErrInvalidLoadingTimeout
	}
	return nil
}
