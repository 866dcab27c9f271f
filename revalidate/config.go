package revalidate

import "time"

// Config holds configuration for a scheduler.
type Config struct {
	// Name identifies the scheduler in logs, usually the query key.
	Name string `mapstructure:"name"`
	// Interval fires the target on a fixed cadence. Zero disables the
	// interval trigger.
	Interval time.Duration `mapstructure:"interval"`
	// CronSpec fires the target on a cron schedule with seconds
	// precision (six fields). Empty disables the cron trigger.
	CronSpec string `mapstructure:"cron_spec"`
	// OnFocus fires the target on focus signals.
	OnFocus bool `mapstructure:"on_focus"`
	// OnReconnect fires the target on reconnect signals.
	OnReconnect bool `mapstructure:"on_reconnect"`
	// Source provides focus and reconnect signals. Required when
	// OnFocus or OnReconnect is set.
	Source SignalSource `mapstructure:"-"`
}

// DefaultConfig returns a configuration with no triggers armed.
func DefaultConfig() *Config {
	return &Config{
		Name: "scheduler",
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Name == "" {
		return ErrInvalidName
	}
	if c.Interval < 0 {
		return ErrInvalidInterval
	}
	if (c.OnFocus || c.OnReconnect) && c.Source == nil {
		return ErrNilSource
	}
	return nil
}
