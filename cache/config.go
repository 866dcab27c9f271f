package cache

// Config holds configuration for the Store
type Config struct {
	// Name is used for logging purposes to identify the store
	// default: "store"
	Name string `mapstructure:"name"`
	// InitialCapacity is the initial capacity of the entry map
	// default: 64
	InitialCapacity int `mapstructure:"initial_capacity"`
	// EventBuffer is the initial capacity of each watcher event channel.
	// The channel grows without bound; the buffer only sizes the fast path.
	// default: 16
	EventBuffer int `mapstructure:"event_buffer"`
}

// DefaultConfig returns the default configuration for the Store
// It is used to initialize the store with default configuration when no configuration is provided
func DefaultConfig() *Config {
	return &Config{
		Name:            "store",
		InitialCapacity: 64,
		EventBuffer:     16,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Name == "" {
		return ErrInvalidName(c.Name)
	}
	if c.InitialCapacity < 0 {
		return ErrInvalidInitialCapacity(c.InitialCapacity)
	}
	if c.EventBuffer < 1 {
		return ErrInvalidEventBuffer(c.EventBuffer)
	}
	return nil
}
