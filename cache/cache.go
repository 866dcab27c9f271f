// Package cache provides the keyed entry store shared by queries and
// mutations.
//
// The cache package follows go-datasync conventions:
// - Interface-driven design for testability
// - Uses logger.Logger interface for unified logging
// - Configuration with validation and defaults
// - Structured error handling
//
// The store keeps one entry per key. An entry carries the last value
// written for the key, the time it was written, and an in-flight marker
// while a fetch for that key is running. Value and timestamp are always
// written together under the store lock, so a reader never observes data
// from one fetch paired with the timestamp of another.
package cache

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/mybudget/go-datasync/logger"
	"go.uber.org/zap"
)

// Entry is a read-only snapshot of a single cache slot.
//
// IMPORTANT: For reference types (slice, map, pointer), Data shares
// memory with the stored value, not a deep copy. Callers MUST treat it
// as read-only. Modifying it will cause data races when the value is
// read by other goroutines.
type Entry struct {
	// Key identifies the slot
	Key string
	// Data is the last completed value written for the key
	Data any
	// Timestamp is the time Data was written
	Timestamp time.Time
	// InFlight reports whether a fetch for the key was running when the
	// snapshot was taken
	InFlight bool
}

// Age returns how long ago the entry was written.
func (e Entry) Age() time.Duration {
	return time.Since(e.Timestamp)
}

// FreshWithin reports whether the entry was written less than d ago.
// A non-positive d means nothing is ever fresh.
func (e Entry) FreshWithin(d time.Duration) bool {
	return d > 0 && e.Age() < d
}

// entry is the mutable slot guarded by the store mutex.
type entry struct {
	data      any
	timestamp time.Time
	hasData   bool
	inFlight  bool
}

// Store is an in-memory keyed cache. It is the single source of truth
// for query results within a process: queries read and write entries,
// mutations invalidate them, and watchers observe changes per key.
// All operations are safe for concurrent use.
type Store struct {
	// Dependencies
	logger logger.Logger

	// Configuration
	name        string
	eventBuffer int

	// Runtime state
	mu       sync.RWMutex
	entries  map[string]*entry
	watchers map[string]map[uuid.UUID]*Watcher

	closed atomic.Bool
}

// New creates a store. A nil config uses defaults.
func New(log logger.Logger, cfg *Config) (*Store, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	} else {
		// Merge with defaults for zero values
		defaults := DefaultConfig()
		if cfg.Name == "" {
			cfg.Name = defaults.Name
		}
		if cfg.InitialCapacity == 0 {
			cfg.InitialCapacity = defaults.InitialCapacity
		}
		if cfg.EventBuffer == 0 {
			cfg.EventBuffer = defaults.EventBuffer
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Store{
		logger:      log,
		name:        cfg.Name,
		eventBuffer: cfg.EventBuffer,
		entries:     make(map[string]*entry, cfg.InitialCapacity),
		watchers:    make(map[string]map[uuid.UUID]*Watcher),
	}, nil
}

// Get returns a snapshot of the entry for key. The boolean is true only
// when a completed value exists; a placeholder created by BeginFlight
// does not count.
func (s *Store) Get(key string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok || !e.hasData {
		return Entry{}, false
	}
	return Entry{Key: key, Data: e.data, Timestamp: e.timestamp, InFlight: e.inFlight}, true
}

// Has reports whether a completed value exists for key.
func (s *Store) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	return ok && e.hasData
}

// Set writes data for key and stamps it with the current time. The value
// and its timestamp are updated atomically. Watchers of the key are
// notified after the write.
func (s *Store) Set(key string, data any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		e = &entry{}
		s.entries[key] = e
	}
	e.data = data
	e.timestamp = time.Now()
	e.hasData = true

	s.notifyLocked(key, EventSet)
}

// BeginFlight marks a fetch as running for key. A placeholder entry is
// created when none exists so concurrent readers can observe the flight.
func (s *Store) BeginFlight(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		e = &entry{}
		s.entries[key] = e
	}
	e.inFlight = true
}

// EndFlight clears the in-flight marker for key. Placeholder entries
// that never received data are dropped. Missing keys are a no-op.
func (s *Store) EndFlight(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return
	}
	e.inFlight = false
	if !e.hasData {
		delete(s.entries, key)
	}
}

// InFlight reports whether a fetch for key is currently marked running.
func (s *Store) InFlight(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	return ok && e.inFlight
}

// Invalidate removes the entry for key. Removing an absent key is a
// no-op, not an error. Watchers of the key are notified either way so
// subscribers can revalidate local state.
//
// A fetch already in flight for the key is not aborted; its result will
// be written when it lands.
func (s *Store) Invalidate(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	s.notifyLocked(key, EventInvalidate)

	s.logger.Debug("entry invalidated",
		zap.String("store", s.name),
		zap.String("key", key),
	)
}

// InvalidatePrefix removes every entry whose key starts with prefix and
// notifies every watcher whose watched key matches, whether or not an
// entry currently exists for it.
func (s *Store) InvalidatePrefix(prefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
			removed++
		}
	}
	for key := range s.watchers {
		if strings.HasPrefix(key, prefix) {
			s.notifyLocked(key, EventInvalidate)
		}
	}

	s.logger.Debug("entries invalidated by prefix",
		zap.String("store", s.name),
		zap.String("prefix", prefix),
		zap.Int("removed", removed),
	)
}

// Clear removes all entries and notifies every watcher. It is used on
// sign-out and for test isolation.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := len(s.entries)
	s.entries = make(map[string]*entry)
	for key := range s.watchers {
		s.notifyLocked(key, EventInvalidate)
	}

	s.logger.Debug("store cleared",
		zap.String("store", s.name),
		zap.Int("removed", removed),
	)
}

// Len returns the number of entries, completed or in flight.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Keys returns a snapshot of all entry keys in no particular order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	return keys
}

// Closed reports whether Close has been called.
func (s *Store) Closed() bool {
	return s.closed.Load()
}

// Close closes every registered watcher and stops accepting new ones.
// Entries stay readable. It can be called multiple times safely.
func (s *Store) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}

	s.mu.Lock()
	var all []*Watcher
	for _, set := range s.watchers {
		for _, w := range set {
			all = append(all, w)
		}
	}
	s.watchers = make(map[string]map[uuid.UUID]*Watcher)
	s.mu.Unlock()

	for _, w := range all {
		if w.closed.CompareAndSwap(false, true) {
			close(w.ch.In)
		}
	}

	s.logger.Debug("store closed",
		zap.String("store", s.name),
		zap.Int("watchers", len(all)),
	)
}
