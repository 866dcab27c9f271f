package cache

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/smallnest/chanx"
	"go.uber.org/zap"
)

// EventType identifies what happened to a watched key.
type EventType uint8

const (
	// EventSet is delivered after a value is written for the key.
	EventSet EventType = iota + 1
	// EventInvalidate is delivered after the key is invalidated, matched
	// by a prefix invalidation, or the store is cleared.
	EventInvalidate
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventSet:
		return "set"
	case EventInvalidate:
		return "invalidate"
	default:
		return "unknown"
	}
}

// Event describes a change to a watched key.
type Event struct {
	Type EventType
	Key  string
}

// Watcher receives change events for a single key. Events ride an
// unbounded channel so store writes never block on a slow consumer.
type Watcher struct {
	id    uuid.UUID
	key   string
	store *Store

	ch     *chanx.UnboundedChan[Event]
	closed atomic.Bool
}

// Watch registers a watcher for key. Watching a closed store returns a
// watcher whose event channel is already closed.
func (s *Store) Watch(key string) *Watcher {
	w := &Watcher{
		id:    uuid.New(),
		key:   key,
		store: s,
		ch:    chanx.NewUnboundedChan[Event](context.Background(), s.eventBuffer),
	}

	s.mu.Lock()
	if s.closed.Load() {
		s.mu.Unlock()
		w.closed.Store(true)
		close(w.ch.In)
		return w
	}
	set, ok := s.watchers[key]
	if !ok {
		set = make(map[uuid.UUID]*Watcher)
		s.watchers[key] = set
	}
	set[w.id] = w
	s.mu.Unlock()

	s.logger.Debug("watcher registered",
		zap.String("store", s.name),
		zap.String("key", key),
		zap.String("watcher", w.id.String()),
	)
	return w
}

// Key returns the watched key.
func (w *Watcher) Key() string {
	return w.key
}

// Events returns the event channel. It is closed when the watcher or
// the store is closed; buffered events are still delivered first.
func (w *Watcher) Events() <-chan Event {
	return w.ch.Out
}

// Pending returns the number of undelivered events.
func (w *Watcher) Pending() int {
	return w.ch.Len()
}

// Close deregisters the watcher and closes its event channel. It can be
// called multiple times safely.
func (w *Watcher) Close() {
	if !w.closed.CompareAndSwap(false, true) {
		return
	}
	w.store.dropWatcher(w)
	close(w.ch.In)
}

// dropWatcher removes w from the registry. Removal happens under the
// store lock, so no notification can race with the channel close that
// follows it.
func (s *Store) dropWatcher(w *Watcher) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.watchers[w.key]
	if !ok {
		return
	}
	delete(set, w.id)
	if len(set) == 0 {
		delete(s.watchers, w.key)
	}
}

// notifyLocked delivers an event to every watcher of key. The caller
// must hold the store write lock. Sends cannot block: the watcher
// channel is unbounded.
func (s *Store) notifyLocked(key string, typ EventType) {
	for _, w := range s.watchers[key] {
		w.ch.In <- Event{Type: typ, Key: key}
	}
}
