package revalidate

import (
	"sync"

	"github.com/mybudget/go-datasync/logger"
	"go.uber.org/zap"
)

// Signal identifies an environment event that can trigger
// revalidation.
type Signal uint8

const (
	// SignalFocus fires when the application regains focus.
	SignalFocus Signal = iota + 1
	// SignalReconnect fires when network connectivity returns.
	SignalReconnect
)

// String returns the signal name for logging.
func (s Signal) String() string {
	switch s {
	case SignalFocus:
		return "focus"
	case SignalReconnect:
		return "reconnect"
	default:
		return "unknown"
	}
}

// SignalSource delivers environment signals to schedulers. Subscribe
// returns a receive channel and a release function. The channel is
// closed when the source shuts down.
type SignalSource interface {
	Subscribe() (<-chan Signal, func())
}

// signalBuffer bounds each subscriber channel. A subscriber that falls
// this far behind loses the oldest pending signals, which is harmless
// because signals carry no payload.
const signalBuffer = 4

// Hub is the standard SignalSource. The host environment pumps
// EmitFocus and EmitReconnect; every subscriber gets its own buffered
// channel so a stalled consumer never blocks the emitter.
type Hub struct {
	logger logger.Logger

	mu     sync.Mutex
	subs   map[uint64]chan Signal
	nextID uint64
	closed bool
}

// NewHub creates a hub with no subscribers.
func NewHub(log logger.Logger) *Hub {
	return &Hub{
		logger: log,
		subs:   make(map[uint64]chan Signal),
	}
}

// Subscribe registers a new listener. The release function is
// idempotent and closes the returned channel.
func (h *Hub) Subscribe() (<-chan Signal, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Signal, signalBuffer)
	if h.closed {
		close(ch)
		return ch, func() {}
	}

	id := h.nextID
	h.nextID++
	h.subs[id] = ch

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(ch)
		}
	}
}

// EmitFocus broadcasts a focus signal.
func (h *Hub) EmitFocus() {
	h.emit(SignalFocus)
}

// EmitReconnect broadcasts a reconnect signal.
func (h *Hub) EmitReconnect() {
	h.emit(SignalReconnect)
}

func (h *Hub) emit(sig Signal) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}

	dropped := 0
	for _, ch := range h.subs {
		select {
		case ch <- sig:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		h.logger.Debug("signal dropped for slow subscribers",
			zap.String("signal", sig.String()),
			zap.Int("dropped", dropped),
		)
	}
}

// Subscribers reports the number of active subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close shuts the hub down and closes every subscriber channel. Emits
// after Close are no-ops.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true

	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}
