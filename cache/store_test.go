package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mybudget/go-datasync/logger"
)

func testLogger(t *testing.T) logger.Logger {
	t.Helper()
	log, _ := logger.New(&logger.Config{Level: "error", Encoding: "console"})
	return log
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(testLogger(t), nil)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return s
}

func recvEvent(t *testing.T, w *Watcher) Event {
	t.Helper()
	select {
	case ev, ok := <-w.Events():
		if !ok {
			t.Fatal("event channel closed unexpectedly")
		}
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

// ============ Config Tests ============

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{"valid", &Config{Name: "store", InitialCapacity: 8, EventBuffer: 4}, false},
		{"empty name", &Config{InitialCapacity: 8, EventBuffer: 4}, true},
		{"negative capacity", &Config{Name: "store", InitialCapacity: -1, EventBuffer: 4}, true},
		{"zero event buffer", &Config{Name: "store", InitialCapacity: 8}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNew_NilConfigUsesDefaults(t *testing.T) {
	s, err := New(testLogger(t), nil)
	if err != nil {
		t.Fatalf("New(nil) failed: %v", err)
	}
	if s.name != "store" || s.eventBuffer != 16 {
		t.Errorf("defaults not applied: name=%q eventBuffer=%d", s.name, s.eventBuffer)
	}
}

// ============ Entry Operations ============

func TestStore_SetGet(t *testing.T) {
	s := newTestStore(t)

	before := time.Now()
	s.Set("dashboard", map[string]int{"total": 42})

	e, ok := s.Get("dashboard")
	if !ok {
		t.Fatal("expected entry after Set")
	}
	if e.Key != "dashboard" {
		t.Errorf("expected key dashboard, got %q", e.Key)
	}
	data, ok := e.Data.(map[string]int)
	if !ok || data["total"] != 42 {
		t.Errorf("unexpected data: %v", e.Data)
	}
	if e.Timestamp.Before(before) {
		t.Error("timestamp should be stamped at write time")
	}
}

func TestStore_Get_Missing(t *testing.T) {
	s := newTestStore(t)
	if _, ok := s.Get("nonexistent"); ok {
		t.Error("expected miss for missing key")
	}
	if s.Has("nonexistent") {
		t.Error("Has should report false for missing key")
	}
}

func TestStore_Set_OverwritesAtomically(t *testing.T) {
	s := newTestStore(t)

	s.Set("k", "v1")
	first, _ := s.Get("k")

	time.Sleep(5 * time.Millisecond)
	s.Set("k", "v2")

	e, ok := s.Get("k")
	if !ok {
		t.Fatal("expected entry")
	}
	if e.Data != "v2" {
		t.Errorf("expected v2, got %v", e.Data)
	}
	if !e.Timestamp.After(first.Timestamp) {
		t.Error("timestamp should advance with the new data")
	}
}

func TestStore_FlightMarkers(t *testing.T) {
	s := newTestStore(t)

	s.BeginFlight("k")
	if !s.InFlight("k") {
		t.Error("expected in-flight after BeginFlight")
	}
	// placeholder must not be visible as a completed value
	if _, ok := s.Get("k"); ok {
		t.Error("placeholder entry should not be readable")
	}
	if s.Has("k") {
		t.Error("Has should ignore placeholder entries")
	}

	s.Set("k", 1)
	e, ok := s.Get("k")
	if !ok || !e.InFlight {
		t.Error("entry should carry the in-flight marker while fetch is running")
	}

	s.EndFlight("k")
	if s.InFlight("k") {
		t.Error("expected flight cleared after EndFlight")
	}
	if _, ok := s.Get("k"); !ok {
		t.Error("data should survive EndFlight")
	}
}

func TestStore_EndFlight_DropsEmptyPlaceholder(t *testing.T) {
	s := newTestStore(t)

	s.BeginFlight("k")
	s.EndFlight("k")

	if s.Len() != 0 {
		t.Errorf("placeholder should be dropped, got %d entries", s.Len())
	}
	// missing key is a no-op
	s.EndFlight("never-seen")
}

func TestStore_Invalidate(t *testing.T) {
	s := newTestStore(t)

	s.Set("goal-1", "g")
	s.Invalidate("goal-1")
	if _, ok := s.Get("goal-1"); ok {
		t.Error("expected entry removed")
	}

	// invalidating again, or a key that never existed, is a no-op
	s.Invalidate("goal-1")
	s.Invalidate("never-seen")
}

func TestStore_InvalidatePrefix(t *testing.T) {
	s := newTestStore(t)

	s.Set("transactions-{Month:1}", "a")
	s.Set("transactions-{Month:2}", "b")
	s.Set("dashboard", "c")

	s.InvalidatePrefix("transactions")

	if s.Has("transactions-{Month:1}") || s.Has("transactions-{Month:2}") {
		t.Error("prefixed entries should be removed")
	}
	if !s.Has("dashboard") {
		t.Error("unrelated entry should survive")
	}
}

func TestStore_Clear(t *testing.T) {
	s := newTestStore(t)

	s.Set("a", 1)
	s.Set("b", 2)
	s.Clear()

	if s.Len() != 0 {
		t.Errorf("expected empty store, got %d entries", s.Len())
	}
}

func TestStore_Keys(t *testing.T) {
	s := newTestStore(t)

	s.Set("a", 1)
	s.Set("b", 2)

	keys := s.Keys()
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(keys))
	}
	seen := map[string]bool{}
	for _, k := range keys {
		seen[k] = true
	}
	if !seen["a"] || !seen["b"] {
		t.Errorf("unexpected keys: %v", keys)
	}
}

// ============ Watcher Tests ============

func TestWatcher_SetEvent(t *testing.T) {
	s := newTestStore(t)

	w := s.Watch("budget-1")
	defer w.Close()

	s.Set("budget-1", "x")

	ev := recvEvent(t, w)
	if ev.Type != EventSet || ev.Key != "budget-1" {
		t.Errorf("unexpected event: %+v", ev)
	}
}

func TestWatcher_InvalidateEvent_WithoutEntry(t *testing.T) {
	s := newTestStore(t)

	// no entry exists for the key; the watcher is still told to revalidate
	w := s.Watch("budget-1")
	defer w.Close()

	s.Invalidate("budget-1")

	ev := recvEvent(t, w)
	if ev.Type != EventInvalidate {
		t.Errorf("expected invalidate event, got %+v", ev)
	}
}

func TestWatcher_PrefixInvalidateEvent(t *testing.T) {
	s := newTestStore(t)

	wTx := s.Watch("transactions-{Month:1}")
	defer wTx.Close()
	wDash := s.Watch("dashboard")
	defer wDash.Close()

	s.InvalidatePrefix("transactions")

	ev := recvEvent(t, wTx)
	if ev.Type != EventInvalidate || ev.Key != "transactions-{Month:1}" {
		t.Errorf("unexpected event: %+v", ev)
	}
	select {
	case ev := <-wDash.Events():
		t.Errorf("dashboard watcher should not be notified, got %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWatcher_ClearNotifiesAll(t *testing.T) {
	s := newTestStore(t)

	w1 := s.Watch("a")
	defer w1.Close()
	w2 := s.Watch("b")
	defer w2.Close()

	s.Clear()

	if ev := recvEvent(t, w1); ev.Type != EventInvalidate {
		t.Errorf("unexpected event: %+v", ev)
	}
	if ev := recvEvent(t, w2); ev.Type != EventInvalidate {
		t.Errorf("unexpected event: %+v", ev)
	}
}

func TestWatcher_Close(t *testing.T) {
	s := newTestStore(t)

	w := s.Watch("k")
	w.Close()
	w.Close() // idempotent

	// writes after close are not delivered; channel drains then closes
	s.Set("k", 1)

	select {
	case _, ok := <-w.Events():
		if ok {
			t.Error("expected closed channel, got event")
		}
	case <-time.After(time.Second):
		t.Error("channel should be closed promptly")
	}
}

func TestWatcher_BufferedEventsSurviveClose(t *testing.T) {
	s := newTestStore(t)

	w := s.Watch("k")
	s.Set("k", 1)
	s.Set("k", 2)
	w.Close()

	// events queued before close are still delivered, then the channel closes
	delivered := 0
	for range w.Events() {
		delivered++
	}
	if delivered != 2 {
		t.Errorf("expected 2 buffered events, got %d", delivered)
	}
}

func TestStore_Close(t *testing.T) {
	s := newTestStore(t)

	w := s.Watch("k")
	s.Close()
	s.Close() // idempotent

	if !s.Closed() {
		t.Error("Closed should report true")
	}

	select {
	case _, ok := <-w.Events():
		if ok {
			t.Error("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Error("watcher channel should close with the store")
	}

	// watching a closed store yields an already-closed channel
	w2 := s.Watch("other")
	if _, ok := <-w2.Events(); ok {
		t.Error("watcher on closed store should have a closed channel")
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", n%10)
			s.Set(key, n)
			s.Get(key)
			s.Has(key)
			if n%7 == 0 {
				s.Invalidate(key)
			}
			if n%13 == 0 {
				s.InvalidatePrefix("key-1")
			}
		}(i)
	}

	var watchers []*Watcher
	for i := 0; i < 10; i++ {
		w := s.Watch(fmt.Sprintf("key-%d", i))
		watchers = append(watchers, w)
	}

	wg.Wait()
	for _, w := range watchers {
		w.Close()
	}
}

// ============ Typed Access ============

func TestGetTyped(t *testing.T) {
	s := newTestStore(t)

	s.Set("count", 7)

	v, ok, err := GetTyped[int](s, "count")
	if err != nil || !ok || v != 7 {
		t.Errorf("GetTyped = (%v, %v, %v), want (7, true, nil)", v, ok, err)
	}

	if _, ok, err := GetTyped[int](s, "missing"); ok || err != nil {
		t.Errorf("miss should be (false, nil), got (%v, %v)", ok, err)
	}

	if _, _, err := GetTyped[string](s, "count"); err == nil {
		t.Error("expected type mismatch error")
	}
}
