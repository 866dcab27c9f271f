package query

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestSubscribe_InitialLoad(t *testing.T) {
	c := newTestCoordinator(t)
	release := make(chan struct{})

	h, err := Subscribe(c, "dashboard", func(ctx context.Context) (string, error) {
		<-release
		return "summary", nil
	}, nil)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer h.Close()

	// first load over an empty cache: loading, no data
	eventually(t, time.Second, func() bool {
		st := h.State()
		return st.Loading && st.IsValidating
	}, "first load should report loading")
	if st := h.State(); st.Data != nil {
		t.Errorf("no data should exist yet, got %v", *st.Data)
	}

	close(release)

	eventually(t, time.Second, func() bool {
		st := h.State()
		return st.Data != nil && !st.Loading && !st.IsValidating
	}, "load should settle with data")
	if st := h.State(); *st.Data != "summary" {
		t.Errorf("expected summary, got %q", *st.Data)
	}
}

func TestSubscribe_SeedsFromFreshCache(t *testing.T) {
	c := newTestCoordinator(t)
	c.Store().Set("profile", "cached-profile")

	var calls atomic.Int32
	h, err := Subscribe(c, "profile", func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "network-profile", nil
	}, nil)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer h.Close()

	st := h.State()
	if st.Data == nil || *st.Data != "cached-profile" {
		t.Errorf("state should seed from cache, got %+v", st)
	}
	if st.Loading {
		t.Error("cached data means no first-load state")
	}

	// the entry is fresh within the default window, so no fetch happens
	time.Sleep(100 * time.Millisecond)
	if calls.Load() != 0 {
		t.Errorf("fresh cache should suppress the initial fetch, got %d calls", calls.Load())
	}
}

func TestSubscribe_FallbackData(t *testing.T) {
	c := newTestCoordinator(t)
	release := make(chan struct{})
	fallback := "placeholder"

	h, err := Subscribe(c, "settings", func(ctx context.Context) (string, error) {
		<-release
		return "real", nil
	}, &Options[string]{FallbackData: &fallback})
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer h.Close()

	st := h.State()
	if st.Data == nil || *st.Data != "placeholder" {
		t.Errorf("fallback data should seed the state, got %+v", st)
	}
	if st.Loading {
		t.Error("fallback data means Loading stays false")
	}

	close(release)
	eventually(t, time.Second, func() bool {
		st := h.State()
		return st.Data != nil && *st.Data == "real"
	}, "fetched data should replace the fallback")
}

func TestSubscribe_Disabled(t *testing.T) {
	c := newTestCoordinator(t)
	var calls atomic.Int32

	h, err := Subscribe(c, "goals", func(ctx context.Context) (int, error) {
		calls.Add(1)
		return 1, nil
	}, &Options[int]{Disabled: true})
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer h.Close()

	time.Sleep(50 * time.Millisecond)
	if calls.Load() != 0 {
		t.Errorf("disabled subscription must never fetch, got %d calls", calls.Load())
	}
	if c.Store().Len() != 0 {
		t.Error("disabled subscription must not touch the store")
	}

	if _, err := h.Refetch(context.Background()); !errors.Is(err, ErrSkipped) {
		t.Errorf("refetch on disabled handle should skip, got %v", err)
	}

	// local writes are no-ops too
	h.Set(9)
	if c.Store().Len() != 0 {
		t.Error("Set on a disabled handle must not write")
	}
}

func TestSubscribe_EmptyKeyIsNoop(t *testing.T) {
	c := newTestCoordinator(t)
	var calls atomic.Int32

	h, err := Subscribe(c, "", func(ctx context.Context) (int, error) {
		calls.Add(1)
		return 1, nil
	}, nil)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer h.Close()

	time.Sleep(50 * time.Millisecond)
	if calls.Load() != 0 {
		t.Errorf("empty key must never fetch, got %d calls", calls.Load())
	}
}

func TestHandle_InvalidateTriggersRevalidation(t *testing.T) {
	c := newTestCoordinator(t)
	var calls atomic.Int32

	h, err := Subscribe(c, "budgets", func(ctx context.Context) (int, error) {
		return int(calls.Add(1)), nil
	}, nil)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer h.Close()

	eventually(t, time.Second, func() bool {
		return calls.Load() == 1
	}, "initial load should run once")

	c.Store().Invalidate("budgets")

	eventually(t, 2*time.Second, func() bool {
		st := h.State()
		return calls.Load() == 2 && st.Data != nil && *st.Data == 2
	}, "invalidation should refetch and adopt the new value")
}

func TestHandle_SetFansOutToSubscribers(t *testing.T) {
	c := newTestCoordinator(t)

	fetcher := func(ctx context.Context) (string, error) { return "initial", nil }

	h1, err := Subscribe(c, "notifications", fetcher, nil)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer h1.Close()
	h2, err := Subscribe(c, "notifications", fetcher, nil)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer h2.Close()

	eventually(t, time.Second, func() bool {
		return h1.State().Data != nil && h2.State().Data != nil
	}, "both handles should load")

	h1.Set("locally-updated")

	if st := h1.State(); st.Data == nil || *st.Data != "locally-updated" {
		t.Errorf("writer should see its own write immediately, got %+v", st)
	}
	eventually(t, time.Second, func() bool {
		st := h2.State()
		return st.Data != nil && *st.Data == "locally-updated"
	}, "other subscribers should adopt the write")
}

func TestHandle_ErrorKeepsStaleData(t *testing.T) {
	c := newTestCoordinator(t)
	var fail atomic.Bool
	boom := errors.New("boom")

	h, err := Subscribe(c, "analytics", func(ctx context.Context) (string, error) {
		if fail.Load() {
			return "", boom
		}
		return "good", nil
	}, &Options[string]{ErrorRetryCount: 1, ErrorRetryInterval: time.Millisecond})
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer h.Close()

	eventually(t, time.Second, func() bool {
		st := h.State()
		return st.Data != nil && *st.Data == "good"
	}, "initial load should succeed")

	fail.Store(true)
	if _, err := h.Refetch(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	st := h.State()
	if !errors.Is(st.Err, boom) {
		t.Errorf("state should carry the error, got %v", st.Err)
	}
	if st.Data == nil || *st.Data != "good" {
		t.Errorf("stale data should survive the error, got %+v", st.Data)
	}

	// a later success clears the error
	fail.Store(false)
	if _, err := h.Refetch(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st := h.State(); st.Err != nil {
		t.Errorf("error should clear on success, got %v", st.Err)
	}
}

func TestHandle_CloseDiscardsLateResult(t *testing.T) {
	c := newTestCoordinator(t)
	release := make(chan struct{})

	h, err := Subscribe(c, "transactions", func(ctx context.Context) (string, error) {
		<-release
		return "late", nil
	}, nil)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	eventually(t, time.Second, func() bool {
		return c.Store().InFlight("transactions")
	}, "fetch should be in flight")

	h.Close()
	close(release)

	// the store still receives the write, the closed handle does not
	eventually(t, 2*time.Second, func() bool {
		return c.Store().Has("transactions")
	}, "in-flight result should land in the store after handle close")

	if st := h.State(); st.Data != nil {
		t.Errorf("closed handle must not adopt late results, got %v", *st.Data)
	}
}

func TestHandle_LoadingVersusValidating(t *testing.T) {
	c := newTestCoordinator(t)
	gate := make(chan struct{})
	var gated atomic.Bool

	fetcher := func(ctx context.Context) (int, error) {
		if gated.Load() {
			<-gate
		}
		return 5, nil
	}

	h, err := Subscribe(c, "goal-1", fetcher, nil)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer h.Close()

	eventually(t, time.Second, func() bool {
		return h.State().Data != nil
	}, "initial load should complete")

	gated.Store(true)
	go h.Refetch(context.Background())

	// revalidation over existing data: validating yes, loading no
	eventually(t, time.Second, func() bool {
		return h.State().IsValidating
	}, "refetch should mark the state as validating")
	if st := h.State(); st.Loading {
		t.Error("revalidation must not flip Loading with data present")
	}

	close(gate)
	eventually(t, time.Second, func() bool {
		return !h.State().IsValidating
	}, "refetch should settle")
}

func TestHandle_Updates(t *testing.T) {
	c := newTestCoordinator(t)

	h, err := Subscribe(c, "profile", func(ctx context.Context) (string, error) {
		return "v1", nil
	}, nil)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	// the stream is conflated; drain until the loaded state shows up
	deadline := time.After(2 * time.Second)
	for loaded := false; !loaded; {
		select {
		case st, ok := <-h.Updates():
			if !ok {
				t.Fatal("updates closed before data arrived")
			}
			loaded = st.Data != nil && *st.Data == "v1"
		case <-deadline:
			t.Fatal("timed out waiting for update")
		}
	}

	h.Close()
	// channel closes with the handle
	eventuallyClosed := false
	for !eventuallyClosed {
		select {
		case _, ok := <-h.Updates():
			if !ok {
				eventuallyClosed = true
			}
		case <-time.After(time.Second):
			t.Fatal("updates channel should close with the handle")
		}
	}

	if _, err := h.Refetch(context.Background()); !errors.Is(err, ErrHandleClosed) {
		t.Errorf("refetch after close should fail, got %v", err)
	}
}
