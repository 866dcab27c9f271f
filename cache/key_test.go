package cache

import (
	"testing"
	"time"
)

func TestKey_NoParams(t *testing.T) {
	if got := Key("dashboard"); got != "dashboard" {
		t.Errorf("expected dashboard, got %q", got)
	}
}

func TestKey_Deterministic_MapOrder(t *testing.T) {
	// maps built in different insertion orders must yield the same key
	a := map[string]string{"month": "2025-01", "category": "food", "sort": "desc"}
	b := map[string]string{"sort": "desc", "category": "food", "month": "2025-01"}

	ka := Key("transactions", a)
	kb := Key("transactions", b)
	if ka != kb {
		t.Errorf("keys differ for equal maps:\n  %q\n  %q", ka, kb)
	}
}

func TestKey_Struct(t *testing.T) {
	type params struct {
		Month    string
		Category string
		limit    int // unexported, must be ignored
	}

	got := Key("transactions", params{Month: "2025-01", Category: "food", limit: 10})
	want := "transactions-{Month:2025-01,Category:food}"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestKey_PointerAndNil(t *testing.T) {
	v := "abc"
	if got := Key("goal", &v); got != "goal-abc" {
		t.Errorf("pointer should dereference, got %q", got)
	}

	var p *string
	if got := Key("goal", p); got != "goal-nil" {
		t.Errorf("nil pointer should render nil, got %q", got)
	}
	if got := Key("goal", nil); got != "goal-nil" {
		t.Errorf("nil should render nil, got %q", got)
	}
}

func TestKey_Slice(t *testing.T) {
	got := Key("notifications", []string{"unread", "alerts"})
	want := "notifications-[unread,alerts]"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestKey_Time(t *testing.T) {
	ts := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

	first := Key("analytics", ts)
	second := Key("analytics", ts.Add(0))
	if first != second {
		t.Errorf("equal times should yield equal keys: %q vs %q", first, second)
	}
	if first != "analytics-2025-01-15T10:30:00Z" {
		t.Errorf("unexpected time rendering: %q", first)
	}
}

func TestKey_MixedParams(t *testing.T) {
	got := Key("budget", "123", 2025)
	if got != "budget-123-2025" {
		t.Errorf("expected budget-123-2025, got %q", got)
	}
}
