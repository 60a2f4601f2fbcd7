package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, WithBaseBackoff(time.Millisecond), WithMaxRetries(2))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNew_RequiresBaseURL(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatalf("expected error for empty baseURL")
	}
}

func TestKPIs_SendsRangeAndDecodes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/users/u1/kpis" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("range"); got != "14d" {
			t.Errorf("range = %q", got)
		}
		writeJSON(w, 200, map[string]interface{}{"avg_daily_calories": 1500, "calorie_balance": 1800})
	})

	k, err := c.KPIs(context.Background(), "u1", "14d")
	if err != nil {
		t.Fatalf("KPIs: %v", err)
	}
	if k.AvgDailyCalories != 1500 || k.CalorieBalance != 1800 {
		t.Fatalf("unexpected kpis %+v", k)
	}
	if k.CurrentWeight != nil {
		t.Fatalf("expected nil weight")
	}
}

func TestReadsRetryOnServerError(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			writeJSON(w, 503, map[string]interface{}{"error": "Service Unavailable", "code": 503})
			return
		}
		writeJSON(w, 200, []map[string]interface{}{{"id": "a", "type": "meal", "value": "300 kcal"}})
	})

	items, err := c.LogHistory(context.Background(), "u1", "", "meal")
	if err != nil {
		t.Fatalf("LogHistory: %v", err)
	}
	if len(items) != 1 || items[0].Value != "300 kcal" {
		t.Fatalf("unexpected items %+v", items)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 calls, got %d", calls.Load())
	}
}

func TestWritesAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, 500, map[string]interface{}{"error": "Internal Server Error", "code": 500})
	})

	if _, err := c.PostMessage(context.Background(), "u1", "oatmeal", ""); err == nil {
		t.Fatalf("expected error")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single attempt, got %d", calls.Load())
	}
}

func TestNotFoundAndProviderErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path == "/api/users/u1/goals" {
			writeJSON(w, 502, map[string]interface{}{"error": "Bad Gateway", "code": 502, "message": "language model error"})
			return
		}
		writeJSON(w, 404, map[string]interface{}{"error": "Not Found", "code": 404, "message": "pending entry not found"})
	})

	_, err := c.GetPending(context.Background(), "u1", "abc")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("404 must not be retried, got %d calls", calls.Load())
	}

	calls.Store(0)
	_, err = c.GetGoals(context.Background(), "u1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != 502 {
		t.Fatalf("expected 502 APIError, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("502 must not be retried, got %d calls", calls.Load())
	}
}

func TestConfirmPostsToPendingPath(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/users/u1/pending/p-1/confirm" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		writeJSON(w, 200, map[string]interface{}{"outcome": "confirmed", "pending_id": "p-1"})
	})

	out, err := c.Confirm(context.Background(), "u1", "p-1")
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if out.Outcome != "confirmed" {
		t.Fatalf("outcome = %s", out.Outcome)
	}
}
