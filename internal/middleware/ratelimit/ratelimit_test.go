package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestLimiter(t *testing.T, perMinute int) (*Limiter, *time.Time) {
	t.Helper()
	rl := NewLimiter(Config{RequestsPerMinute: perMinute, CleanupInterval: time.Hour})
	t.Cleanup(rl.Stop)

	now := time.Date(2026, 1, 20, 10, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	return rl, &now
}

func TestLimiter_Allow(t *testing.T) {
	rl, now := newTestLimiter(t, 3)

	for i := 0; i < 3; i++ {
		if !rl.Allow("1.2.3.4") {
			t.Fatalf("request %d rejected, want allowed", i+1)
		}
	}
	if rl.Allow("1.2.3.4") {
		t.Fatal("4th request allowed, want rejected")
	}
	if !rl.Allow("5.6.7.8") {
		t.Error("other client rejected, want allowed")
	}

	*now = now.Add(time.Minute)
	if !rl.Allow("1.2.3.4") {
		t.Error("request after window rejected, want allowed")
	}

	if got := rl.GetMetrics().Rejected; got != 1 {
		t.Errorf("Rejected = %d, want 1", got)
	}
}

func TestLimiter_Cleanup(t *testing.T) {
	rl, now := newTestLimiter(t, 3)
	rl.Allow("1.2.3.4")

	*now = now.Add(11 * time.Minute)
	rl.cleanupStaleEntries()

	if got := rl.GetMetrics().ClientCount; got != 0 {
		t.Errorf("ClientCount = %d, want 0", got)
	}
}

func TestLimiter_Middleware(t *testing.T) {
	rl, now := newTestLimiter(t, 1)
	h := rl.Middleware(func(*http.Request) string { return "ip" }, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("first status = %d, want 200", rec.Code)
	}

	*now = now.Add(20 * time.Second)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second status = %d, want 429", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "40" {
		t.Errorf("Retry-After = %q, want 40", got)
	}
}

func TestLimiter_StopTwice(t *testing.T) {
	rl := NewLimiter(DefaultConfig())
	rl.Stop()
	rl.Stop()
}
