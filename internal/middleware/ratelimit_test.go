// AngelaMos | 2026
// ratelimit_test.go

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterLocalFallback(t *testing.T) {
	rl := NewRateLimiter(nil, RateLimitConfig{
		Limit:    PerWindow(1, 3, time.Hour),
		FailOpen: true,
	})
	h := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/v1/videos", nil)
		req.RemoteAddr = ip + ":4000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	for i := range 3 {
		if rec := send("10.0.0.1"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}

	rec := send("10.0.0.1")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}

	if rec := send("10.0.0.2"); rec.Code != http.StatusOK {
		t.Fatalf("other client should not be limited, got %d", rec.Code)
	}
}

func TestRateLimiterZeroLimitStillServes(t *testing.T) {
	limit := PerWindow(0, 0, 0)
	if limit.Rate != 1 || limit.Burst != 1 || limit.Period != time.Minute {
		t.Fatalf("unexpected limit %+v", limit)
	}

	rl := NewRateLimiter(nil, RateLimitConfig{Limit: limit})
	h := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/videos", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", rec.Code)
	}
	if rec.Header().Get("X-RateLimit-Reset") == "" {
		t.Fatal("expected reset header")
	}
}

func TestTieredRateLimiter(t *testing.T) {
	tiers := map[string]TierConfig{
		"free":    {RequestsPerMinute: 1, BurstSize: 1},
		"premium": {RequestsPerMinute: 1, BurstSize: 3},
	}
	tierOf := func(_ context.Context, userID string) string {
		if userID == admin.ID {
			return "premium"
		}
		return ""
	}
	h := TieredRateLimiter(nil, tiers, tierOf)(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	send := func(identity *Identity) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/v1/profile", nil)
		if identity != nil {
			req = req.WithContext(WithIdentity(req.Context(), identity))
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	for range 5 {
		if rec := send(nil); rec.Code != http.StatusOK {
			t.Fatalf("anonymous requests are not tiered, got %d", rec.Code)
		}
	}

	if rec := send(viewer); rec.Code != http.StatusOK || rec.Header().Get("X-RateLimit-Tier") != "free" {
		t.Fatalf("expected first free request to pass, got %d tier %q",
			rec.Code, rec.Header().Get("X-RateLimit-Tier"))
	}
	if rec := send(viewer); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected free tier to be limited, got %d", rec.Code)
	}

	for i := range 3 {
		if rec := send(admin); rec.Code != http.StatusOK {
			t.Fatalf("premium request %d: expected 200, got %d", i, rec.Code)
		}
	}
}
