// AngelaMos | 2026
// handler_test.go

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

func healthy() Checker {
	return pingFunc(func(context.Context) error { return nil })
}

func failing() Checker {
	return pingFunc(func(context.Context) error { return errors.New("down") })
}

func serve(t *testing.T, h *Handler, path string) (*httptest.ResponseRecorder, ReadinessResponse) {
	t.Helper()
	r := chi.NewRouter()
	h.RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body ReadinessResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return rec, body
}

func TestReadiness(t *testing.T) {
	rec, body := serve(t, NewHandler(
		Dependency{Name: "file", Checker: healthy()},
		Dependency{Name: "redis", Checker: healthy()},
	), "/readyz")
	if rec.Code != http.StatusOK || body.Status != "ok" || len(body.Checks) != 2 {
		t.Fatalf("expected healthy readiness, got %d %+v", rec.Code, body)
	}
	if body.Checks[0].Name != "file" || body.Checks[1].Name != "redis" {
		t.Fatalf("checks out of order: %+v", body.Checks)
	}

	rec, body = serve(t, NewHandler(
		Dependency{Name: "file", Checker: healthy()},
		Dependency{Name: "postgres", Checker: failing()},
		Dependency{Name: "redis"},
	), "/readyz")
	if rec.Code != http.StatusServiceUnavailable || body.Status != "degraded" {
		t.Fatalf("expected degraded readiness, got %d %+v", rec.Code, body)
	}
	if !body.Checks[0].Healthy || body.Checks[1].Healthy || body.Checks[2].Healthy {
		t.Fatalf("unexpected check results %+v", body.Checks)
	}
}

func TestShutdownLifecycle(t *testing.T) {
	h := NewHandler(Dependency{Name: "file", Checker: healthy()})

	if rec, _ := serve(t, h, "/livez"); rec.Code != http.StatusOK {
		t.Fatalf("expected live, got %d", rec.Code)
	}

	h.SetReady(false)
	rec, body := serve(t, h, "/readyz")
	if rec.Code != http.StatusServiceUnavailable || body.Status != "not_ready" {
		t.Fatalf("expected not_ready, got %d %+v", rec.Code, body)
	}
	if rec, _ := serve(t, h, "/healthz"); rec.Code != http.StatusOK {
		t.Fatalf("draining server should stay live, got %d", rec.Code)
	}

	h.SetShutdown(true)
	rec, body = serve(t, h, "/healthz")
	if rec.Code != http.StatusServiceUnavailable || body.Status != "shutting_down" {
		t.Fatalf("expected shutting_down, got %d %+v", rec.Code, body)
	}
}
