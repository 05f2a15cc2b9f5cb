// AngelaMos | 2026
// guard_test.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubVerifier struct {
	sessions map[string]*Identity
}

func (s stubVerifier) Validate(_ context.Context, token string) (*Identity, error) {
	if identity, ok := s.sessions[token]; ok {
		return identity, nil
	}
	return nil, errors.New("invalid session")
}

func (s stubVerifier) CookieName() string {
	return "session"
}

var (
	viewer = &Identity{ID: "u1", Email: "viewer@example.com", Role: "user", Name: "Viewer"}
	admin  = &Identity{ID: "a1", Email: "admin@example.com", Role: RoleAdmin, Name: "Admin"}
)

func newStubVerifier() stubVerifier {
	return stubVerifier{sessions: map[string]*Identity{
		"viewer-token": viewer,
		"admin-token":  admin,
	}}
}

func TestGuardDecide(t *testing.T) {
	g := NewGuard(newStubVerifier(), DefaultGuardConfig())

	tests := []struct {
		path     string
		identity *Identity
		want     Decision
	}{
		{"/admin", nil, RequireLogin},
		{"/admin/videos", viewer, RequireAdminRole},
		{"/v1/admin/stats", admin, Allow},
		{"/administrator", nil, Allow},
		{"/profile", nil, RequireLogin},
		{"/v1/profile/history", viewer, Allow},
		{"/login", viewer, AlreadyAuthenticated},
		{"/signup/", admin, AlreadyAuthenticated},
		{"/login", nil, Allow},
		{"/login/help", viewer, Allow},
		{"/v1/videos", nil, Allow},
		{"/", viewer, Allow},
	}

	for _, tt := range tests {
		if got := g.Decide(tt.path, tt.identity); got != tt.want {
			t.Errorf("Decide(%q, %v) = %v, want %v", tt.path, tt.identity, got, tt.want)
		}
	}
}

func TestGuardHandler(t *testing.T) {
	g := NewGuard(newStubVerifier(), DefaultGuardConfig())

	var seen *Identity
	h := g.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetIdentity(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name     string
		path     string
		cookie   string
		html     bool
		status   int
		location string
	}{
		{"browser to admin without session", "/admin", "", true, http.StatusSeeOther, "/login"},
		{"browser to profile without session", "/profile", "", true, http.StatusSeeOther, "/login"},
		{"browser to admin as viewer", "/admin", "viewer-token", true, http.StatusSeeOther, "/login"},
		{"browser to login while signed in", "/login", "viewer-token", true, http.StatusSeeOther, "/"},
		{"api to admin without session", "/v1/admin/stats", "", false, http.StatusUnauthorized, ""},
		{"api to admin as viewer", "/v1/admin/stats", "viewer-token", false, http.StatusForbidden, ""},
		{"api register while signed in", "/v1/auth/register", "viewer-token", false, http.StatusConflict, ""},
		{"api to admin as admin", "/v1/admin/stats", "admin-token", false, http.StatusOK, ""},
		{"bad cookie on public page", "/v1/videos", "forged", false, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "session", Value: tt.cookie})
			}
			if tt.html {
				req.Header.Set("Accept", "text/html,application/xhtml+xml")
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
			if tt.location != "" && rec.Header().Get("Location") != tt.location {
				t.Fatalf("expected redirect to %q, got %q", tt.location, rec.Header().Get("Location"))
			}
		})
	}

	seen = nil
	req := httptest.NewRequest(http.MethodGet, "/v1/admin/stats", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "admin-token"})
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen == nil || seen.ID != admin.ID {
		t.Fatalf("expected identity on context, got %+v", seen)
	}
}
