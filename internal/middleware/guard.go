// AngelaMos | 2026
// guard.go

package middleware

import (
	"net/http"
	"strings"

	"github.com/sayan1112/v0-adult-video-website/internal/core"
)

type Decision int

const (
	Allow Decision = iota
	RequireLogin
	RequireAdminRole
	AlreadyAuthenticated
)

type GuardConfig struct {
	AdminPrefixes   []string
	ProfilePrefixes []string
	AuthEntryPaths  []string
	LoginPath       string
	HomePath        string
}

func DefaultGuardConfig() GuardConfig {
	return GuardConfig{
		AdminPrefixes:   []string{"/admin", "/v1/admin"},
		ProfilePrefixes: []string{"/profile", "/v1/profile"},
		AuthEntryPaths: []string{
			"/login",
			"/signup",
			"/v1/auth/login",
			"/v1/auth/register",
		},
		LoginPath: "/login",
		HomePath:  "/",
	}
}

// Guard gates admin, profile and auth-entry paths on the session carried by
// the request. All other paths pass through untouched.
type Guard struct {
	verifier SessionVerifier
	config   GuardConfig
}

func NewGuard(verifier SessionVerifier, cfg GuardConfig) *Guard {
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login"
	}
	if cfg.HomePath == "" {
		cfg.HomePath = "/"
	}
	return &Guard{verifier: verifier, config: cfg}
}

func (g *Guard) Decide(path string, identity *Identity) Decision {
	switch {
	case matchesPrefix(path, g.config.AdminPrefixes):
		if identity == nil {
			return RequireLogin
		}
		if identity.Role != RoleAdmin {
			return RequireAdminRole
		}
	case matchesPrefix(path, g.config.ProfilePrefixes):
		if identity == nil {
			return RequireLogin
		}
	case matchesExact(path, g.config.AuthEntryPaths):
		if identity != nil {
			return AlreadyAuthenticated
		}
	}
	return Allow
}

// Handler redirects browsers and sends API clients a JSON error.
func (g *Guard) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := resolveIdentity(r, g.verifier)
		if identity != nil {
			r = r.WithContext(WithIdentity(r.Context(), identity))
		}

		decision := g.Decide(r.URL.Path, identity)
		if decision == Allow {
			next.ServeHTTP(w, r)
			return
		}

		if wantsHTML(r) {
			target := g.config.LoginPath
			if decision == AlreadyAuthenticated {
				target = g.config.HomePath
			}
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}

		switch decision {
		case RequireLogin:
			core.JSONError(w, core.UnauthorizedError("authentication required"))
		case RequireAdminRole:
			core.JSONError(w, core.ForbiddenError("admin access required"))
		case AlreadyAuthenticated:
			core.JSONError(w, core.ConflictError("already authenticated"))
		}
	})
}

func matchesPrefix(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		prefix = strings.TrimSuffix(prefix, "/")
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

func matchesExact(path string, paths []string) bool {
	trimmed := strings.TrimSuffix(path, "/")
	for _, p := range paths {
		if trimmed == strings.TrimSuffix(p, "/") {
			return true
		}
	}
	return false
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
