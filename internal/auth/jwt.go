// AngelaMos | 2026
// jwt.go

package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/sayan1112/v0-adult-video-website/internal/config"
	"github.com/sayan1112/v0-adult-video-website/internal/core"
	"github.com/sayan1112/v0-adult-video-website/internal/middleware"
)

const (
	userClaim = "user"

	SessionTTL = 24 * time.Hour
)

// SessionManager issues and verifies HS256 session tokens. It keeps no
// server-side state: a token is valid until it expires.
type SessionManager struct {
	key    jwk.Key
	config config.SessionConfig
	now    func() time.Time
}

func NewSessionManager(cfg config.SessionConfig) (*SessionManager, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("session secret is required")
	}
	if cfg.CookieName == "" {
		cfg.CookieName = "session"
	}

	key, err := jwk.Import([]byte(cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("import session key: %w", err)
	}

	return &SessionManager{
		key:    key,
		config: cfg,
		now:    time.Now,
	}, nil
}

func (m *SessionManager) CookieName() string {
	return m.config.CookieName
}

func (m *SessionManager) Issue(
	identity middleware.Identity,
) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(SessionTTL)

	token, err := jwt.NewBuilder().
		IssuedAt(now).
		Expiration(expiresAt).
		Claim(userClaim, map[string]any{
			"id":    identity.ID,
			"email": identity.Email,
			"role":  identity.Role,
			"name":  identity.Name,
		}).
		Build()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), m.key))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return string(signed), expiresAt, nil
}

// Validate returns the identity carried by a well-signed, unexpired token.
// Any failure is reported as core.ErrUnauthenticated.
func (m *SessionManager) Validate(
	_ context.Context,
	tokenString string,
) (*middleware.Identity, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("validate session: empty token: %w",
			core.ErrUnauthenticated)
	}

	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.HS256(), m.key),
		jwt.WithValidate(true),
		jwt.WithClock(jwt.ClockFunc(m.now)),
	)
	if err != nil {
		return nil, fmt.Errorf("validate session: %w", core.ErrUnauthenticated)
	}

	if _, ok := token.Expiration(); !ok {
		return nil, fmt.Errorf("validate session: missing exp: %w",
			core.ErrUnauthenticated)
	}

	var raw any
	if err := token.Get(userClaim, &raw); err != nil {
		return nil, fmt.Errorf("validate session: missing user claim: %w",
			core.ErrUnauthenticated)
	}

	claim, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("validate session: malformed user claim: %w",
			core.ErrUnauthenticated)
	}

	identity := &middleware.Identity{
		ID:    claimString(claim, "id"),
		Email: claimString(claim, "email"),
		Role:  claimString(claim, "role"),
		Name:  claimString(claim, "name"),
	}
	if identity.ID == "" {
		return nil, fmt.Errorf("validate session: missing user id: %w",
			core.ErrUnauthenticated)
	}

	return identity, nil
}

func claimString(claim map[string]any, key string) string {
	s, _ := claim[key].(string)
	return s
}

func (m *SessionManager) SetSessionCookie(
	w http.ResponseWriter,
	token string,
	expiresAt time.Time,
) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.config.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(expiresAt.Sub(m.now()).Seconds()),
		HttpOnly: true,
		Secure:   m.config.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *SessionManager) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.config.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.config.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
