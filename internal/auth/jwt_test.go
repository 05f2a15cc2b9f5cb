// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sayan1112/v0-adult-video-website/internal/config"
	"github.com/sayan1112/v0-adult-video-website/internal/core"
	"github.com/sayan1112/v0-adult-video-website/internal/middleware"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestSessions(t *testing.T, secret string) *SessionManager {
	t.Helper()
	m, err := NewSessionManager(config.SessionConfig{
		Secret:       secret,
		CookieName:   "session",
		SecureCookie: true,
	})
	if err != nil {
		t.Fatalf("new session manager: %v", err)
	}
	return m
}

var testIdentity = middleware.Identity{
	ID:    "user-1",
	Email: "viewer@example.com",
	Role:  "user",
	Name:  "Viewer",
}

func TestIssueValidateRoundTrip(t *testing.T) {
	m := newTestSessions(t, testSecret)

	token, expiresAt, err := m.Issue(testIdentity)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Fatalf("expected a compact JWS, got %q", token)
	}
	if d := time.Until(expiresAt); d < 23*time.Hour || d > 24*time.Hour+time.Minute {
		t.Fatalf("unexpected expiry %v", expiresAt)
	}

	got, err := m.Validate(context.Background(), token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if *got != testIdentity {
		t.Fatalf("identity mismatch: want %+v, got %+v", testIdentity, *got)
	}
}

func TestValidateRejectsTamperedSignature(t *testing.T) {
	m := newTestSessions(t, testSecret)

	token, _, err := m.Issue(testIdentity)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	sig := strings.LastIndex(token, ".") + 1
	flipped := byte('A')
	if token[sig] == 'A' {
		flipped = 'B'
	}
	tampered := token[:sig] + string(flipped) + token[sig+1:]

	if _, err := m.Validate(context.Background(), tampered); !errors.Is(err, core.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	m := newTestSessions(t, testSecret)
	m.now = func() time.Time { return time.Now().Add(-25 * time.Hour) }

	token, _, err := m.Issue(testIdentity)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	m.now = time.Now
	if _, err := m.Validate(context.Background(), token); !errors.Is(err, core.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	issuer := newTestSessions(t, testSecret)
	verifier := newTestSessions(t, strings.Repeat("z", 32))

	token, _, err := issuer.Issue(testIdentity)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := verifier.Validate(context.Background(), token); !errors.Is(err, core.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	m := newTestSessions(t, testSecret)

	for _, token := range []string{"", "not-a-token", "a.b.c", "..."} {
		if _, err := m.Validate(context.Background(), token); !errors.Is(err, core.ErrUnauthenticated) {
			t.Fatalf("token %q: expected ErrUnauthenticated, got %v", token, err)
		}
	}
}

func TestNewSessionManagerRequiresSecret(t *testing.T) {
	_, err := NewSessionManager(config.SessionConfig{CookieName: "session"})
	if err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestSessionCookieAttributes(t *testing.T) {
	m := newTestSessions(t, testSecret)

	rec := httptest.NewRecorder()
	expires := time.Now().Add(24 * time.Hour)
	m.SetSessionCookie(rec, "tok", expires)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != "session" || c.Value != "tok" || c.Path != "/" {
		t.Fatalf("unexpected cookie %+v", c)
	}
	if !c.HttpOnly || !c.Secure || c.SameSite != http.SameSiteLaxMode {
		t.Fatalf("cookie missing security attributes: %+v", c)
	}

	rec = httptest.NewRecorder()
	m.ClearSessionCookie(rec)
	cleared := rec.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge >= 0 || cleared[0].Value != "" {
		t.Fatalf("expected an expiring cookie, got %+v", cleared)
	}
}

func TestIssueUsesFixedSessionLifetime(t *testing.T) {
	m := newTestSessions(t, testSecret)
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return issued }

	_, expiresAt, err := m.Issue(testIdentity)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !expiresAt.Equal(issued.Add(24 * time.Hour)) {
		t.Fatalf("expected expiry 24h after issue, got %v", expiresAt)
	}
}
