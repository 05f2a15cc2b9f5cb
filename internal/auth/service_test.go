// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/sayan1112/v0-adult-video-website/internal/core"
	"github.com/sayan1112/v0-adult-video-website/internal/middleware"
)

type fakeUsers struct {
	mu      sync.Mutex
	byEmail map[string]*UserInfo
	rehash  map[string]string
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		byEmail: make(map[string]*UserInfo),
		rehash:  make(map[string]string),
	}
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*UserInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byEmail[email]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) Create(
	_ context.Context,
	email, passwordHash, name, role string,
) (*UserInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byEmail[email]; ok {
		return nil, core.ErrDuplicateKey
	}
	u := &UserInfo{
		ID:           "id-" + email,
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		Role:         role,
	}
	f.byEmail[email] = u
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rehash[userID] = passwordHash
	for _, u := range f.byEmail {
		if u.ID == userID {
			u.PasswordHash = passwordHash
		}
	}
	return nil
}

func newTestAuth(t *testing.T) (*Service, *fakeUsers) {
	t.Helper()
	users := newFakeUsers()
	return NewService(users, newTestSessions(t, testSecret), "admin"), users
}

func TestRegisterAssignsRoleFromEmail(t *testing.T) {
	ctx := context.Background()
	svc, users := newTestAuth(t)

	resp, err := svc.Register(ctx, RegisterRequest{
		Name: "Boss", Email: "site-admin@example.com", Password: "secret1",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.User.Role != RoleAdmin {
		t.Fatalf("expected admin role, got %q", resp.User.Role)
	}

	resp, err = svc.Register(ctx, RegisterRequest{
		Name: "Viewer", Email: "viewer@example.com", Password: "secret1",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.User.Role != RoleUser {
		t.Fatalf("expected user role, got %q", resp.User.Role)
	}

	stored := users.byEmail["viewer@example.com"]
	if stored.PasswordHash == "secret1" || !strings.HasPrefix(stored.PasswordHash, "$argon2id$") {
		t.Fatalf("password not hashed: %q", stored.PasswordHash)
	}

	identity, err := svc.Sessions().Validate(ctx, resp.Token)
	if err != nil {
		t.Fatalf("issued token invalid: %v", err)
	}
	if identity.Email != "viewer@example.com" {
		t.Fatalf("unexpected identity %+v", identity)
	}
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc, users := newTestAuth(t)

	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{"short name", RegisterRequest{Name: "A", Email: "a@example.com", Password: "secret1"}},
		{"bad email", RegisterRequest{Name: "Alice", Email: "not-an-email", Password: "secret1"}},
		{"short password", RegisterRequest{Name: "Alice", Email: "a@example.com", Password: "12345"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Register(ctx, tt.req); !errors.Is(err, core.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}

	if len(users.byEmail) != 0 {
		t.Fatal("invalid registrations reached storage")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuth(t)
	req := RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "secret1"}

	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, req); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuth(t)

	if _, err := svc.Register(ctx, RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "secret1",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	resp, err := svc.Login(ctx, LoginRequest{Email: "alice@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.User.Name != "Alice" || resp.Token == "" {
		t.Fatalf("unexpected login response %+v", resp)
	}

	if _, err := svc.Login(ctx, LoginRequest{Email: "alice@example.com", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "secret1"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUpgradesLegacyHash(t *testing.T) {
	ctx := context.Background()
	svc, users := newTestAuth(t)

	legacy, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	users.byEmail["old@example.com"] = &UserInfo{
		ID:           "old",
		Email:        "old@example.com",
		Name:         "Old Timer",
		PasswordHash: string(legacy),
		Role:         RoleUser,
	}

	if _, err := svc.Login(ctx, LoginRequest{Email: "old@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.HasPrefix(users.rehash["old"], "$argon2id$") {
		t.Fatalf("expected rehash to argon2id, got %q", users.rehash["old"])
	}
}

func TestHandlerSetsAndClearsCookie(t *testing.T) {
	svc, _ := newTestAuth(t)
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Route("/v1", func(r chi.Router) {
		h.RegisterRoutes(r, middleware.Authenticator(svc.Sessions()))
	})

	body := `{"name":"Alice","email":"alice@example.com","password":"secret1"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "session" || cookies[0].Value == "" {
		t.Fatalf("expected session cookie, got %+v", cookies)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /me, got %d", rec.Code)
	}
	var me struct {
		Data MeResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&me); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if me.Data.User.Email != "alice@example.com" {
		t.Fatalf("unexpected identity %+v", me.Data.User)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/auth/register", strings.NewReader(body)))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/auth/login",
		strings.NewReader(`{"email":"alice@example.com","password":"nope"}`)))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad password, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 from logout, got %d", rec.Code)
	}
	if c := rec.Result().Cookies(); len(c) != 1 || c[0].MaxAge >= 0 {
		t.Fatalf("expected cleared cookie, got %+v", c)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without cookie, got %d", rec.Code)
	}
}
