// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sayan1112/v0-adult-video-website/internal/core"
	"github.com/sayan1112/v0-adult-video-website/internal/middleware"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailExists        = errors.New("email already exists")
)

const (
	RoleUser  = "user"
	RoleAdmin = middleware.RoleAdmin
)

type UserInfo struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         string
}

func (u *UserInfo) Identity() middleware.Identity {
	return middleware.Identity{
		ID:    u.ID,
		Email: u.Email,
		Role:  u.Role,
		Name:  u.Name,
	}
}

type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	Create(
		ctx context.Context,
		email, passwordHash, name, role string,
	) (*UserInfo, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

type Service struct {
	users       UserProvider
	sessions    *SessionManager
	validator   *validator.Validate
	adminMarker string
}

func NewService(
	users UserProvider,
	sessions *SessionManager,
	adminMarker string,
) *Service {
	return &Service{
		users:       users,
		sessions:    sessions,
		validator:   validator.New(validator.WithRequiredStructEnabled()),
		adminMarker: adminMarker,
	}
}

func (s *Service) Sessions() *SessionManager {
	return s.sessions
}

func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (*SessionResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)

	if err := s.validator.Struct(req); err != nil {
		return nil, core.ValidationError(core.FormatValidationError(err))
	}

	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(
		ctx,
		req.Email,
		passwordHash,
		req.Name,
		s.roleFor(req.Email),
	)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "user registered",
		"user_id", user.ID,
		"role", user.Role,
	)

	return s.issue(user)
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*SessionResponse, error) {
	req.Email = strings.TrimSpace(req.Email)

	if err := s.validator.Struct(req); err != nil {
		return nil, core.ValidationError(core.FormatValidationError(err))
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(
		req.Password,
		&user.PasswordHash,
	)
	if err != nil {
		slog.WarnContext(ctx, "stored password hash unreadable",
			"user_id", user.ID,
			"error", err,
		)
		return nil, ErrInvalidCredentials
	}

	if !valid {
		return nil, ErrInvalidCredentials
	}

	if newHash != "" {
		if err := s.users.UpdatePassword(ctx, user.ID, newHash); err != nil {
			slog.WarnContext(ctx, "password rehash failed",
				"user_id", user.ID,
				"error", err,
			)
		}
	}

	return s.issue(user)
}

func (s *Service) roleFor(email string) string {
	if s.adminMarker != "" && strings.Contains(email, s.adminMarker) {
		return RoleAdmin
	}
	return RoleUser
}

func (s *Service) issue(user *UserInfo) (*SessionResponse, error) {
	identity := user.Identity()

	token, expiresAt, err := s.sessions.Issue(identity)
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}

	return &SessionResponse{
		User:      identity,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}
