// AngelaMos | 2026
// dto.go

package auth

import (
	"time"

	"github.com/sayan1112/v0-adult-video-website/internal/middleware"
)

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=1,max=128"`
}

type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,min=2,max=100"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

type SessionResponse struct {
	User      middleware.Identity `json:"user"`
	Token     string              `json:"token"`
	ExpiresAt time.Time           `json:"expires_at"`
}

type MeResponse struct {
	User middleware.Identity `json:"user"`
}
