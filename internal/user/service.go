// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/sayan1112/v0-adult-video-website/internal/auth"
	"github.com/sayan1112/v0-adult-video-website/internal/core"
	"github.com/sayan1112/v0-adult-video-website/internal/video"
)

type VideoLookup interface {
	Resolve(ctx context.Context, ids []string) []video.Video
	ListByUploader(ctx context.Context, userID string) []video.Video
}

type Service struct {
	repo      Repository
	videos    VideoLookup
	validator *validator.Validate
	now       func() time.Time
}

func NewService(repo Repository, videos VideoLookup) *Service {
	return &Service{
		repo:      repo,
		videos:    videos,
		validator: validator.New(validator.WithRequiredStructEnabled()),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) Create(
	ctx context.Context,
	email, passwordHash, name, role string,
) (*auth.UserInfo, error) {
	if role != RoleAdmin {
		role = RoleUser
	}

	user := &User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        strings.TrimSpace(email),
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    s.now(),
		Tokens:       StartingTokens,
		Subscription: TierFree,
		WatchHistory: []string{},
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context) []User {
	return s.repo.List(ctx)
}

func (s *Service) Tier(ctx context.Context, userID string) string {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return ""
	}
	return user.Subscription
}

func (s *Service) AddToWatchHistory(
	ctx context.Context,
	userID, videoID string,
) error {
	if strings.TrimSpace(videoID) == "" {
		return core.ValidationError("video_id is required")
	}

	_, err := s.repo.AddToWatchHistory(ctx, userID, videoID)
	return err
}

func (s *Service) WatchHistory(
	ctx context.Context,
	userID string,
) ([]video.Video, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.videos.Resolve(ctx, user.WatchHistory), nil
}

func (s *Service) Uploads(ctx context.Context, userID string) []video.Video {
	return s.videos.ListByUploader(ctx, userID)
}

// AdjustTokens adds delta to the balance. Balances may go negative.
func (s *Service) AdjustTokens(
	ctx context.Context,
	userID string,
	delta int,
) (*User, error) {
	if err := s.validator.Struct(AdjustTokensRequest{Amount: delta}); err != nil {
		return nil, core.ValidationError("amount must be a non-zero integer")
	}

	return s.repo.UpdateTokens(ctx, userID, delta)
}

func (s *Service) SetSubscription(
	ctx context.Context,
	userID, tier string,
) (*User, error) {
	req := UpdateSubscriptionRequest{Subscription: strings.TrimSpace(tier)}
	if err := s.validator.Struct(req); err != nil {
		return nil, core.ValidationError(fmt.Sprintf(
			"subscription must be one of %s, %s, %s",
			TierFree,
			TierPremium,
			TierPro,
		))
	}

	return s.repo.UpdateSubscription(ctx, userID, req.Subscription)
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
	}
}
