// AngelaMos | 2026
// service.go

package video

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/sayan1112/v0-adult-video-website/internal/core"
)

type Service struct {
	repo      Repository
	validator *validator.Validate
	now       func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:      repo,
		validator: validator.New(validator.WithRequiredStructEnabled()),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) List(ctx context.Context) []Video {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Video, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ByCategory(ctx context.Context, category string) []Video {
	return s.repo.GetByCategory(ctx, category, "")
}

func (s *Service) Related(ctx context.Context, id string) ([]Video, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if v.Category == nil || *v.Category == "" {
		return []Video{}, nil
	}

	return s.repo.GetByCategory(ctx, *v.Category, v.ID), nil
}

func (s *Service) Search(ctx context.Context, query string) []Video {
	query = strings.TrimSpace(query)
	videos := s.repo.List(ctx)
	if query == "" {
		return videos
	}

	matches := make([]Video, 0, len(videos))
	for _, v := range videos {
		if v.Matches(query) {
			matches = append(matches, v)
		}
	}
	return matches
}

func (s *Service) Categories(ctx context.Context) []string {
	seen := make(map[string]struct{})
	categories := make([]string, 0)

	for _, v := range s.repo.List(ctx) {
		if v.Category == nil || *v.Category == "" {
			continue
		}
		if _, ok := seen[*v.Category]; ok {
			continue
		}
		seen[*v.Category] = struct{}{}
		categories = append(categories, *v.Category)
	}

	return categories
}

func (s *Service) ListByUploader(ctx context.Context, userID string) []Video {
	return s.repo.ListByUploader(ctx, userID)
}

// Resolve maps ids to videos in the given order, dropping ids that no
// longer exist.
func (s *Service) Resolve(ctx context.Context, ids []string) []Video {
	byID := make(map[string]Video)
	for _, v := range s.repo.List(ctx) {
		byID[v.ID] = v
	}

	resolved := make([]Video, 0, len(ids))
	for _, id := range ids {
		if v, ok := byID[id]; ok {
			resolved = append(resolved, v)
		}
	}
	return resolved
}

func (s *Service) Create(
	ctx context.Context,
	req CreateVideoRequest,
	uploaderID string,
) (*Video, error) {
	req = req.normalized()
	if err := s.Validate(req); err != nil {
		return nil, err
	}

	category := req.Category
	v := &Video{
		ID:           uuid.New().String(),
		Title:        req.Title,
		Description:  optional(req.Description),
		VideoURL:     req.VideoURL,
		ThumbnailURL: optional(req.ThumbnailURL),
		Duration:     nil,
		Views:        0,
		Category:     &category,
		CreatedAt:    s.now(),
		Rating:       0,
		UploaderID:   uploaderID,
	}

	if err := s.repo.Create(ctx, v); err != nil {
		return nil, err
	}

	return v, nil
}

func (s *Service) Validate(req CreateVideoRequest) error {
	if err := s.validator.Struct(req.normalized()); err != nil {
		return core.ValidationError(core.FormatValidationError(err))
	}
	return nil
}

func (s *Service) RecordView(ctx context.Context, id string) (*Video, error) {
	return s.repo.IncrementViews(ctx, id)
}

func (s *Service) Rate(
	ctx context.Context,
	id string,
	value float64,
) (*Video, error) {
	err := s.validator.Struct(RateVideoRequest{Rating: value})
	if err != nil || value != math.Trunc(value) {
		return nil, core.ValidationError(fmt.Sprintf(
			"rating must be a whole number between %d and %d",
			MinRating,
			MaxRating,
		))
	}

	return s.repo.Rate(ctx, id, value)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Stats(ctx context.Context) Stats {
	videos := s.repo.List(ctx)

	var stats Stats
	var ratingSum float64
	for _, v := range videos {
		stats.TotalViews += v.Views
		ratingSum += v.Rating
	}

	stats.TotalVideos = len(videos)
	stats.AverageRating = ratingSum / float64(max(len(videos), 1))

	return stats
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
