// AngelaMos | 2026
// repository.go

package video

import (
	"context"
	"fmt"
	"slices"

	"github.com/sayan1112/v0-adult-video-website/internal/core"
)

const Document = "videos"

type Repository interface {
	List(ctx context.Context) []Video
	GetByID(ctx context.Context, id string) (*Video, error)
	GetByCategory(ctx context.Context, category, excludeID string) []Video
	ListByUploader(ctx context.Context, userID string) []Video
	Create(ctx context.Context, video *Video) error
	IncrementViews(ctx context.Context, id string) (*Video, error)
	Rate(ctx context.Context, id string, value float64) (*Video, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	videos *core.Collection[Video]
}

func NewRepository(store core.DocumentStore) Repository {
	return &repository{videos: core.NewCollection[Video](store, Document)}
}

func (r *repository) List(ctx context.Context) []Video {
	return r.videos.All(ctx)
}

func (r *repository) GetByID(ctx context.Context, id string) (*Video, error) {
	for _, v := range r.videos.All(ctx) {
		if v.ID == id {
			return &v, nil
		}
	}
	return nil, fmt.Errorf("get video: %w", core.ErrNotFound)
}

func (r *repository) GetByCategory(
	ctx context.Context,
	category, excludeID string,
) []Video {
	matches := make([]Video, 0)
	for _, v := range r.videos.All(ctx) {
		if !v.InCategory(category) {
			continue
		}
		if excludeID != "" && v.ID == excludeID {
			continue
		}
		matches = append(matches, v)
	}
	return matches
}

func (r *repository) ListByUploader(ctx context.Context, userID string) []Video {
	matches := make([]Video, 0)
	for _, v := range r.videos.All(ctx) {
		if v.UploaderID == userID {
			matches = append(matches, v)
		}
	}
	return matches
}

// Create prepends, so storage order stays newest first.
func (r *repository) Create(ctx context.Context, video *Video) error {
	err := r.videos.Update(ctx, func(videos []Video) ([]Video, error) {
		return slices.Insert(videos, 0, *video), nil
	})
	if err != nil {
		return fmt.Errorf("create video: %w", err)
	}
	return nil
}

func (r *repository) IncrementViews(
	ctx context.Context,
	id string,
) (*Video, error) {
	return r.mutate(ctx, "increment views", id, func(v *Video) {
		v.Views++
	})
}

func (r *repository) Rate(
	ctx context.Context,
	id string,
	value float64,
) (*Video, error) {
	return r.mutate(ctx, "rate video", id, func(v *Video) {
		v.Rating = BlendRating(v.Rating, value)
	})
}

func (r *repository) Delete(ctx context.Context, id string) error {
	var found bool
	err := r.videos.Update(ctx, func(videos []Video) ([]Video, error) {
		idx := slices.IndexFunc(videos, func(v Video) bool { return v.ID == id })
		if idx < 0 {
			return nil, core.ErrNoChange
		}
		found = true
		return slices.Delete(videos, idx, idx+1), nil
	})
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	if !found {
		return fmt.Errorf("delete video: %w", core.ErrNotFound)
	}
	return nil
}

// mutate applies fn to the matching video. A missing id writes nothing and
// reports ErrNotFound.
func (r *repository) mutate(
	ctx context.Context,
	op, id string,
	fn func(v *Video),
) (*Video, error) {
	var updated *Video
	err := r.videos.Update(ctx, func(videos []Video) ([]Video, error) {
		for i := range videos {
			if videos[i].ID == id {
				fn(&videos[i])
				v := videos[i]
				updated = &v
				return videos, nil
			}
		}
		return nil, core.ErrNoChange
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if updated == nil {
		return nil, fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	return updated, nil
}
