// AngelaMos | 2026
// entity.go

package video

import (
	"strings"
	"time"
)

type Video struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  *string   `json:"description"`
	VideoURL     string    `json:"video_url"`
	ThumbnailURL *string   `json:"thumbnail_url"`
	Duration     *float64  `json:"duration"`
	Views        int       `json:"views"`
	Category     *string   `json:"category"`
	CreatedAt    time.Time `json:"created_at"`
	Rating       float64   `json:"rating"`
	UploaderID   string    `json:"uploaderId,omitempty"`
}

func (v *Video) InCategory(category string) bool {
	if v.Category == nil {
		return false
	}
	return strings.EqualFold(*v.Category, category)
}

func (v *Video) Matches(query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(v.Title), q) {
		return true
	}
	if v.Description != nil &&
		strings.Contains(strings.ToLower(*v.Description), q) {
		return true
	}
	return false
}

// BlendRating folds a new rating into the current one. An unrated video
// takes the value as-is; otherwise the two are averaged.
func BlendRating(current, value float64) float64 {
	if current == 0 {
		return value
	}
	return (current + value) / 2
}

const (
	MinRating = 1
	MaxRating = 5
)
