// AngelaMos | 2026
// dto.go

package video

import "strings"

type CreateVideoRequest struct {
	Title        string `json:"title"         validate:"required,min=2,max=200"`
	Description  string `json:"description"   validate:"max=5000"`
	Category     string `json:"category"      validate:"required,min=1,max=100"`
	VideoURL     string `json:"video_url"     validate:"required,min=1"`
	ThumbnailURL string `json:"thumbnail_url"`
}

func (r CreateVideoRequest) normalized() CreateVideoRequest {
	return CreateVideoRequest{
		Title:        strings.TrimSpace(r.Title),
		Description:  strings.TrimSpace(r.Description),
		Category:     strings.TrimSpace(r.Category),
		VideoURL:     strings.TrimSpace(r.VideoURL),
		ThumbnailURL: strings.TrimSpace(r.ThumbnailURL),
	}
}

type RateVideoRequest struct {
	Rating float64 `json:"rating" validate:"required,min=1,max=5"`
}

type VideoListResponse struct {
	Videos []Video `json:"videos"`
	Total  int     `json:"total"`
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

type Stats struct {
	TotalVideos   int     `json:"total_videos"`
	TotalViews    int     `json:"total_views"`
	AverageRating float64 `json:"average_rating"`
}

func toListResponse(videos []Video) VideoListResponse {
	if videos == nil {
		videos = []Video{}
	}
	return VideoListResponse{Videos: videos, Total: len(videos)}
}
