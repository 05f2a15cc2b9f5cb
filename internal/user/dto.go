// AngelaMos | 2026
// dto.go

package user

import (
	"time"
)

type AdjustTokensRequest struct {
	Amount int `json:"amount" validate:"required"`
}

type UpdateSubscriptionRequest struct {
	Subscription string `json:"subscription" validate:"required,oneof=free premium pro"`
}

type AddHistoryRequest struct {
	VideoID string `json:"video_id" validate:"required,max=100"`
}

type UserResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	Tokens       int       `json:"tokens"`
	Subscription string    `json:"subscription"`
	WatchHistory []string  `json:"watchHistory"`
}

type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Total int            `json:"total"`
}

func ToUserResponse(u *User) UserResponse {
	history := u.WatchHistory
	if history == nil {
		history = []string{}
	}
	return UserResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		CreatedAt:    u.CreatedAt,
		Tokens:       u.Tokens,
		Subscription: u.Subscription,
		WatchHistory: history,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, ToUserResponse(&u))
	}
	return responses
}
