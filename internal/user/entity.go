// AngelaMos | 2026
// entity.go

package user

import (
	"slices"
	"time"
)

// User is stored verbatim in the users document; the JSON names match
// the records already on disk.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	Tokens       int       `json:"tokens"`
	Subscription string    `json:"subscription"`
	WatchHistory []string  `json:"watchHistory"`
}

// Watched moves videoID to the front of the history, dropping any earlier
// occurrence and anything past MaxWatchHistory.
func (u *User) Watched(videoID string) {
	history := slices.DeleteFunc(slices.Clone(u.WatchHistory), func(id string) bool {
		return id == videoID
	})
	history = slices.Insert(history, 0, videoID)
	if len(history) > MaxWatchHistory {
		history = history[:MaxWatchHistory]
	}
	u.WatchHistory = history
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	TierFree    = "free"
	TierPremium = "premium"
	TierPro     = "pro"
)

const (
	StartingTokens  = 100
	MaxWatchHistory = 20
)
