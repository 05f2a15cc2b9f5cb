// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"fmt"
	"slices"

	"github.com/sayan1112/v0-adult-video-website/internal/core"
)

const Document = "users"

type Repository interface {
	List(ctx context.Context) []User
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, user *User) error
	AddToWatchHistory(ctx context.Context, id, videoID string) (*User, error)
	UpdateTokens(ctx context.Context, id string, delta int) (*User, error)
	UpdateSubscription(ctx context.Context, id, tier string) (*User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

type repository struct {
	users *core.Collection[User]
}

func NewRepository(store core.DocumentStore) Repository {
	return &repository{users: core.NewCollection[User](store, Document)}
}

func (r *repository) List(ctx context.Context) []User {
	return r.users.All(ctx)
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	for _, u := range r.users.All(ctx) {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	for _, u := range r.users.All(ctx) {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
}

// Create appends the user. The email check runs under the collection lock
// so two concurrent registrations cannot both succeed.
func (r *repository) Create(ctx context.Context, user *User) error {
	err := r.users.Update(ctx, func(users []User) ([]User, error) {
		if slices.ContainsFunc(users, func(u User) bool {
			return u.Email == user.Email
		}) {
			return nil, core.ErrDuplicateKey
		}
		return append(users, *user), nil
	})
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *repository) AddToWatchHistory(
	ctx context.Context,
	id, videoID string,
) (*User, error) {
	return r.mutate(ctx, "add to watch history", id, func(u *User) {
		u.Watched(videoID)
	})
}

func (r *repository) UpdateTokens(
	ctx context.Context,
	id string,
	delta int,
) (*User, error) {
	return r.mutate(ctx, "update tokens", id, func(u *User) {
		u.Tokens += delta
	})
}

func (r *repository) UpdateSubscription(
	ctx context.Context,
	id, tier string,
) (*User, error) {
	return r.mutate(ctx, "update subscription", id, func(u *User) {
		u.Subscription = tier
	})
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	_, err := r.mutate(ctx, "update password", id, func(u *User) {
		u.PasswordHash = passwordHash
	})
	return err
}

func (r *repository) mutate(
	ctx context.Context,
	op, id string,
	fn func(u *User),
) (*User, error) {
	var updated *User
	err := r.users.Update(ctx, func(users []User) ([]User, error) {
		for i := range users {
			if users[i].ID == id {
				fn(&users[i])
				u := users[i]
				updated = &u
				return users, nil
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
