package service

import (
	"context"

	"github.com/cinelist/cinelist-go/internal/model"
)

// UserStore persists provisioned users.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// EntryStore persists movie entries keyed by (user, tmdb id).
type EntryStore interface {
	Get(ctx context.Context, userID string, tmdbID int64) (*model.MovieEntry, error)
	Mutate(ctx context.Context, userID string, tmdbID int64, defaults model.MovieDefaults, fn func(*model.MovieEntry)) (*model.MovieEntry, bool, error)
	ListActive(ctx context.Context, userID string) ([]model.MovieEntry, error)
	ListByUser(ctx context.Context, userID string) ([]model.MovieEntry, error)
}

// ShareStore persists shared list tokens.
type ShareStore interface {
	Create(ctx context.Context, userID string) (*model.SharedList, error)
	GetByID(ctx context.Context, id string) (*model.SharedList, error)
	ListByUser(ctx context.Context, userID string) ([]model.SharedList, error)
	Delete(ctx context.Context, userID, id string) error
}
