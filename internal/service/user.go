package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/cinelist/cinelist-go/internal/identity"
	"github.com/cinelist/cinelist-go/internal/model"
	"github.com/cinelist/cinelist-go/internal/repository"
)

var ErrUserNotFound = errors.New("user not found")

// UserService provisions and reads users known to the identity provider.
type UserService struct {
	repo UserStore
}

// NewUserService creates a new UserService.
func NewUserService(repo UserStore) *UserService {
	return &UserService{repo: repo}
}

// Resolve returns the user behind a verified identity, creating it the first
// time the identity is seen.
func (s *UserService) Resolve(ctx context.Context, id identity.Identity) (*model.User, error) {
	user, err := s.repo.GetByID(ctx, id.UserID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	user = &model.User{
		ID:    id.UserID,
		Email: id.Email,
		Name:  id.Name,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if !errors.Is(err, repository.ErrDuplicateUser) {
			return nil, err
		}
		// Another request provisioned the same user first.
		return s.repo.GetByID(ctx, id.UserID)
	}

	slog.Info("user provisioned", "user_id", user.ID)
	return user, nil
}

// GetUser retrieves a user by ID and returns safe user data.
func (s *UserService) GetUser(ctx context.Context, userID string) (model.UserResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrUserNotFound
		}
		return model.UserResponse{}, err
	}

	return model.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
	}, nil
}
