package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/cinelist/cinelist-go/internal/model"
	"github.com/cinelist/cinelist-go/internal/repository"
)

var ErrShareNotFound = errors.New("shared list not found")

// ShareService manages shared list tokens and resolves them to the owner's
// entries.
type ShareService struct {
	shares  ShareStore
	entries EntryStore
}

// NewShareService creates a new ShareService.
func NewShareService(shares ShareStore, entries EntryStore) *ShareService {
	return &ShareService{shares: shares, entries: entries}
}

// Create issues a new shared list for userID.
func (s *ShareService) Create(ctx context.Context, userID string) (model.SharedListResponse, error) {
	share, err := s.shares.Create(ctx, userID)
	if err != nil {
		return model.SharedListResponse{}, err
	}
	return model.NewSharedListResponse(share), nil
}

// List returns the shared lists owned by userID.
func (s *ShareService) List(ctx context.Context, userID string) ([]model.SharedListResponse, error) {
	shares, err := s.shares.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]model.SharedListResponse, len(shares))
	for i := range shares {
		result[i] = model.NewSharedListResponse(&shares[i])
	}
	return result, nil
}

// Get returns one shared list owned by userID. Lists of other users are
// reported as not found.
func (s *ShareService) Get(ctx context.Context, userID, id string) (model.SharedListResponse, error) {
	share, err := s.lookup(ctx, id)
	if err != nil {
		return model.SharedListResponse{}, err
	}
	if share.UserID != userID {
		return model.SharedListResponse{}, ErrShareNotFound
	}
	return model.NewSharedListResponse(share), nil
}

// Update has nothing to change since every field of a shared list is read
// only; it returns the owned list as is.
func (s *ShareService) Update(ctx context.Context, userID, id string) (model.SharedListResponse, error) {
	return s.Get(ctx, userID, id)
}

// Delete revokes a shared list owned by userID.
func (s *ShareService) Delete(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrShareNotFound
	}
	err := s.shares.Delete(ctx, userID, id)
	if errors.Is(err, repository.ErrShareNotFound) {
		return ErrShareNotFound
	}
	return err
}

// Resolve returns every entry of the list owner. No caller identity is
// involved; holding the id is enough.
func (s *ShareService) Resolve(ctx context.Context, id string) ([]model.MovieEntryResponse, error) {
	share, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	entries, err := s.entries.ListByUser(ctx, share.UserID)
	if err != nil {
		return nil, err
	}
	return entriesToResponse(entries), nil
}

func (s *ShareService) lookup(ctx context.Context, id string) (*model.SharedList, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrShareNotFound
	}
	share, err := s.shares.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrShareNotFound) {
			return nil, ErrShareNotFound
		}
		return nil, err
	}
	return share, nil
}
