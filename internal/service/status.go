package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/cinelist/cinelist-go/internal/lock"
	"github.com/cinelist/cinelist-go/internal/model"
	"github.com/cinelist/cinelist-go/internal/repository"
)

var (
	ErrTMDBIDRequired  = errors.New("tmdb_id is required")
	ErrInvalidTMDBID   = errors.New("tmdb_id must be a positive integer")
	ErrInvalidListType = errors.New("list_type must be one of is_favorite, is_watch_later, is_watched")
	ErrStatusRequired  = errors.New("status is required")
	ErrEntryNotFound   = errors.New("movie entry not found")
)

// StatusService applies status changes to movie entries.
type StatusService struct {
	store  EntryStore
	locker lock.Locker
}

// NewStatusService creates a new StatusService.
func NewStatusService(store EntryStore, locker lock.Locker) *StatusService {
	return &StatusService{store: store, locker: locker}
}

// SetStatus writes one list flag of the caller's entry for a catalog item.
// The entry is created on first use and deleted once every flag is false.
func (s *StatusService) SetStatus(ctx context.Context, userID string, req model.SetStatusRequest) (model.StatusResult, error) {
	tmdbID, err := parseTMDBID(string(req.TMDBID))
	if err != nil {
		return model.StatusResult{}, err
	}
	if !req.ListType.Valid() {
		return model.StatusResult{}, ErrInvalidListType
	}
	if req.Status == nil {
		return model.StatusResult{}, ErrStatusRequired
	}
	value := *req.Status

	unlock, err := s.locker.Lock(ctx, entryLockKey(userID, tmdbID))
	if err != nil {
		return model.StatusResult{}, err
	}
	defer unlock()

	entry, deleted, err := s.store.Mutate(ctx, userID, tmdbID, req.MovieData.Defaults(), func(e *model.MovieEntry) {
		e.Apply(req.ListType, value)
	})
	if err != nil {
		return model.StatusResult{}, err
	}

	slog.Debug("movie status changed",
		"user_id", userID,
		"tmdb_id", tmdbID,
		"list_type", req.ListType,
		"status", value,
		"deleted", deleted,
	)

	if deleted {
		return model.StatusResult{TMDBID: tmdbID, Deleted: true}, nil
	}
	resp := model.NewMovieEntryResponse(entry)
	return model.StatusResult{TMDBID: tmdbID, Entry: &resp}, nil
}

// ListEntries returns the caller's entries with at least one flag set.
func (s *StatusService) ListEntries(ctx context.Context, userID string) ([]model.MovieEntryResponse, error) {
	entries, err := s.store.ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	return entriesToResponse(entries), nil
}

// GetEntry returns the caller's entry for one catalog item.
func (s *StatusService) GetEntry(ctx context.Context, userID, tmdbID string) (model.MovieEntryResponse, error) {
	id, err := parseTMDBID(tmdbID)
	if err != nil {
		return model.MovieEntryResponse{}, err
	}

	entry, err := s.store.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return model.MovieEntryResponse{}, ErrEntryNotFound
		}
		return model.MovieEntryResponse{}, err
	}

	return model.NewMovieEntryResponse(entry), nil
}

func parseTMDBID(raw string) (int64, error) {
	if raw == "" {
		return 0, ErrTMDBIDRequired
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidTMDBID
	}
	return id, nil
}

func entryLockKey(userID string, tmdbID int64) string {
	return "entry:" + userID + ":" + strconv.FormatInt(tmdbID, 10)
}

// entriesToResponse converts entries, returning an empty slice instead of nil.
func entriesToResponse(entries []model.MovieEntry) []model.MovieEntryResponse {
	result := make([]model.MovieEntryResponse, len(entries))
	for i := range entries {
		result[i] = model.NewMovieEntryResponse(&entries[i])
	}
	return result
}
