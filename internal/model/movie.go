package model

import (
	"encoding/json"
	"time"
)

// ListType names one of the three status lists a movie can be tagged with.
type ListType string

const (
	ListFavorite   ListType = "is_favorite"
	ListWatchLater ListType = "is_watch_later"
	ListWatched    ListType = "is_watched"
)

// Valid reports whether l is one of the known list types.
func (l ListType) Valid() bool {
	switch l {
	case ListFavorite, ListWatchLater, ListWatched:
		return true
	}
	return false
}

// ViewingState is the exclusive half of a movie's status: a movie is either
// queued to watch, already watched, or neither.
type ViewingState int

const (
	NotQueued ViewingState = iota
	WatchLater
	Watched
)

// ViewingFromFlags converts the stored boolean pair into a ViewingState.
// Watched wins if both flags are somehow set.
func ViewingFromFlags(watchLater, watched bool) ViewingState {
	switch {
	case watched:
		return Watched
	case watchLater:
		return WatchLater
	default:
		return NotQueued
	}
}

// MovieEntry is one user's relationship to one catalog item.
type MovieEntry struct {
	ID         string
	UserID     string
	TMDBID     int64
	Title      string
	PosterPath string
	Rating     float64
	Favorite   bool
	Viewing    ViewingState
	AddedAt    time.Time
}

// IsWatchLater reports whether the entry is queued.
func (e *MovieEntry) IsWatchLater() bool { return e.Viewing == WatchLater }

// IsWatched reports whether the entry is marked as seen.
func (e *MovieEntry) IsWatched() bool { return e.Viewing == Watched }

// Apply writes value into the given list. Setting watch-later or watched to
// true clears the other one; favorite never touches the viewing state.
func (e *MovieEntry) Apply(list ListType, value bool) {
	switch list {
	case ListFavorite:
		e.Favorite = value
	case ListWatchLater:
		if value {
			e.Viewing = WatchLater
		} else if e.Viewing == WatchLater {
			e.Viewing = NotQueued
		}
	case ListWatched:
		if value {
			e.Viewing = Watched
		} else if e.Viewing == Watched {
			e.Viewing = NotQueued
		}
	}
}

// Empty reports whether no flag is set. Empty entries must not be stored.
func (e *MovieEntry) Empty() bool {
	return !e.Favorite && e.Viewing == NotQueued
}

// MovieSnapshot carries the display fields the client knows about a movie.
// They are only used when the entry is created.
type MovieSnapshot struct {
	Title      *string  `json:"title"`
	PosterPath *string  `json:"poster_path"`
	Rating     *float64 `json:"rating"`
}

// MovieDefaults holds the denormalized fields written on entry creation.
type MovieDefaults struct {
	Title      string
	PosterPath string
	Rating     float64
}

// DefaultTitle is stored when the snapshot has no title.
const DefaultTitle = "N/A"

// Defaults resolves the snapshot into concrete creation values.
func (s *MovieSnapshot) Defaults() MovieDefaults {
	d := MovieDefaults{Title: DefaultTitle}
	if s == nil {
		return d
	}
	if s.Title != nil {
		d.Title = *s.Title
	}
	if s.PosterPath != nil {
		d.PosterPath = *s.PosterPath
	}
	if s.Rating != nil {
		d.Rating = *s.Rating
	}
	return d
}

// SetStatusRequest is the body of POST /api/movie-status/.
// Status is a pointer so a missing value can be told apart from false.
type SetStatusRequest struct {
	TMDBID    json.Number    `json:"tmdb_id"`
	ListType  ListType       `json:"list_type"`
	Status    *bool          `json:"status"`
	MovieData *MovieSnapshot `json:"movie_data"`
}

// MovieEntryResponse is the API representation of a MovieEntry.
type MovieEntryResponse struct {
	ID           string    `json:"id"`
	User         string    `json:"user"`
	TMDBID       int64     `json:"tmdb_id"`
	Title        string    `json:"title"`
	PosterPath   string    `json:"poster_path"`
	Rating       float64   `json:"rating"`
	IsFavorite   bool      `json:"is_favorite"`
	IsWatchLater bool      `json:"is_watch_later"`
	IsWatched    bool      `json:"is_watched"`
	AddedAt      time.Time `json:"added_at"`
}

// NewMovieEntryResponse converts an entry for the API.
func NewMovieEntryResponse(e *MovieEntry) MovieEntryResponse {
	return MovieEntryResponse{
		ID:           e.ID,
		User:         e.UserID,
		TMDBID:       e.TMDBID,
		Title:        e.Title,
		PosterPath:   e.PosterPath,
		Rating:       e.Rating,
		IsFavorite:   e.Favorite,
		IsWatchLater: e.IsWatchLater(),
		IsWatched:    e.IsWatched(),
		AddedAt:      e.AddedAt,
	}
}

// StatusDeleted is reported when a status change removed the entry.
const StatusDeleted = "deleted"

// EntryDeletedResponse is returned when a status change leaves no flag set.
type EntryDeletedResponse struct {
	TMDBID int64  `json:"tmdb_id"`
	Status string `json:"status"`
}

// StatusResult is the outcome of a status change: either the updated entry
// or a deletion marker.
type StatusResult struct {
	TMDBID  int64
	Deleted bool
	Entry   *MovieEntryResponse
}
