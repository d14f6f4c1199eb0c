package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"

	"github.com/cinelist/cinelist-go/internal/model"
)

var ErrEntryNotFound = errors.New("movie entry not found")

const entryColumns = `id, user_id, tmdb_id, title, poster_path, rating,
	is_favorite, is_watch_later, is_watched, added_at`

// insertEntryQuery creates the row with snapshot defaults if it is absent and
// leaves an existing row untouched.
const insertEntryQuery = `
	INSERT INTO movie_entries (id, user_id, tmdb_id, title, poster_path, rating)
	VALUES (?, ?, ?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE id = id`

// EntryRepository handles movie entry persistence operations.
type EntryRepository struct {
	db       *sql.DB
	attempts uint
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(db *sql.DB) *EntryRepository {
	return &EntryRepository{db: db, attempts: 3}
}

// Get retrieves the entry for a user and catalog item.
func (r *EntryRepository) Get(ctx context.Context, userID string, tmdbID int64) (*model.MovieEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM movie_entries WHERE user_id = ? AND tmdb_id = ?`

	entry, err := scanEntry(r.db.QueryRowContext(ctx, query, userID, tmdbID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}

	return entry, nil
}

// Mutate runs fetch-or-create, fn, and persist-or-delete in one transaction.
// The row is locked with SELECT ... FOR UPDATE so concurrent mutations of the
// same key serialize. If fn leaves the entry empty it is deleted and deleted
// is true. Deadlocks are replayed from the start.
func (r *EntryRepository) Mutate(ctx context.Context, userID string, tmdbID int64, defaults model.MovieDefaults, fn func(*model.MovieEntry)) (*model.MovieEntry, bool, error) {
	var (
		entry   *model.MovieEntry
		deleted bool
	)

	err := retry.Do(
		func() error {
			var err error
			entry, deleted, err = r.mutateTx(ctx, userID, tmdbID, defaults, fn)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(r.attempts),
		retry.Delay(20*time.Millisecond),
		retry.RetryIf(isRetryableTxError),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, false, err
	}

	return entry, deleted, nil
}

func (r *EntryRepository) mutateTx(ctx context.Context, userID string, tmdbID int64, defaults model.MovieDefaults, fn func(*model.MovieEntry)) (*model.MovieEntry, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, insertEntryQuery,
		uuid.NewString(), userID, tmdbID, defaults.Title, defaults.PosterPath, defaults.Rating,
	); err != nil {
		return nil, false, err
	}

	query := `SELECT ` + entryColumns + ` FROM movie_entries WHERE user_id = ? AND tmdb_id = ? FOR UPDATE`
	entry, err := scanEntry(tx.QueryRowContext(ctx, query, userID, tmdbID))
	if err != nil {
		return nil, false, err
	}

	fn(entry)

	if entry.Empty() {
		if _, err := tx.ExecContext(ctx, `DELETE FROM movie_entries WHERE id = ?`, entry.ID); err != nil {
			return nil, false, err
		}
		if err := tx.Commit(); err != nil {
			return nil, false, err
		}
		return entry, true, nil
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE movie_entries SET is_favorite = ?, is_watch_later = ?, is_watched = ? WHERE id = ?`,
		entry.Favorite, entry.IsWatchLater(), entry.IsWatched(), entry.ID,
	)
	if err != nil {
		return nil, false, err
	}
	if err := tx.Commit(); err != nil {
		return nil, false, err
	}

	return entry, false, nil
}

// ListActive retrieves every entry of a user with at least one flag set, newest first.
func (r *EntryRepository) ListActive(ctx context.Context, userID string) ([]model.MovieEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM movie_entries
		WHERE user_id = ? AND (is_favorite OR is_watch_later OR is_watched)
		ORDER BY added_at DESC`
	return r.list(ctx, query, userID)
}

// ListByUser retrieves the full entry set of a user, newest first.
func (r *EntryRepository) ListByUser(ctx context.Context, userID string) ([]model.MovieEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM movie_entries WHERE user_id = ? ORDER BY added_at DESC`
	return r.list(ctx, query, userID)
}

func (r *EntryRepository) list(ctx context.Context, query string, args ...any) ([]model.MovieEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.MovieEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}

	return entries, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*model.MovieEntry, error) {
	var (
		e                   model.MovieEntry
		watchLater, watched bool
	)
	if err := row.Scan(
		&e.ID, &e.UserID, &e.TMDBID, &e.Title, &e.PosterPath, &e.Rating,
		&e.Favorite, &watchLater, &watched, &e.AddedAt,
	); err != nil {
		return nil, err
	}
	e.Viewing = model.ViewingFromFlags(watchLater, watched)

	return &e, nil
}
