package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/cinelist/cinelist-go/internal/model"
)

var ErrShareNotFound = errors.New("shared list not found")

// ShareRepository handles shared list persistence operations.
type ShareRepository struct {
	db *sql.DB
}

// NewShareRepository creates a new ShareRepository.
func NewShareRepository(db *sql.DB) *ShareRepository {
	return &ShareRepository{db: db}
}

// Create stores a new shared list for userID under a fresh random id.
func (r *ShareRepository) Create(ctx context.Context, userID string) (*model.SharedList, error) {
	share := &model.SharedList{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO shared_lists (id, user_id, created_at) VALUES (?, ?, ?)`,
		share.ID, share.UserID, share.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return share, nil
}

// GetByID retrieves a shared list regardless of owner.
func (r *ShareRepository) GetByID(ctx context.Context, id string) (*model.SharedList, error) {
	query := `SELECT id, user_id, created_at FROM shared_lists WHERE id = ?`

	share := &model.SharedList{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&share.ID, &share.UserID, &share.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShareNotFound
		}
		return nil, err
	}

	return share, nil
}

// ListByUser retrieves every shared list owned by userID, newest first.
func (r *ShareRepository) ListByUser(ctx context.Context, userID string) ([]model.SharedList, error) {
	query := `SELECT id, user_id, created_at FROM shared_lists WHERE user_id = ? ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shares []model.SharedList
	for rows.Next() {
		var s model.SharedList
		if err := rows.Scan(&s.ID, &s.UserID, &s.CreatedAt); err != nil {
			return nil, err
		}
		shares = append(shares, s)
	}

	return shares, rows.Err()
}

// Delete removes a shared list if it belongs to userID.
func (r *ShareRepository) Delete(ctx context.Context, userID, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM shared_lists WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrShareNotFound
	}

	return nil
}
