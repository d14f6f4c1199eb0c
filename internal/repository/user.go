package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cinelist/cinelist-go/internal/model"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrDuplicateUser  = errors.New("user already exists")
)

// UserRepository handles user persistence operations.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user whose ID was issued by the identity provider.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (id, email, name) VALUES (?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, user.ID, nullString(user.Email), nullString(user.Name))
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateUser
		}
		return err
	}

	return nil
}

// GetByID retrieves a user by their provider-issued ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT id, email, name, created_at FROM users WHERE id = ?`

	user := &model.User{}
	var email, name sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(&user.ID, &email, &name, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.Email = email.String
	user.Name = name.String

	return user, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
