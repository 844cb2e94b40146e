package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/infosort/infosort/internal/model"
)

// Common errors for user repository operations.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
	ErrUserHasItems = errors.New("user has dependent information items")
)

// CreateUser inserts a new user into the database.
func (r *Repository) CreateUser(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (line_user_id, created_at)
		VALUES ($1, $2)
	`

	_, err := r.pool.Exec(ctx, query, user.LineUserID, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrUserExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUser retrieves a user by LINE User ID, without owned items.
func (r *Repository) GetUser(ctx context.Context, lineUserID string) (*model.User, error) {
	query := `
		SELECT line_user_id, created_at
		FROM users
		WHERE line_user_id = $1
	`

	var user model.User
	err := r.pool.QueryRow(ctx, query, lineUserID).Scan(&user.LineUserID, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// ListUsers retrieves all users ordered by creation time.
func (r *Repository) ListUsers(ctx context.Context) ([]*model.User, error) {
	query := `
		SELECT line_user_id, created_at
		FROM users
		ORDER BY created_at, line_user_id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		var user model.User
		if err := rows.Scan(&user.LineUserID, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// DeleteUser removes a user row. The foreign key from information_items is
// RESTRICT, so a delete racing a concurrent item creation still fails here
// even after the service-level dependency check passed.
func (r *Repository) DeleteUser(ctx context.Context, lineUserID string) error {
	query := `
		DELETE FROM users
		WHERE line_user_id = $1
	`

	result, err := r.pool.Exec(ctx, query, lineUserID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrUserHasItems
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}
