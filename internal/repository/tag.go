package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/infosort/infosort/internal/model"
)

// Common errors for tag repository operations.
var (
	ErrTagNotFound   = errors.New("tag not found")
	ErrTagNameExists = errors.New("tag name already exists")
)

const tagColumns = "id, name, description, user_id, created_at, updated_at"

// CreateTag inserts a new tag into the database.
func (r *Repository) CreateTag(ctx context.Context, tag *model.Tag) error {
	query := `
		INSERT INTO tags (id, name, description, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		tag.ID,
		tag.Name,
		tag.Description,
		tag.UserID,
		tag.CreatedAt,
		tag.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrTagNameExists
		}
		return fmt.Errorf("failed to create tag: %w", err)
	}

	return nil
}

// GetTagByID retrieves a tag by id regardless of owner.
func (r *Repository) GetTagByID(ctx context.Context, id string) (*model.Tag, error) {
	query := `
		SELECT ` + tagColumns + `
		FROM tags
		WHERE id = $1
	`

	tag, err := scanTag(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTagNotFound
		}
		return nil, fmt.Errorf("failed to get tag by ID: %w", err)
	}

	return tag, nil
}

// GetTagByName retrieves a tag by name regardless of owner.
// Tag names form a single global namespace across all users.
func (r *Repository) GetTagByName(ctx context.Context, name string) (*model.Tag, error) {
	query := `
		SELECT ` + tagColumns + `
		FROM tags
		WHERE name = $1
	`

	tag, err := scanTag(r.pool.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTagNotFound
		}
		return nil, fmt.Errorf("failed to get tag by name: %w", err)
	}

	return tag, nil
}

// GetTagForOwner retrieves a tag by id only if owned by the given user.
// A tag owned by someone else reads the same as a missing one.
func (r *Repository) GetTagForOwner(ctx context.Context, id, ownerID string) (*model.Tag, error) {
	query := `
		SELECT ` + tagColumns + `
		FROM tags
		WHERE id = $1 AND user_id = $2
	`

	tag, err := scanTag(r.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTagNotFound
		}
		return nil, fmt.Errorf("failed to get tag for owner: %w", err)
	}

	return tag, nil
}

// ListTagsByOwner retrieves all tags owned by the given user.
func (r *Repository) ListTagsByOwner(ctx context.Context, ownerID string) ([]*model.Tag, error) {
	query := `
		SELECT ` + tagColumns + `
		FROM tags
		WHERE user_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	var tags []*model.Tag
	for rows.Next() {
		tag, err := scanTagFromRows(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, tag)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tags: %w", err)
	}

	return tags, nil
}

// UpdateTag updates a tag's mutable fields, scoped to the owner.
func (r *Repository) UpdateTag(ctx context.Context, tag *model.Tag) error {
	query := `
		UPDATE tags
		SET name = $3, description = $4, updated_at = $5
		WHERE id = $1 AND user_id = $2
	`

	result, err := r.pool.Exec(ctx, query,
		tag.ID,
		tag.UserID,
		tag.Name,
		tag.Description,
		tag.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrTagNameExists
		}
		return fmt.Errorf("failed to update tag: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrTagNotFound
	}

	return nil
}

// DeleteTagForOwner removes a tag, scoped to the owner.
func (r *Repository) DeleteTagForOwner(ctx context.Context, id, ownerID string) error {
	query := `
		DELETE FROM tags
		WHERE id = $1 AND user_id = $2
	`

	result, err := r.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrTagNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTag(row rowScanner) (*model.Tag, error) {
	var tag model.Tag
	err := row.Scan(
		&tag.ID,
		&tag.Name,
		&tag.Description,
		&tag.UserID,
		&tag.CreatedAt,
		&tag.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func scanTagFromRows(rows pgx.Rows) (*model.Tag, error) {
	return scanTag(rows)
}
