package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/infosort/infosort/internal/model"
)

// Common errors for information item repository operations.
var (
	ErrItemNotFound = errors.New("information item not found")
)

const itemColumns = "id, user_id, type, title, original_content, created_at, updated_at"

// CreateItem inserts a new information item into the database.
func (r *Repository) CreateItem(ctx context.Context, item *model.InformationItem) error {
	query := `
		INSERT INTO information_items (id, user_id, type, title, original_content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		item.ID,
		item.UserID,
		item.Type,
		item.Title,
		item.OriginalContent,
		item.CreatedAt,
		item.UpdatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to create information item: %w", err)
	}

	return nil
}

// GetItemByID retrieves an information item by id, with its tags attached.
func (r *Repository) GetItemByID(ctx context.Context, id string) (*model.InformationItem, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM information_items
		WHERE id = $1
	`

	item, err := scanItem(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get information item: %w", err)
	}

	if err := r.attachTags(ctx, []*model.InformationItem{item}); err != nil {
		return nil, err
	}

	return item, nil
}

// ListItemsByUser retrieves all information items owned by the given user,
// with tags attached.
func (r *Repository) ListItemsByUser(ctx context.Context, userID string) ([]*model.InformationItem, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM information_items
		WHERE user_id = $1
		ORDER BY created_at, id
	`

	return r.queryItems(ctx, query, userID)
}

// ListItemsByType retrieves information items of the given type,
// optionally narrowed to one owner, with tags attached.
func (r *Repository) ListItemsByType(ctx context.Context, itemType string, userID *string) ([]*model.InformationItem, error) {
	if userID != nil {
		query := `
			SELECT ` + itemColumns + `
			FROM information_items
			WHERE type = $1 AND user_id = $2
			ORDER BY created_at, id
		`
		return r.queryItems(ctx, query, itemType, *userID)
	}

	query := `
		SELECT ` + itemColumns + `
		FROM information_items
		WHERE type = $1
		ORDER BY created_at, id
	`
	return r.queryItems(ctx, query, itemType)
}

// UpdateItem updates an item's mutable fields. No owner scoping: any
// authenticated caller may update any item by id.
func (r *Repository) UpdateItem(ctx context.Context, item *model.InformationItem) error {
	query := `
		UPDATE information_items
		SET type = $2, title = $3, original_content = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		item.ID,
		item.Type,
		item.Title,
		item.OriginalContent,
		item.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update information item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrItemNotFound
	}

	return nil
}

// DeleteItem removes an information item. Associations cascade.
func (r *Repository) DeleteItem(ctx context.Context, id string) error {
	query := `
		DELETE FROM information_items
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete information item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrItemNotFound
	}

	return nil
}

// CountItemsByUser returns the number of items owned by the given user.
func (r *Repository) CountItemsByUser(ctx context.Context, userID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM information_items
		WHERE user_id = $1
	`

	var count int
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count information items: %w", err)
	}

	return count, nil
}

// queryItems runs an item select and attaches tags to the result set.
func (r *Repository) queryItems(ctx context.Context, query string, args ...any) ([]*model.InformationItem, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list information items: %w", err)
	}
	defer rows.Close()

	var items []*model.InformationItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan information item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating information items: %w", err)
	}

	if err := r.attachTags(ctx, items); err != nil {
		return nil, err
	}

	return items, nil
}

// attachTags loads the tags associated with each item in one query.
func (r *Repository) attachTags(ctx context.Context, items []*model.InformationItem) error {
	if len(items) == 0 {
		return nil
	}

	ids := make([]string, len(items))
	byID := make(map[string]*model.InformationItem, len(items))
	for i, item := range items {
		ids[i] = item.ID
		byID[item.ID] = item
	}

	query := `
		SELECT a.item_id, t.id, t.name, t.description, t.user_id, t.created_at, t.updated_at
		FROM item_tag_associations a
		JOIN tags t ON t.id = a.tag_id
		WHERE a.item_id = ANY($1)
		ORDER BY a.created_at, t.id
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to load item tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var itemID string
		var tag model.Tag
		err := rows.Scan(
			&itemID,
			&tag.ID,
			&tag.Name,
			&tag.Description,
			&tag.UserID,
			&tag.CreatedAt,
			&tag.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to scan item tag: %w", err)
		}
		if item, ok := byID[itemID]; ok {
			item.Tags = append(item.Tags, tag)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating item tags: %w", err)
	}

	return nil
}

func scanItem(row rowScanner) (*model.InformationItem, error) {
	var item model.InformationItem
	err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.Type,
		&item.Title,
		&item.OriginalContent,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}
