package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/infosort/infosort/internal/model"
)

// Common errors for association repository operations.
var (
	ErrAssociationExists = errors.New("association already exists")
	ErrAssociationBadRef = errors.New("association references a missing item or tag")
)

// CreateAssociation inserts an item/tag link. The composite primary key
// rejects duplicate pairs.
func (r *Repository) CreateAssociation(ctx context.Context, assoc *model.ItemTagAssociation) error {
	query := `
		INSERT INTO item_tag_associations (item_id, tag_id, created_at)
		VALUES ($1, $2, $3)
	`

	_, err := r.pool.Exec(ctx, query, assoc.ItemID, assoc.TagID, assoc.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAssociationExists
		}
		if isForeignKeyViolation(err) {
			return ErrAssociationBadRef
		}
		return fmt.Errorf("failed to create association: %w", err)
	}

	return nil
}

// DeleteAssociation removes zero or one matching link.
// Absence of a match is not an error.
func (r *Repository) DeleteAssociation(ctx context.Context, itemID, tagID string) error {
	query := `
		DELETE FROM item_tag_associations
		WHERE item_id = $1 AND tag_id = $2
	`

	if _, err := r.pool.Exec(ctx, query, itemID, tagID); err != nil {
		return fmt.Errorf("failed to delete association: %w", err)
	}

	return nil
}

// GetTagsForItem retrieves all tags linked to the given item.
func (r *Repository) GetTagsForItem(ctx context.Context, itemID string) ([]*model.Tag, error) {
	query := `
		SELECT t.id, t.name, t.description, t.user_id, t.created_at, t.updated_at
		FROM item_tag_associations a
		JOIN tags t ON t.id = a.tag_id
		WHERE a.item_id = $1
		ORDER BY a.created_at, t.id
	`

	rows, err := r.pool.Query(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tags for item: %w", err)
	}
	defer rows.Close()

	var tags []*model.Tag
	for rows.Next() {
		tag, err := scanTag(rows)
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

// GetItemsForTag retrieves all items linked to the given tag.
func (r *Repository) GetItemsForTag(ctx context.Context, tagID string) ([]*model.InformationItem, error) {
	query := `
		SELECT i.id, i.user_id, i.type, i.title, i.original_content, i.created_at, i.updated_at
		FROM item_tag_associations a
		JOIN information_items i ON i.id = a.item_id
		WHERE a.tag_id = $1
		ORDER BY a.created_at, i.id
	`

	rows, err := r.pool.Query(ctx, query, tagID)
	if err != nil {
		return nil, fmt.Errorf("failed to get items for tag: %w", err)
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

	return items, nil
}
