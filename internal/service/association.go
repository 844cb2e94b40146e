package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/infosort/infosort/internal/model"
	"github.com/infosort/infosort/internal/repository"
)

// Association service errors.
var (
	ErrDuplicateAssociation = errors.New("tag is already associated with this item")
	ErrAssociationBadRef    = errors.New("item or tag does not exist")
)

// AssociationService handles item/tag link business logic.
type AssociationService struct {
	repo *repository.Repository
}

// NewAssociationService creates a new AssociationService.
func NewAssociationService(repo *repository.Repository) *AssociationService {
	return &AssociationService{repo: repo}
}

// Link attaches a tag to an item. Duplicate pairs are rejected, not
// deduplicated. The response embeds the linked item and tag.
func (s *AssociationService) Link(ctx context.Context, itemID, tagID string) (*model.ItemTagAssociation, error) {
	assoc := &model.ItemTagAssociation{
		ItemID:    itemID,
		TagID:     tagID,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.CreateAssociation(ctx, assoc); err != nil {
		switch {
		case errors.Is(err, repository.ErrAssociationExists):
			return nil, ErrDuplicateAssociation
		case errors.Is(err, repository.ErrAssociationBadRef):
			return nil, ErrAssociationBadRef
		}
		return nil, fmt.Errorf("failed to create association: %w", err)
	}

	item, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load linked item: %w", err)
	}
	tag, err := s.repo.GetTagByID(ctx, tagID)
	if err != nil {
		return nil, fmt.Errorf("failed to load linked tag: %w", err)
	}
	assoc.Item = item
	assoc.Tag = tag

	return assoc, nil
}

// Unlink detaches a tag from an item. Removing a link that does not exist
// is a no-op, not an error.
func (s *AssociationService) Unlink(ctx context.Context, itemID, tagID string) error {
	if err := s.repo.DeleteAssociation(ctx, itemID, tagID); err != nil {
		return fmt.Errorf("failed to delete association: %w", err)
	}

	return nil
}

// TagsForItem returns all tags attached to the given item.
func (s *AssociationService) TagsForItem(ctx context.Context, itemID string) ([]*model.Tag, error) {
	tags, err := s.repo.GetTagsForItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tags for item: %w", err)
	}

	return tags, nil
}

// ItemsForTag returns all items the given tag is attached to.
func (s *AssociationService) ItemsForTag(ctx context.Context, tagID string) ([]*model.InformationItem, error) {
	items, err := s.repo.GetItemsForTag(ctx, tagID)
	if err != nil {
		return nil, fmt.Errorf("failed to get items for tag: %w", err)
	}

	return items, nil
}
