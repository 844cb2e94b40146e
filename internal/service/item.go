package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/infosort/infosort/internal/model"
	"github.com/infosort/infosort/internal/repository"
)

// Item service errors.
var (
	ErrItemNotFound     = errors.New("information item not found")
	ErrItemOwnerMissing = errors.New("item owner does not exist")
)

// ItemService handles information item business logic.
//
// Items carry an owner but mutation is not owner-scoped: any authenticated
// caller may read, update, or delete any item by id. Only creation requires
// a valid owner. Observed behavior, kept as-is.
type ItemService struct {
	repo *repository.Repository
}

// NewItemService creates a new ItemService.
func NewItemService(repo *repository.Repository) *ItemService {
	return &ItemService{repo: repo}
}

// CreateItemInput defines input for creating an information item.
type CreateItemInput struct {
	UserID          string
	Type            string
	Title           *string
	OriginalContent string
}

// Create creates an information item owned by the given user.
func (s *ItemService) Create(ctx context.Context, input CreateItemInput) (*model.InformationItem, error) {
	now := time.Now().UTC()
	item := &model.InformationItem{
		ID:              ulid.Make().String(),
		UserID:          input.UserID,
		Type:            input.Type,
		Title:           input.Title,
		OriginalContent: input.OriginalContent,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.CreateItem(ctx, item); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrItemOwnerMissing
		}
		return nil, fmt.Errorf("failed to create information item: %w", err)
	}

	return item, nil
}

// Get retrieves an information item by id with its tags attached.
func (s *ItemService) Get(ctx context.Context, id string) (*model.InformationItem, error) {
	item, err := s.repo.GetItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get information item: %w", err)
	}

	return item, nil
}

// List retrieves all items owned by the given user, with tags attached.
func (s *ItemService) List(ctx context.Context, userID string) ([]*model.InformationItem, error) {
	items, err := s.repo.ListItemsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list information items: %w", err)
	}

	return items, nil
}

// ListByType retrieves items of the given type, optionally narrowed to one
// owner, with tags attached.
func (s *ItemService) ListByType(ctx context.Context, itemType string, userID *string) ([]*model.InformationItem, error) {
	items, err := s.repo.ListItemsByType(ctx, itemType, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list information items by type: %w", err)
	}

	return items, nil
}

// UpdateItemInput defines input for updating an item. Nil fields are unchanged.
type UpdateItemInput struct {
	ID              string
	Type            *string
	Title           *string
	OriginalContent *string
}

// Update modifies an item's mutable fields by id.
func (s *ItemService) Update(ctx context.Context, input UpdateItemInput) (*model.InformationItem, error) {
	item, err := s.repo.GetItemByID(ctx, input.ID)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get information item: %w", err)
	}

	if input.Type != nil {
		item.Type = *input.Type
	}
	if input.Title != nil {
		item.Title = input.Title
	}
	if input.OriginalContent != nil {
		item.OriginalContent = *input.OriginalContent
	}
	item.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to update information item: %w", err)
	}

	return item, nil
}

// Delete removes an item by id. Its tag associations cascade away.
func (s *ItemService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteItem(ctx, id); err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return ErrItemNotFound
		}
		return fmt.Errorf("failed to delete information item: %w", err)
	}

	return nil
}
