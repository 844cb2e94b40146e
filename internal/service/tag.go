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

// Tag service errors.
var (
	ErrTagNotFound  = errors.New("tag not found")
	ErrTagNameTaken = errors.New("tag with this name already exists")
)

// TagService handles tag business logic. Tag names live in one global
// namespace regardless of owner; everything else about a tag is owner-scoped,
// and a foreign tag is indistinguishable from a missing one.
type TagService struct {
	repo *repository.Repository
}

// NewTagService creates a new TagService.
func NewTagService(repo *repository.Repository) *TagService {
	return &TagService{repo: repo}
}

// CreateTagInput defines input for creating a tag.
type CreateTagInput struct {
	Name        string
	Description *string
	OwnerID     string
}

// Create creates a tag owned by the caller. The name must be unused by any
// user. The pre-check and insert are sequential; a concurrent duplicate is
// caught by the unique index and reported as the same conflict.
func (s *TagService) Create(ctx context.Context, input CreateTagInput) (*model.Tag, error) {
	if _, err := s.repo.GetTagByName(ctx, input.Name); err == nil {
		return nil, ErrTagNameTaken
	} else if !errors.Is(err, repository.ErrTagNotFound) {
		return nil, fmt.Errorf("failed to check tag name: %w", err)
	}

	now := time.Now().UTC()
	owner := input.OwnerID
	tag := &model.Tag{
		ID:          ulid.Make().String(),
		Name:        input.Name,
		Description: input.Description,
		UserID:      &owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.CreateTag(ctx, tag); err != nil {
		if errors.Is(err, repository.ErrTagNameExists) {
			return nil, ErrTagNameTaken
		}
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}

	return tag, nil
}

// Get retrieves a tag by id, scoped to the owner.
func (s *TagService) Get(ctx context.Context, id, ownerID string) (*model.Tag, error) {
	tag, err := s.repo.GetTagForOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrTagNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}

	return tag, nil
}

// List retrieves the caller's tags. There is no global listing.
func (s *TagService) List(ctx context.Context, ownerID string) ([]*model.Tag, error) {
	tags, err := s.repo.ListTagsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}

	return tags, nil
}

// UpdateTagInput defines input for updating a tag. Nil fields are unchanged.
type UpdateTagInput struct {
	ID          string
	Name        *string
	Description *string
	OwnerID     string
}

// Update modifies a tag's name and/or description, scoped to the owner.
// A name change colliding with a different tag (any owner) is a conflict.
func (s *TagService) Update(ctx context.Context, input UpdateTagInput) (*model.Tag, error) {
	tag, err := s.repo.GetTagForOwner(ctx, input.ID, input.OwnerID)
	if err != nil {
		if errors.Is(err, repository.ErrTagNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}

	if input.Name != nil && *input.Name != tag.Name {
		existing, err := s.repo.GetTagByName(ctx, *input.Name)
		if err == nil && existing.ID != tag.ID {
			return nil, ErrTagNameTaken
		}
		if err != nil && !errors.Is(err, repository.ErrTagNotFound) {
			return nil, fmt.Errorf("failed to check tag name: %w", err)
		}
		tag.Name = *input.Name
	}
	if input.Description != nil {
		tag.Description = input.Description
	}
	tag.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateTag(ctx, tag); err != nil {
		switch {
		case errors.Is(err, repository.ErrTagNotFound):
			return nil, ErrTagNotFound
		case errors.Is(err, repository.ErrTagNameExists):
			return nil, ErrTagNameTaken
		}
		return nil, fmt.Errorf("failed to update tag: %w", err)
	}

	return tag, nil
}

// Delete removes a tag, scoped to the owner.
func (s *TagService) Delete(ctx context.Context, id, ownerID string) (*model.Tag, error) {
	tag, err := s.repo.GetTagForOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrTagNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}

	if err := s.repo.DeleteTagForOwner(ctx, id, ownerID); err != nil {
		if errors.Is(err, repository.ErrTagNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, fmt.Errorf("failed to delete tag: %w", err)
	}

	return tag, nil
}
