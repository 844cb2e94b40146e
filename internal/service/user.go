package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/infosort/infosort/internal/model"
	"github.com/infosort/infosort/internal/repository"
)

// User service errors.
var (
	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")
	ErrUserHasItems = errors.New("user has associated information items")
)

// UserService handles the identity lifecycle: registration, lookup, deletion.
type UserService struct {
	repo *repository.Repository
}

// NewUserService creates a new UserService.
func NewUserService(repo *repository.Repository) *UserService {
	return &UserService{repo: repo}
}

// Register creates a user keyed by the external LINE User ID.
// Registration never issues a credential; that is Login's job.
func (s *UserService) Register(ctx context.Context, lineUserID string) (*model.User, error) {
	// Existence pre-check, then insert. Not atomic: a concurrent identical
	// registration can pass the check and lose the insert race, which the
	// primary key then reports as the same conflict.
	if _, err := s.repo.GetUser(ctx, lineUserID); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check user existence: %w", err)
	}

	user := &model.User{
		LineUserID: lineUserID,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Get retrieves a user with their owned information items attached.
func (s *UserService) Get(ctx context.Context, lineUserID string) (*model.User, error) {
	user, err := s.repo.GetUser(ctx, lineUserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	items, err := s.repo.ListItemsByUser(ctx, user.LineUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user items: %w", err)
	}
	user.Items = derefItems(items)

	return user, nil
}

// List retrieves all users, each with their owned information items.
func (s *UserService) List(ctx context.Context) ([]*model.User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	for _, user := range users {
		items, err := s.repo.ListItemsByUser(ctx, user.LineUserID)
		if err != nil {
			return nil, fmt.Errorf("failed to load user items: %w", err)
		}
		user.Items = derefItems(items)
	}

	return users, nil
}

// Delete removes a user, returning the removed record. Deletion is blocked,
// not cascaded, while the user owns any information items.
func (s *UserService) Delete(ctx context.Context, lineUserID string) (*model.User, error) {
	user, err := s.repo.GetUser(ctx, lineUserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	count, err := s.repo.CountItemsByUser(ctx, lineUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to count user items: %w", err)
	}
	if count > 0 {
		return nil, ErrUserHasItems
	}

	if err := s.repo.DeleteUser(ctx, lineUserID); err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, repository.ErrUserHasItems):
			// An item slipped in between the count and the delete.
			return nil, ErrUserHasItems
		}
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}

	return user, nil
}

func derefItems(items []*model.InformationItem) []model.InformationItem {
	if items == nil {
		return nil
	}
	out := make([]model.InformationItem, len(items))
	for i, item := range items {
		out[i] = *item
	}
	return out
}
