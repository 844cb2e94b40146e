// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/infosort/infosort/internal/auth"
	"github.com/infosort/infosort/internal/model"
	"github.com/infosort/infosort/internal/repository"
)

// Auth service errors.
var (
	// ErrInvalidLogin covers both unknown users and any future credential
	// failure: login responses never reveal which part was wrong.
	ErrInvalidLogin = errors.New("invalid LINE User ID or user does not exist")
)

// AuthService validates a caller's external identity and issues credentials.
type AuthService struct {
	repo   *repository.Repository
	issuer *auth.TokenIssuer
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo *repository.Repository, issuer *auth.TokenIssuer) *AuthService {
	return &AuthService{repo: repo, issuer: issuer}
}

// Login verifies that the LINE User ID was previously registered and issues
// a bearer credential for it. This is the only place user existence is
// checked; the request gate trusts the signed token afterwards.
func (s *AuthService) Login(ctx context.Context, lineUserID string) (*model.User, string, error) {
	user, err := s.repo.GetUser(ctx, lineUserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", ErrInvalidLogin
		}
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	token, err := s.issuer.Issue(user.LineUserID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	return user, token, nil
}
