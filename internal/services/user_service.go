package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ymango/ymango/internal/models"
	"github.com/ymango/ymango/internal/repository"
)

// UserService answers account lookups by email.
type UserService struct {
	users repository.UserRepository
}

// NewUserService constructs a UserService.
func NewUserService(users repository.UserRepository) (*UserService, error) {
	if users == nil {
		return nil, errors.New("user service: repository is required")
	}
	return &UserService{users: users}, nil
}

func (s *UserService) bind(repo repository.UserRepository) *UserService {
	return &UserService{users: repo}
}

// FindByEmail returns the account and true, or false when none exists.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, bool, error) {
	ctx = ensureContext(ctx)

	user, err := s.users.FindByEmail(ctx, normaliseEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("user service: find by email: %w", err)
	}
	return &user, true, nil
}

// GetUser is FindByEmail for call sites where absence is an error.
func (s *UserService) GetUser(ctx context.Context, email string) (*models.User, error) {
	user, found, err := s.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrUserNotFound
	}
	return user, nil
}
