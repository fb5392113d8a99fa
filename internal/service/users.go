package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/maeulhub/maeul/internal/models"
	"github.com/maeulhub/maeul/internal/store"
)

// Register creates a resident account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, name, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationf("user name cannot be empty")
	}
	if len(password) < 8 {
		return nil, validationf("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Name:         name,
		PasswordHash: string(hash),
		Role:         models.RoleResident,
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, validationf("user name %q is taken", name)
		}
		return nil, err
	}
	return user, nil
}

// Authenticate checks name/password and returns the account. Failures are
// indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, name, password string) (*models.User, error) {
	user, err := s.store.Users().GetByName(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetUser returns an account by id.
func (s *Service) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.store.Users().GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	return user, err
}
