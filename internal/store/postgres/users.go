package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/maeulhub/maeul/internal/models"
)

// UserStore provides account-related database operations
type UserStore struct {
	db *gorm.DB
}

// Create inserts a new user row.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	return translate(s.db.WithContext(ctx).Create(user).Error)
}

// GetByID retrieves a user by id.
func (s *UserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// GetByName retrieves a user by name.
func (s *UserStore) GetByName(ctx context.Context, name string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}
