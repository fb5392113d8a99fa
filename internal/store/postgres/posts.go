package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/maeulhub/maeul/internal/models"
)

// PostStore provides post-related database operations
type PostStore struct {
	db *gorm.DB
}

// Create inserts a new post row and fills in the assigned id.
func (s *PostStore) Create(ctx context.Context, post *models.Post) error {
	return translate(s.db.WithContext(ctx).Create(post).Error)
}

// GetByID retrieves a post by id.
func (s *PostStore) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

// GetBySlug retrieves a post by its slug.
func (s *PostStore) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&post).Error; err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

// UpdateSlug sets only the slug column.
func (s *PostStore) UpdateSlug(ctx context.Context, id int64, slug string) error {
	res := s.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", id).
		Update("slug", slug)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}

// UpdateContent updates the editable attributes; the slug stays untouched.
func (s *PostStore) UpdateContent(ctx context.Context, post *models.Post) error {
	res := s.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", post.ID).
		Updates(map[string]interface{}{
			"title":    post.Title,
			"content":  post.Content,
			"category": post.Category,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}

// UpdateStatus sets the lifecycle status.
func (s *PostStore) UpdateStatus(ctx context.Context, id int64, status models.PostStatus) error {
	res := s.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}

// ListBySlugPattern returns posts whose slug matches the LIKE pattern.
func (s *PostStore) ListBySlugPattern(ctx context.Context, pattern string, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	if err := s.db.WithContext(ctx).
		Where("slug LIKE ?", pattern).
		Order("id ASC").
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, translate(err)
	}
	return posts, nil
}

// ListRecentIDs returns the ids of the most recently updated posts.
func (s *PostStore) ListRecentIDs(ctx context.Context, limit int) ([]int64, error) {
	var ids []int64
	if err := s.db.WithContext(ctx).Model(&models.Post{}).
		Order("updated_at DESC").
		Limit(limit).
		Pluck("id", &ids).Error; err != nil {
		return nil, translate(err)
	}
	return ids, nil
}
