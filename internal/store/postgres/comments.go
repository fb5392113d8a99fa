package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/maeulhub/maeul/internal/models"
)

// CommentStore provides comment-related database operations
type CommentStore struct {
	db *gorm.DB
}

// Create inserts a new comment row and fills in the assigned id.
func (s *CommentStore) Create(ctx context.Context, comment *models.Comment) error {
	return translate(s.db.WithContext(ctx).Create(comment).Error)
}

// GetByID retrieves a comment by id.
func (s *CommentStore) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

// ListByPost returns all comments of a post, oldest first. Soft-deleted
// comments are included; their tombstoned content keeps the thread shape.
func (s *CommentStore) ListByPost(ctx context.Context, postID int64) ([]*models.Comment, error) {
	var comments []*models.Comment
	if err := s.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("id ASC").
		Find(&comments).Error; err != nil {
		return nil, translate(err)
	}
	return comments, nil
}

// CountByPost counts the comment rows of a post, soft-deleted included.
// Matches the comment_count semantics: hard deletes remove a row and
// decrement, soft deletes keep both.
func (s *CommentStore) CountByPost(ctx context.Context, postID int64) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Comment{}).
		Where("post_id = ?", postID).
		Count(&n).Error; err != nil {
		return 0, translate(err)
	}
	return n, nil
}

// CountChildren counts direct replies of a comment.
func (s *CommentStore) CountChildren(ctx context.Context, id int64) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Comment{}).
		Where("parent_comment_id = ?", id).
		Count(&n).Error; err != nil {
		return 0, translate(err)
	}
	return n, nil
}

// UpdateContent replaces the comment body.
func (s *CommentStore) UpdateContent(ctx context.Context, id int64, content string) error {
	res := s.db.WithContext(ctx).Model(&models.Comment{}).
		Where("id = ?", id).
		Update("content", content)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}

// Tombstone soft-deletes a comment in place.
func (s *CommentStore) Tombstone(ctx context.Context, id int64, content string) error {
	res := s.db.WithContext(ctx).Model(&models.Comment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"content": content,
			"status":  models.CommentStatusDeleted,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}

// Delete hard-deletes a comment row.
func (s *CommentStore) Delete(ctx context.Context, id int64) error {
	return translate(s.db.WithContext(ctx).Delete(&models.Comment{}, id).Error)
}
