package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/maeulhub/maeul/internal/models"
	"github.com/maeulhub/maeul/internal/store"
)

// ReactionStore provides reaction-related database operations
type ReactionStore struct {
	db *gorm.DB
}

// Get retrieves one user's reaction toward one target.
func (s *ReactionStore) Get(ctx context.Context, userID int64, target models.Target) (*models.Reaction, error) {
	var reaction models.Reaction
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, target.Type, target.ID).
		First(&reaction).Error; err != nil {
		return nil, translate(err)
	}
	return &reaction, nil
}

// Insert creates the first reaction row for a (user, target) pair. The
// unique index on (user_id, target_type, target_id) turns a concurrent
// double insert into ErrDuplicate, which the coordinator retries as a read.
func (s *ReactionStore) Insert(ctx context.Context, reaction *models.Reaction) error {
	return translate(s.db.WithContext(ctx).Create(reaction).Error)
}

// UpdateCAS overwrites the reaction flags guarded by the version the caller
// read. A missed guard means a concurrent writer already advanced the row.
func (s *ReactionStore) UpdateCAS(ctx context.Context, reaction *models.Reaction) error {
	res := s.db.WithContext(ctx).Model(&models.Reaction{}).
		Where("id = ? AND version = ?", reaction.ID, reaction.Version).
		Updates(map[string]interface{}{
			"liked":      reaction.Liked,
			"disliked":   reaction.Disliked,
			"bookmarked": reaction.Bookmarked,
			"version":    gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrStaleVersion
	}
	reaction.Version++
	return nil
}

// CountByTarget tallies reaction rows for one target.
func (s *ReactionStore) CountByTarget(ctx context.Context, target models.Target) (likes, dislikes, bookmarks int64, err error) {
	type tally struct {
		Likes     int64
		Dislikes  int64
		Bookmarks int64
	}
	var t tally
	err = s.db.WithContext(ctx).Model(&models.Reaction{}).
		Select(
			"COUNT(*) FILTER (WHERE liked) AS likes, "+
				"COUNT(*) FILTER (WHERE disliked) AS dislikes, "+
				"COUNT(*) FILTER (WHERE bookmarked) AS bookmarks").
		Where("target_type = ? AND target_id = ?", target.Type, target.ID).
		Scan(&t).Error
	if err != nil {
		return 0, 0, 0, translate(err)
	}
	return t.Likes, t.Dislikes, t.Bookmarks, nil
}

// DeleteByTarget removes every reaction row for a target.
func (s *ReactionStore) DeleteByTarget(ctx context.Context, target models.Target) error {
	return translate(s.db.WithContext(ctx).
		Where("target_type = ? AND target_id = ?", target.Type, target.ID).
		Delete(&models.Reaction{}).Error)
}
