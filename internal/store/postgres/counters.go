package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/maeulhub/maeul/internal/models"
	"github.com/maeulhub/maeul/internal/store"
)

// CounterStore applies denormalized counter updates to post and comment
// rows. Every delta becomes a single atomic UPDATE with
// GREATEST(col + delta, 0) expressions, so concurrent writers never lose
// increments and counts never go negative.
type CounterStore struct {
	db *gorm.DB
}

func counterModel(target models.Target) (interface{}, error) {
	switch target.Type {
	case models.TargetPost:
		return &models.Post{}, nil
	case models.TargetComment:
		return &models.Comment{}, nil
	default:
		return nil, store.ErrNotFound
	}
}

// Apply adjusts the target's counters by delta in one atomic update.
func (s *CounterStore) Apply(ctx context.Context, target models.Target, delta models.CounterDelta) error {
	if delta.IsZero() {
		return nil
	}
	model, err := counterModel(target)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{}
	add := func(col string, d int64) {
		if d != 0 {
			updates[col] = gorm.Expr("GREATEST("+col+" + ?, 0)", d)
		}
	}
	add("view_count", delta.Views)
	add("like_count", delta.Likes)
	add("dislike_count", delta.Dislikes)
	add("bookmark_count", delta.Bookmarks)
	add("comment_count", delta.Comments)

	// Comments carry only like/dislike counters.
	if target.Type == models.TargetComment {
		delete(updates, "view_count")
		delete(updates, "bookmark_count")
		delete(updates, "comment_count")
		if len(updates) == 0 {
			return nil
		}
	}

	res := s.db.WithContext(ctx).Model(model).
		Where("id = ?", target.ID).
		UpdateColumns(updates)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Get reads the target's counter snapshot.
func (s *CounterStore) Get(ctx context.Context, target models.Target) (models.Counters, error) {
	switch target.Type {
	case models.TargetPost:
		var post models.Post
		if err := s.db.WithContext(ctx).First(&post, target.ID).Error; err != nil {
			return models.Counters{}, translate(err)
		}
		return post.Counters(), nil
	case models.TargetComment:
		var comment models.Comment
		if err := s.db.WithContext(ctx).First(&comment, target.ID).Error; err != nil {
			return models.Counters{}, translate(err)
		}
		return comment.Counters(), nil
	default:
		return models.Counters{}, store.ErrNotFound
	}
}

// Overwrite replaces the reaction-derived counters with recounted values.
// Used by the reconciliation sweep; view counts are left alone since they
// have no backing record set to recount from.
func (s *CounterStore) Overwrite(ctx context.Context, target models.Target, c models.Counters) error {
	model, err := counterModel(target)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{
		"like_count":    c.Likes,
		"dislike_count": c.Dislikes,
	}
	if target.Type == models.TargetPost {
		updates["bookmark_count"] = c.Bookmarks
		updates["comment_count"] = c.Comments
	}

	res := s.db.WithContext(ctx).Model(model).
		Where("id = ?", target.ID).
		UpdateColumns(updates)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
