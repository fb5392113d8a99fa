// Package reconcile converges state left behind by crashes between writes:
// posts stuck with a placeholder slug after the relabel phase failed, and
// denormalized counters that drifted from the reaction rows they summarize.
// Both repairs are idempotent, so running the sweep concurrently with live
// traffic is safe.
package reconcile

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/maeulhub/maeul/internal/models"
	"github.com/maeulhub/maeul/internal/slug"
	"github.com/maeulhub/maeul/internal/store"
	"github.com/maeulhub/maeul/pkg/logging"
	"github.com/maeulhub/maeul/pkg/telemetry"
)

// Sweeper runs the reconciliation passes.
type Sweeper struct {
	store  store.Store
	batch  int
	logger *zap.Logger
}

// NewSweeper creates a sweeper processing at most batchSize rows per pass.
func NewSweeper(st store.Store, batchSize int) *Sweeper {
	return &Sweeper{
		store:  st,
		batch:  batchSize,
		logger: logging.GetLogger().With(zap.String("component", "reconcile")),
	}
}

// RepairSlugs relabels posts still carrying a placeholder slug. Returns the
// number of posts repaired.
func (s *Sweeper) RepairSlugs(ctx context.Context) (int, error) {
	ctx, span := telemetry.StartSpan(ctx, "reconcile.repair_slugs")
	defer span.End()

	posts, err := s.store.Posts().ListBySlugPattern(ctx, slug.PlaceholderPattern(), s.batch)
	if err != nil {
		return 0, err
	}

	repaired := 0
	for _, post := range posts {
		final := slug.Make(post.ID, post.Title)
		if err := s.store.Posts().UpdateSlug(ctx, post.ID, final); err != nil {
			s.logger.Warn("slug repair failed", zap.Int64("post_id", post.ID), zap.Error(err))
			continue
		}
		repaired++
	}
	if repaired > 0 {
		s.logger.Info("placeholder slugs repaired", zap.Int("count", repaired))
	}
	telemetry.RecordSlugRepairs(ctx, repaired)
	return repaired, nil
}

// RecountPost overwrites a post's reaction-derived counters with counts
// taken from the reaction and comment rows.
func (s *Sweeper) RecountPost(ctx context.Context, postID int64) error {
	target := models.Target{Type: models.TargetPost, ID: postID}
	likes, dislikes, bookmarks, err := s.store.Reactions().CountByTarget(ctx, target)
	if err != nil {
		return err
	}
	comments, err := s.store.Comments().CountByPost(ctx, postID)
	if err != nil {
		return err
	}
	return s.store.Counters().Overwrite(ctx, target, models.Counters{
		Likes:     likes,
		Dislikes:  dislikes,
		Bookmarks: bookmarks,
		Comments:  comments,
	})
}

// RecountComment overwrites a comment's like/dislike counters.
func (s *Sweeper) RecountComment(ctx context.Context, commentID int64) error {
	target := models.Target{Type: models.TargetComment, ID: commentID}
	likes, dislikes, _, err := s.store.Reactions().CountByTarget(ctx, target)
	if err != nil {
		return err
	}
	return s.store.Counters().Overwrite(ctx, target, models.Counters{
		Likes:    likes,
		Dislikes: dislikes,
	})
}

// Sweep runs one full pass: slug repair, then counter recounts over the most
// recently touched posts and their comments.
func (s *Sweeper) Sweep(ctx context.Context) error {
	ctx, span := telemetry.StartSpan(ctx, "reconcile.sweep")
	defer span.End()

	if _, err := s.RepairSlugs(ctx); err != nil {
		return err
	}

	ids, err := s.store.Posts().ListRecentIDs(ctx, s.batch)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.RecountPost(ctx, id); err != nil {
			s.logger.Warn("post recount failed", zap.Int64("post_id", id), zap.Error(err))
			continue
		}
		comments, err := s.store.Comments().ListByPost(ctx, id)
		if err != nil {
			s.logger.Warn("comment listing failed", zap.Int64("post_id", id), zap.Error(err))
			continue
		}
		for _, comment := range comments {
			if err := s.RecountComment(ctx, comment.ID); err != nil {
				s.logger.Warn("comment recount failed", zap.Int64("comment_id", comment.ID), zap.Error(err))
			}
		}
	}
	return nil
}

// Run sweeps on the given interval until the context is canceled.
func (s *Sweeper) Run(ctx context.Context, interval time.Duration) {
	s.logger.Info("reconciliation sweep started", zap.Duration("interval", interval))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("reconciliation sweep stopped")
			return
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil && ctx.Err() == nil {
				s.logger.Error("sweep failed", zap.Error(err))
			}
		}
	}
}
