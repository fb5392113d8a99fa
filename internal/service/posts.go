package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/maeulhub/maeul/internal/models"
	"github.com/maeulhub/maeul/internal/slug"
	"github.com/maeulhub/maeul/internal/store"
	"github.com/maeulhub/maeul/pkg/telemetry"
)

// PostDraft carries the validated payload of a post creation request.
type PostDraft struct {
	Title    string
	Content  string
	Category string
}

// CreatePost persists the draft and assigns its final slug.
//
// Two-phase write: the slug embeds the primary key, which only exists after
// the first insert, so the row is created with a unique placeholder slug and
// relabeled with a single-field update. If the relabel fails the post stays
// live under its placeholder slug; that is logged, not surfaced, since
// failing the request now would bait the client into a duplicate submit. The
// reconciliation sweep relabels such posts later.
func (s *Service) CreatePost(ctx context.Context, authorID int64, draft PostDraft) (*models.Post, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.create_post")
	defer span.End()

	if strings.TrimSpace(draft.Title) == "" {
		return nil, validationf("post title cannot be empty")
	}
	if strings.TrimSpace(draft.Content) == "" {
		return nil, validationf("post content cannot be empty")
	}

	post := &models.Post{
		Slug:     slug.Placeholder(),
		Title:    draft.Title,
		Content:  draft.Content,
		Category: draft.Category,
		AuthorID: authorID,
		Status:   models.PostStatusActive,
	}
	if err := s.store.Posts().Create(ctx, post); err != nil {
		return nil, err
	}

	final := slug.Make(post.ID, post.Title)
	if err := s.store.Posts().UpdateSlug(ctx, post.ID, final); err != nil {
		s.logger.Warn("slug relabel failed, post keeps placeholder slug until repair",
			zap.Int64("post_id", post.ID),
			zap.Error(err),
		)
		return post, nil
	}
	post.Slug = final
	return post, nil
}

// ResolvePost finds a post by slug or bare id without counting a view.
//
// Dual lookup: the full slug is tried first; otherwise the leading id
// segment (up to the first hyphen) is parsed and looked up directly, so
// stale slugs from before a title edit still resolve.
func (s *Service) ResolvePost(ctx context.Context, slugOrID string) (*models.Post, error) {
	post, err := s.store.Posts().GetBySlug(ctx, slugOrID)
	if errors.Is(err, store.ErrNotFound) {
		id, ok := slug.ExtractID(slugOrID)
		if !ok {
			return nil, ErrNotFound
		}
		post, err = s.store.Posts().GetByID(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
	}
	if err != nil {
		return nil, err
	}
	if post.Status == models.PostStatusDeleted {
		return nil, ErrNotFound
	}
	return post, nil
}

// GetPost resolves a post and counts the view.
func (s *Service) GetPost(ctx context.Context, slugOrID string) (*models.Post, error) {
	post, err := s.ResolvePost(ctx, slugOrID)
	if err != nil {
		return nil, err
	}

	target := models.Target{Type: models.TargetPost, ID: post.ID}
	if err := s.store.Counters().Apply(ctx, target, models.CounterDelta{Views: 1}); err != nil {
		s.logger.Warn("view count increment failed", zap.Int64("post_id", post.ID), zap.Error(err))
	} else {
		post.ViewCount++
	}
	return post, nil
}

// UpdatePost edits title, content and category. The slug is never
// recomputed; clients resolve stale slugs through the id segment.
func (s *Service) UpdatePost(ctx context.Context, requester Identity, id int64, draft PostDraft) (*models.Post, error) {
	post, err := s.store.Posts().GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if post.Status == models.PostStatusDeleted {
		return nil, ErrNotFound
	}
	if !requester.canModify(post.AuthorID) {
		return nil, ErrPermission
	}
	if strings.TrimSpace(draft.Title) == "" {
		return nil, validationf("post title cannot be empty")
	}
	if strings.TrimSpace(draft.Content) == "" {
		return nil, validationf("post content cannot be empty")
	}

	post.Title = draft.Title
	post.Content = draft.Content
	post.Category = draft.Category
	if err := s.store.Posts().UpdateContent(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost soft-deletes a post. Reaction rows are kept; they stop being
// reachable once the post is gone and the sweep may reap them later.
func (s *Service) DeletePost(ctx context.Context, requester Identity, id int64) error {
	post, err := s.store.Posts().GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if !requester.canModify(post.AuthorID) {
		return ErrPermission
	}
	if post.Status == models.PostStatusDeleted {
		return nil
	}
	if err := s.store.Posts().UpdateStatus(ctx, id, models.PostStatusDeleted); err != nil {
		return err
	}
	s.invalidateStats(ctx, models.Target{Type: models.TargetPost, ID: id})
	return nil
}
