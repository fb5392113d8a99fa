package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/maeulhub/maeul/internal/models"
	"github.com/maeulhub/maeul/internal/store"
	"github.com/maeulhub/maeul/pkg/telemetry"
)

// Tombstone replaces the content of a soft-deleted comment.
const Tombstone = "[deleted]"

// CreateComment attaches a comment to a post, optionally under a parent
// comment. Depth is capped at post -> comment -> reply: a parent that is
// itself a reply yields ErrDepthExceeded.
func (s *Service) CreateComment(ctx context.Context, authorID, postID int64, content string, parentID *int64) (*models.Comment, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.create_comment")
	defer span.End()

	if strings.TrimSpace(content) == "" {
		return nil, validationf("comment content cannot be empty")
	}

	post, err := s.store.Posts().GetByID(ctx, postID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if post.Status == models.PostStatusDeleted {
		return nil, ErrNotFound
	}

	comment := &models.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Content:  content,
		Status:   models.CommentStatusActive,
	}
	if parentID != nil {
		parent, err := s.store.Comments().GetByID(ctx, *parentID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		if parent.PostID != postID {
			return nil, validationf("parent comment belongs to another post")
		}
		if parent.IsReply() {
			return nil, ErrDepthExceeded
		}
		comment.ParentID = sql.NullInt64{Int64: *parentID, Valid: true}
	}

	if err := s.store.Comments().Create(ctx, comment); err != nil {
		return nil, err
	}

	target := models.Target{Type: models.TargetPost, ID: postID}
	if err := s.store.Counters().Apply(ctx, target, models.CounterDelta{Comments: 1}); err != nil {
		s.logger.Warn("comment count increment failed", zap.Int64("post_id", postID), zap.Error(err))
	}
	s.invalidateStats(ctx, target)
	return comment, nil
}

// UpdateComment edits a comment's content. Author only; tombstoned comments
// are immutable.
func (s *Service) UpdateComment(ctx context.Context, requester Identity, id int64, content string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, validationf("comment content cannot be empty")
	}
	comment, err := s.store.Comments().GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if comment.Status == models.CommentStatusDeleted {
		return nil, ErrNotFound
	}
	if comment.AuthorID != requester.UserID {
		return nil, ErrPermission
	}
	if err := s.store.Comments().UpdateContent(ctx, id, content); err != nil {
		return nil, err
	}
	comment.Content = content
	return comment, nil
}

// DeleteMode names which deletion branch ran.
type DeleteMode string

const (
	DeleteModeHard DeleteMode = "hard"
	DeleteModeSoft DeleteMode = "soft"
)

// DeleteCommentResult reports the outcome of a comment deletion.
type DeleteCommentResult struct {
	Deleted bool       `json:"deleted"`
	Mode    DeleteMode `json:"mode"`
}

// DeleteComment removes a comment under the children-dependent policy:
//
//   - no children: the row is hard-deleted and the post's comment_count
//     decremented; the comment's reaction rows are reaped.
//   - children: the row is kept with tombstoned content and status deleted,
//     so replies stay attached; comment_count is unchanged since the thread
//     slot is still occupied.
//
// Only the author or an admin may delete.
func (s *Service) DeleteComment(ctx context.Context, requester Identity, id int64) (*DeleteCommentResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.delete_comment")
	defer span.End()

	comment, err := s.store.Comments().GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !requester.canModify(comment.AuthorID) {
		return nil, ErrPermission
	}

	children, err := s.store.Comments().CountChildren(ctx, id)
	if err != nil {
		return nil, err
	}

	postTarget := models.Target{Type: models.TargetPost, ID: comment.PostID}
	if children == 0 {
		if err := s.store.Comments().Delete(ctx, id); err != nil {
			return nil, err
		}
		if err := s.store.Counters().Apply(ctx, postTarget, models.CounterDelta{Comments: -1}); err != nil {
			s.logger.Warn("comment count decrement failed", zap.Int64("post_id", comment.PostID), zap.Error(err))
		}
		// Advisory cascade: reaction rows for a hard-deleted comment.
		if err := s.store.Reactions().DeleteByTarget(ctx, models.Target{Type: models.TargetComment, ID: id}); err != nil {
			s.logger.Warn("reaction cleanup failed", zap.Int64("comment_id", id), zap.Error(err))
		}
		s.invalidateStats(ctx, postTarget)
		return &DeleteCommentResult{Deleted: true, Mode: DeleteModeHard}, nil
	}

	if comment.Status != models.CommentStatusDeleted {
		if err := s.store.Comments().Tombstone(ctx, id, Tombstone); err != nil {
			return nil, err
		}
	}
	s.invalidateStats(ctx, postTarget)
	return &DeleteCommentResult{Deleted: true, Mode: DeleteModeSoft}, nil
}

// ListComments returns all comments of a post, oldest first, soft-deleted
// ones included (their tombstones keep the thread shape).
func (s *Service) ListComments(ctx context.Context, postID int64) ([]*models.Comment, error) {
	post, err := s.store.Posts().GetByID(ctx, postID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if post.Status == models.PostStatusDeleted {
		return nil, ErrNotFound
	}
	return s.store.Comments().ListByPost(ctx, postID)
}
