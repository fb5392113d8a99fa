package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/maeulhub/maeul/internal/models"
	"github.com/maeulhub/maeul/internal/store"
	"github.com/maeulhub/maeul/pkg/telemetry"
)

// Kind names a reaction toggle.
type Kind string

const (
	KindLike     Kind = "like"
	KindDislike  Kind = "dislike"
	KindBookmark Kind = "bookmark"
)

// ParseKind validates a wire-level kind string.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindLike, KindDislike, KindBookmark:
		return Kind(s), nil
	default:
		return "", validationf("unknown reaction kind %q", s)
	}
}

// maxToggleRetries bounds the optimistic-update loop before ErrConflict
// surfaces to the caller.
const maxToggleRetries = 3

// ReactionView is the caller-facing reaction state.
type ReactionView struct {
	Liked      bool `json:"liked"`
	Disliked   bool `json:"disliked"`
	Bookmarked bool `json:"bookmarked"`
}

// ToggleResult reports the transition a toggle performed.
type ToggleResult struct {
	Action       string          `json:"action"`
	Counters     models.Counters `json:"counters"`
	UserReaction ReactionView    `json:"user_reaction"`
}

// transition computes the next reaction flags, the action name and the
// counter deltas for toggling kind against the current state. Pure: every
// call site decides how to persist the result.
//
// Like and dislike are mutually exclusive; toggling one while the other is
// set clears the other and adjusts both counters. Bookmark flips
// independently.
func transition(cur ReactionView, kind Kind) (next ReactionView, action string, delta models.CounterDelta) {
	next = cur
	switch kind {
	case KindLike:
		if cur.Liked {
			next.Liked = false
			action = "unliked"
			delta.Likes = -1
		} else {
			next.Liked = true
			action = "liked"
			delta.Likes = 1
			if cur.Disliked {
				next.Disliked = false
				delta.Dislikes = -1
			}
		}
	case KindDislike:
		if cur.Disliked {
			next.Disliked = false
			action = "undisliked"
			delta.Dislikes = -1
		} else {
			next.Disliked = true
			action = "disliked"
			delta.Dislikes = 1
			if cur.Liked {
				next.Liked = false
				delta.Likes = -1
			}
		}
	case KindBookmark:
		if cur.Bookmarked {
			next.Bookmarked = false
			action = "unbookmarked"
			delta.Bookmarks = -1
		} else {
			next.Bookmarked = true
			action = "bookmarked"
			delta.Bookmarks = 1
		}
	}
	return next, action, delta
}

// ToggleReaction flips the user's reaction of the given kind on the target
// and applies the matching counter deltas in the same logical operation.
//
// Per (user, target) the operation is linearized: a keyed mutex orders
// same-process callers and a versioned compare-and-set on the reaction row
// orders writers across instances. A lost race re-reads and retries up to
// maxToggleRetries times, then surfaces ErrConflict.
func (s *Service) ToggleReaction(ctx context.Context, userID int64, target models.Target, kind Kind) (*ToggleResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.toggle_reaction",
		telemetry.WithTarget(string(target.Type), target.ID))
	defer span.End()

	if kind == KindBookmark && target.Type != models.TargetPost {
		return nil, validationf("bookmarks apply to posts only")
	}
	if err := s.ensureTargetActive(ctx, target); err != nil {
		return nil, err
	}

	unlock := s.locks.lock(reactionLockKey(userID, target))
	defer unlock()

	for attempt := 0; attempt < maxToggleRetries; attempt++ {
		reaction, err := s.store.Reactions().Get(ctx, userID, target)
		fresh := errors.Is(err, store.ErrNotFound)
		if err != nil && !fresh {
			return nil, err
		}

		var cur ReactionView
		if !fresh {
			cur = ReactionView{Liked: reaction.Liked, Disliked: reaction.Disliked, Bookmarked: reaction.Bookmarked}
		}
		next, action, delta := transition(cur, kind)

		if fresh {
			reaction = &models.Reaction{
				UserID:     userID,
				TargetType: target.Type,
				TargetID:   target.ID,
				Liked:      next.Liked,
				Disliked:   next.Disliked,
				Bookmarked: next.Bookmarked,
			}
			err = s.store.Reactions().Insert(ctx, reaction)
			if errors.Is(err, store.ErrDuplicate) {
				continue
			}
		} else {
			reaction.Liked = next.Liked
			reaction.Disliked = next.Disliked
			reaction.Bookmarked = next.Bookmarked
			err = s.store.Reactions().UpdateCAS(ctx, reaction)
			if errors.Is(err, store.ErrStaleVersion) {
				continue
			}
		}
		if err != nil {
			return nil, err
		}

		if err := s.store.Counters().Apply(ctx, target, delta); err != nil {
			// The reaction row is already written; a dead target here means
			// it was removed mid-toggle, which the reconciliation sweep
			// converges. Surface everything else.
			if !errors.Is(err, store.ErrNotFound) {
				return nil, err
			}
		}
		s.invalidateStats(ctx, target)

		counters, err := s.store.Counters().Get(ctx, target)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}

		telemetry.RecordToggle(ctx, string(target.Type), action)
		s.logger.Debug("reaction toggled",
			zap.Int64("user_id", userID),
			zap.String("target_type", string(target.Type)),
			zap.Int64("target_id", target.ID),
			zap.String("action", action),
		)
		return &ToggleResult{Action: action, Counters: counters, UserReaction: next}, nil
	}

	return nil, ErrConflict
}

// ensureTargetActive verifies the reaction target exists and is not deleted.
func (s *Service) ensureTargetActive(ctx context.Context, target models.Target) error {
	switch target.Type {
	case models.TargetPost:
		post, err := s.store.Posts().GetByID(ctx, target.ID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if post.Status == models.PostStatusDeleted {
			return ErrNotFound
		}
	case models.TargetComment:
		comment, err := s.store.Comments().GetByID(ctx, target.ID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if comment.Status == models.CommentStatusDeleted {
			return ErrNotFound
		}
	default:
		return validationf("unknown target type %q", target.Type)
	}
	return nil
}
