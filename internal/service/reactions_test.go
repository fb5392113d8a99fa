package service

import (
	"context"
	"errors"
	"testing"

	"github.com/maeulhub/maeul/internal/models"
	"github.com/maeulhub/maeul/internal/store"
	"github.com/maeulhub/maeul/internal/store/inmemory"
)

func TestParseKind(t *testing.T) {
	for _, valid := range []string{"like", "dislike", "bookmark"} {
		if _, err := ParseKind(valid); err != nil {
			t.Errorf("ParseKind(%q) error = %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "LIKE", "upvote", "favorite"} {
		if _, err := ParseKind(invalid); !errors.Is(err, ErrValidation) {
			t.Errorf("ParseKind(%q) error = %v, want ErrValidation", invalid, err)
		}
	}
}

func TestTransition(t *testing.T) {
	tests := []struct {
		name       string
		cur        ReactionView
		kind       Kind
		wantNext   ReactionView
		wantAction string
		wantDelta  models.CounterDelta
	}{
		{
			name:       "like from clean state",
			cur:        ReactionView{},
			kind:       KindLike,
			wantNext:   ReactionView{Liked: true},
			wantAction: "liked",
			wantDelta:  models.CounterDelta{Likes: 1},
		},
		{
			name:       "second like toggles off",
			cur:        ReactionView{Liked: true},
			kind:       KindLike,
			wantNext:   ReactionView{},
			wantAction: "unliked",
			wantDelta:  models.CounterDelta{Likes: -1},
		},
		{
			name:       "like clears an existing dislike",
			cur:        ReactionView{Disliked: true},
			kind:       KindLike,
			wantNext:   ReactionView{Liked: true},
			wantAction: "liked",
			wantDelta:  models.CounterDelta{Likes: 1, Dislikes: -1},
		},
		{
			name:       "dislike clears an existing like",
			cur:        ReactionView{Liked: true},
			kind:       KindDislike,
			wantNext:   ReactionView{Disliked: true},
			wantAction: "disliked",
			wantDelta:  models.CounterDelta{Likes: -1, Dislikes: 1},
		},
		{
			name:       "bookmark leaves like alone",
			cur:        ReactionView{Liked: true},
			kind:       KindBookmark,
			wantNext:   ReactionView{Liked: true, Bookmarked: true},
			wantAction: "bookmarked",
			wantDelta:  models.CounterDelta{Bookmarks: 1},
		},
		{
			name:       "second bookmark toggles off",
			cur:        ReactionView{Bookmarked: true},
			kind:       KindBookmark,
			wantNext:   ReactionView{},
			wantAction: "unbookmarked",
			wantDelta:  models.CounterDelta{Bookmarks: -1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, action, delta := transition(tt.cur, tt.kind)
			if next != tt.wantNext {
				t.Errorf("next = %+v, want %+v", next, tt.wantNext)
			}
			if action != tt.wantAction {
				t.Errorf("action = %q, want %q", action, tt.wantAction)
			}
			if delta != tt.wantDelta {
				t.Errorf("delta = %+v, want %+v", delta, tt.wantDelta)
			}
		})
	}
}

func TestToggleReactionRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	post := seedPost(t, svc, 1, "엘리베이터 점검 안내")
	target := models.Target{Type: models.TargetPost, ID: post.ID}

	result, err := svc.ToggleReaction(ctx, 2, target, KindLike)
	if err != nil {
		t.Fatalf("ToggleReaction() error = %v", err)
	}
	if result.Action != "liked" {
		t.Errorf("action = %q, want liked", result.Action)
	}
	if result.Counters.Likes != 1 {
		t.Errorf("likes = %d, want 1", result.Counters.Likes)
	}
	if !result.UserReaction.Liked {
		t.Error("user reaction should report liked")
	}

	result, err = svc.ToggleReaction(ctx, 2, target, KindLike)
	if err != nil {
		t.Fatalf("second ToggleReaction() error = %v", err)
	}
	if result.Action != "unliked" {
		t.Errorf("action = %q, want unliked", result.Action)
	}
	if result.Counters.Likes != 0 {
		t.Errorf("likes after toggle off = %d, want 0", result.Counters.Likes)
	}
	if result.UserReaction.Liked {
		t.Error("user reaction should be cleared after toggle off")
	}
}

func TestToggleReactionMutualExclusion(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	post := seedPost(t, svc, 1, "주차장 이용 규칙")
	target := models.Target{Type: models.TargetPost, ID: post.ID}

	if _, err := svc.ToggleReaction(ctx, 2, target, KindLike); err != nil {
		t.Fatalf("like error = %v", err)
	}
	result, err := svc.ToggleReaction(ctx, 2, target, KindDislike)
	if err != nil {
		t.Fatalf("dislike error = %v", err)
	}
	if result.UserReaction.Liked {
		t.Error("dislike should have cleared the like")
	}
	if !result.UserReaction.Disliked {
		t.Error("dislike should be set")
	}
	if result.Counters.Likes != 0 || result.Counters.Dislikes != 1 {
		t.Errorf("counters = likes %d dislikes %d, want 0/1", result.Counters.Likes, result.Counters.Dislikes)
	}
}

func TestToggleBookmarkIndependent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	post := seedPost(t, svc, 1, "분리수거 일정")
	target := models.Target{Type: models.TargetPost, ID: post.ID}

	if _, err := svc.ToggleReaction(ctx, 2, target, KindLike); err != nil {
		t.Fatalf("like error = %v", err)
	}
	result, err := svc.ToggleReaction(ctx, 2, target, KindBookmark)
	if err != nil {
		t.Fatalf("bookmark error = %v", err)
	}
	if !result.UserReaction.Liked || !result.UserReaction.Bookmarked {
		t.Errorf("user reaction = %+v, want liked and bookmarked", result.UserReaction)
	}
	if result.Counters.Likes != 1 || result.Counters.Bookmarks != 1 {
		t.Errorf("counters = likes %d bookmarks %d, want 1/1", result.Counters.Likes, result.Counters.Bookmarks)
	}
}

func TestToggleBookmarkOnCommentRejected(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	post := seedPost(t, svc, 1, "공지")
	comment := seedComment(t, svc, 2, post.ID, nil)

	_, err := svc.ToggleReaction(ctx, 2, models.Target{Type: models.TargetComment, ID: comment.ID}, KindBookmark)
	if !errors.Is(err, ErrValidation) {
		t.Errorf("bookmark on comment error = %v, want ErrValidation", err)
	}
}

func TestToggleCommentLike(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	post := seedPost(t, svc, 1, "공지")
	comment := seedComment(t, svc, 2, post.ID, nil)

	result, err := svc.ToggleReaction(ctx, 3, models.Target{Type: models.TargetComment, ID: comment.ID}, KindLike)
	if err != nil {
		t.Fatalf("ToggleReaction() error = %v", err)
	}
	if result.Counters.Likes != 1 {
		t.Errorf("comment likes = %d, want 1", result.Counters.Likes)
	}
}

func TestToggleReactionTargetGone(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.ToggleReaction(ctx, 2, models.Target{Type: models.TargetPost, ID: 404}, KindLike)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("missing target error = %v, want ErrNotFound", err)
	}

	post := seedPost(t, svc, 1, "철거 예정")
	admin := Identity{UserID: 1, Role: models.RoleAdmin}
	if err := svc.DeletePost(ctx, admin, post.ID); err != nil {
		t.Fatalf("DeletePost() error = %v", err)
	}
	_, err = svc.ToggleReaction(ctx, 2, models.Target{Type: models.TargetPost, ID: post.ID}, KindLike)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted target error = %v, want ErrNotFound", err)
	}
}

func TestToggleReactionPerUserState(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	post := seedPost(t, svc, 1, "반상회 안내")
	target := models.Target{Type: models.TargetPost, ID: post.ID}

	for userID := int64(2); userID <= 4; userID++ {
		if _, err := svc.ToggleReaction(ctx, userID, target, KindLike); err != nil {
			t.Fatalf("like by user %d error = %v", userID, err)
		}
	}
	// One user changes their mind; the others are untouched.
	result, err := svc.ToggleReaction(ctx, 3, target, KindLike)
	if err != nil {
		t.Fatalf("unlike error = %v", err)
	}
	if result.Counters.Likes != 2 {
		t.Errorf("likes = %d, want 2", result.Counters.Likes)
	}
}

// contendedStore simulates a toggle that keeps losing the version race:
// every compare-and-set reports that a concurrent writer got there first.
type contendedStore struct {
	store.Store
}

func (s *contendedStore) Reactions() store.Reactions {
	return contendedReactions{s.Store.Reactions()}
}

type contendedReactions struct {
	store.Reactions
}

func (contendedReactions) UpdateCAS(context.Context, *models.Reaction) error {
	return store.ErrStaleVersion
}

func TestToggleReactionRetriesExhausted(t *testing.T) {
	ctx := context.Background()
	st := inmemory.New()
	svc := New(&contendedStore{Store: st}, nil)
	post := seedPost(t, svc, 1, "주차장 이용 규칙")
	target := models.Target{Type: models.TargetPost, ID: post.ID}

	// The first toggle inserts a fresh row; no compare-and-set involved.
	if _, err := svc.ToggleReaction(ctx, 2, target, KindLike); err != nil {
		t.Fatalf("ToggleReaction() error = %v", err)
	}

	// The second must update the existing row. With every compare-and-set
	// losing, the retry budget runs out.
	if _, err := svc.ToggleReaction(ctx, 2, target, KindLike); !errors.Is(err, ErrConflict) {
		t.Fatalf("ToggleReaction() error = %v, want ErrConflict", err)
	}

	// The failed toggle left the counters untouched.
	counters, err := st.Counters().Get(ctx, target)
	if err != nil {
		t.Fatalf("Counters().Get() error = %v", err)
	}
	if counters.Likes != 1 {
		t.Errorf("like_count = %d, want 1", counters.Likes)
	}
}
