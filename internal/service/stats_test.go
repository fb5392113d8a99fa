package service

import (
	"context"
	"errors"
	"testing"

	"github.com/maeulhub/maeul/internal/models"
)

func TestGetStatsAnonymous(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	post := seedPost(t, svc, 1, "통계 테스트")
	target := models.Target{Type: models.TargetPost, ID: post.ID}

	if _, err := svc.ToggleReaction(ctx, 2, target, KindLike); err != nil {
		t.Fatalf("ToggleReaction() error = %v", err)
	}
	seedComment(t, svc, 3, post.ID, nil)

	result, err := svc.GetStats(ctx, target, nil)
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if result.Counters.Likes != 1 || result.Counters.Comments != 1 {
		t.Errorf("counters = %+v, want likes 1 comments 1", result.Counters)
	}
	if result.UserReaction != nil {
		t.Error("anonymous stats should carry no user reaction")
	}
}

func TestGetStatsWithViewer(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	post := seedPost(t, svc, 1, "통계 테스트")
	target := models.Target{Type: models.TargetPost, ID: post.ID}

	if _, err := svc.ToggleReaction(ctx, 2, target, KindBookmark); err != nil {
		t.Fatalf("ToggleReaction() error = %v", err)
	}

	viewer := int64(2)
	result, err := svc.GetStats(ctx, target, &viewer)
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if result.UserReaction == nil || !result.UserReaction.Bookmarked {
		t.Errorf("viewer reaction = %+v, want bookmarked", result.UserReaction)
	}

	// A viewer who never reacted gets the zero view, not nil.
	other := int64(9)
	result, err = svc.GetStats(ctx, target, &other)
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if result.UserReaction == nil {
		t.Fatal("authenticated viewer should get a reaction view")
	}
	if *result.UserReaction != (ReactionView{}) {
		t.Errorf("reaction view = %+v, want zero", *result.UserReaction)
	}
}

func TestGetStatsUnknownTarget(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.GetStats(context.Background(), models.Target{Type: models.TargetPost, ID: 404}, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetStats() error = %v, want ErrNotFound", err)
	}
}
