package service

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/maeulhub/maeul/internal/models"
	"github.com/maeulhub/maeul/internal/slug"
	"github.com/maeulhub/maeul/internal/store"
	"github.com/maeulhub/maeul/internal/store/inmemory"
)

func TestCreatePostAssignsSlug(t *testing.T) {
	svc, _ := newTestService(t)
	post := seedPost(t, svc, 1, "엘리베이터 점검 안내")

	want := strconv.FormatInt(post.ID, 10) + "-엘리베이터-점검-안내"
	if post.Slug != want {
		t.Errorf("slug = %q, want %q", post.Slug, want)
	}
	if slug.IsPlaceholder(post.Slug) {
		t.Error("returned post still carries a placeholder slug")
	}
}

func TestCreatePostValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		draft PostDraft
	}{
		{"empty title", PostDraft{Title: "   ", Content: "body"}},
		{"empty content", PostDraft{Title: "title", Content: "\n\t"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreatePost(ctx, 1, tt.draft); !errors.Is(err, ErrValidation) {
				t.Errorf("CreatePost() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestResolvePostBySlugAndID(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	post := seedPost(t, svc, 1, "입주민 커뮤니티 오픈")

	got, err := svc.ResolvePost(ctx, post.Slug)
	if err != nil {
		t.Fatalf("resolve by slug error = %v", err)
	}
	if got.ID != post.ID {
		t.Errorf("resolved id = %d, want %d", got.ID, post.ID)
	}

	// A stale slug with the right id segment still resolves.
	stale := strconv.FormatInt(post.ID, 10) + "-old-title"
	got, err = svc.ResolvePost(ctx, stale)
	if err != nil {
		t.Fatalf("resolve by stale slug error = %v", err)
	}
	if got.ID != post.ID {
		t.Errorf("resolved id = %d, want %d", got.ID, post.ID)
	}

	if _, err := svc.ResolvePost(ctx, "999-nothing-here"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown slug error = %v, want ErrNotFound", err)
	}
	if _, err := svc.ResolvePost(ctx, "not-a-slug"); !errors.Is(err, ErrNotFound) {
		t.Errorf("non-numeric slug error = %v, want ErrNotFound", err)
	}
}

func TestGetPostCountsView(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	post := seedPost(t, svc, 1, "조회수 테스트")

	for i := 0; i < 3; i++ {
		if _, err := svc.GetPost(ctx, post.Slug); err != nil {
			t.Fatalf("GetPost() error = %v", err)
		}
	}
	counters, err := st.Counters().Get(ctx, models.Target{Type: models.TargetPost, ID: post.ID})
	if err != nil {
		t.Fatalf("Counters().Get() error = %v", err)
	}
	if counters.Views != 3 {
		t.Errorf("views = %d, want 3", counters.Views)
	}
}

func TestUpdatePostKeepsSlug(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	post := seedPost(t, svc, 1, "원래 제목")
	originalSlug := post.Slug

	author := Identity{UserID: 1, Role: models.RoleResident}
	updated, err := svc.UpdatePost(ctx, author, post.ID, PostDraft{Title: "바뀐 제목", Content: "new body"})
	if err != nil {
		t.Fatalf("UpdatePost() error = %v", err)
	}
	if updated.Title != "바뀐 제목" {
		t.Errorf("title = %q, want updated", updated.Title)
	}

	got, err := svc.ResolvePost(ctx, originalSlug)
	if err != nil {
		t.Fatalf("resolve after edit error = %v", err)
	}
	if got.Slug != originalSlug {
		t.Errorf("slug = %q, want unchanged %q", got.Slug, originalSlug)
	}
}

func TestUpdatePostPermissions(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	post := seedPost(t, svc, 1, "권한 테스트")
	draft := PostDraft{Title: "edited", Content: "edited body"}

	stranger := Identity{UserID: 2, Role: models.RoleResident}
	if _, err := svc.UpdatePost(ctx, stranger, post.ID, draft); !errors.Is(err, ErrPermission) {
		t.Errorf("stranger edit error = %v, want ErrPermission", err)
	}

	admin := Identity{UserID: 2, Role: models.RoleAdmin}
	if _, err := svc.UpdatePost(ctx, admin, post.ID, draft); err != nil {
		t.Errorf("admin edit error = %v", err)
	}
}

func TestDeletePostHidesIt(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	post := seedPost(t, svc, 1, "삭제될 글")

	author := Identity{UserID: 1, Role: models.RoleResident}
	if err := svc.DeletePost(ctx, author, post.ID); err != nil {
		t.Fatalf("DeletePost() error = %v", err)
	}
	if _, err := svc.ResolvePost(ctx, post.Slug); !errors.Is(err, ErrNotFound) {
		t.Errorf("resolve after delete error = %v, want ErrNotFound", err)
	}
	// Deleting again is a no-op, not an error.
	if err := svc.DeletePost(ctx, author, post.ID); err != nil {
		t.Errorf("second DeletePost() error = %v", err)
	}
}

// relabelFailStore fails the slug relabel after the initial insert, the way
// a dropped connection between the two writes would.
type relabelFailStore struct {
	store.Store
}

func (s *relabelFailStore) Posts() store.Posts {
	return relabelFailPosts{s.Store.Posts()}
}

type relabelFailPosts struct {
	store.Posts
}

func (relabelFailPosts) UpdateSlug(context.Context, int64, string) error {
	return errors.New("write tcp: connection reset by peer")
}

func TestCreatePostRelabelFailureKeepsPost(t *testing.T) {
	ctx := context.Background()
	st := inmemory.New()
	svc := New(&relabelFailStore{Store: st}, nil)

	post, err := svc.CreatePost(ctx, 1, PostDraft{Title: "엘리베이터 점검 안내", Content: "본문"})
	if err != nil {
		t.Fatalf("CreatePost() error = %v, want nil", err)
	}
	if post.ID == 0 {
		t.Fatal("created post has no id")
	}
	if !slug.IsPlaceholder(post.Slug) {
		t.Errorf("slug = %q, want a placeholder", post.Slug)
	}

	// The row is persisted and stays resolvable through the id segment
	// until the sweep relabels it.
	got, err := svc.ResolvePost(ctx, strconv.FormatInt(post.ID, 10))
	if err != nil {
		t.Fatalf("ResolvePost() error = %v", err)
	}
	if got.ID != post.ID || !slug.IsPlaceholder(got.Slug) {
		t.Errorf("resolved post = (id %d, slug %q), want id %d with placeholder slug", got.ID, got.Slug, post.ID)
	}
}
