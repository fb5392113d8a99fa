package inmemory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maeulhub/maeul/internal/models"
	"github.com/maeulhub/maeul/internal/store"
)

func TestPostSlugUniqueness(t *testing.T) {
	s := New()
	ctx := context.Background()

	first := &models.Post{Slug: "1-first", Title: "first", Content: "body"}
	require.NoError(t, s.Posts().Create(ctx, first))

	dup := &models.Post{Slug: "1-first", Title: "dup", Content: "body"}
	err := s.Posts().Create(ctx, dup)
	assert.ErrorIs(t, err, store.ErrDuplicate)
}

func TestReactionInsertDuplicate(t *testing.T) {
	s := New()
	ctx := context.Background()

	r := &models.Reaction{UserID: 1, TargetType: models.TargetPost, TargetID: 5, Liked: true}
	require.NoError(t, s.Reactions().Insert(ctx, r))

	again := &models.Reaction{UserID: 1, TargetType: models.TargetPost, TargetID: 5, Disliked: true}
	err := s.Reactions().Insert(ctx, again)
	assert.ErrorIs(t, err, store.ErrDuplicate)

	// Same user, different target is a distinct row.
	other := &models.Reaction{UserID: 1, TargetType: models.TargetComment, TargetID: 5, Liked: true}
	assert.NoError(t, s.Reactions().Insert(ctx, other))
}

func TestReactionUpdateCAS(t *testing.T) {
	s := New()
	ctx := context.Background()

	r := &models.Reaction{UserID: 1, TargetType: models.TargetPost, TargetID: 5, Liked: true}
	require.NoError(t, s.Reactions().Insert(ctx, r))

	// Two readers pick up the same version.
	a, err := s.Reactions().Get(ctx, 1, models.Target{Type: models.TargetPost, ID: 5})
	require.NoError(t, err)
	b, err := s.Reactions().Get(ctx, 1, models.Target{Type: models.TargetPost, ID: 5})
	require.NoError(t, err)

	a.Liked = false
	require.NoError(t, s.Reactions().UpdateCAS(ctx, a))
	assert.Equal(t, int64(1), a.Version, "winner's version should be bumped")

	// The loser's write is guarded by the version it read.
	b.Disliked = true
	err = s.Reactions().UpdateCAS(ctx, b)
	assert.ErrorIs(t, err, store.ErrStaleVersion)

	got, err := s.Reactions().Get(ctx, 1, models.Target{Type: models.TargetPost, ID: 5})
	require.NoError(t, err)
	assert.False(t, got.Liked)
	assert.False(t, got.Disliked, "stale write must not land")
}

func TestCounterApplyClampsAtZero(t *testing.T) {
	s := New()
	ctx := context.Background()

	post := &models.Post{Slug: "1-p", Title: "p", Content: "body"}
	require.NoError(t, s.Posts().Create(ctx, post))

	target := models.Target{Type: models.TargetPost, ID: post.ID}
	require.NoError(t, s.Counters().Apply(ctx, target, models.CounterDelta{Likes: -5}))

	counters, err := s.Counters().Get(ctx, target)
	require.NoError(t, err)
	assert.Equal(t, int64(0), counters.Likes)
}

func TestCounterApplyUnknownTarget(t *testing.T) {
	s := New()
	err := s.Counters().Apply(context.Background(), models.Target{Type: models.TargetPost, ID: 404}, models.CounterDelta{Views: 1})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUserNameUniqueness(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.Users().Create(ctx, &models.User{Name: "resident-101", PasswordHash: "x"}))
	err := s.Users().Create(ctx, &models.User{Name: "resident-101", PasswordHash: "y"})
	assert.ErrorIs(t, err, store.ErrDuplicate)
}

func TestCommentChildrenCount(t *testing.T) {
	s := New()
	ctx := context.Background()

	parent := &models.Comment{PostID: 1, AuthorID: 2, Content: "parent"}
	require.NoError(t, s.Comments().Create(ctx, parent))

	reply := &models.Comment{PostID: 1, AuthorID: 3, Content: "reply"}
	reply.ParentID.Int64 = parent.ID
	reply.ParentID.Valid = true
	require.NoError(t, s.Comments().Create(ctx, reply))

	n, err := s.Comments().CountChildren(ctx, parent.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = s.Comments().CountChildren(ctx, reply.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}
