// Package inmemory implements the store interfaces on process-local maps.
// It mirrors the postgres semantics (unique indexes, compare-and-set
// versions, clamped counters) closely enough to back service tests.
package inmemory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/maeulhub/maeul/internal/models"
	"github.com/maeulhub/maeul/internal/store"
)

// Store holds all collections behind one mutex.
type Store struct {
	mu sync.Mutex

	posts    map[int64]*models.Post
	comments map[int64]*models.Comment
	// reactions keyed by "user/type/id"
	reactions map[reactionKey]*models.Reaction
	users     map[int64]*models.User

	nextPostID     int64
	nextCommentID  int64
	nextReactionID int64
	nextUserID     int64
}

type reactionKey struct {
	UserID     int64
	TargetType models.TargetType
	TargetID   int64
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		posts:     make(map[int64]*models.Post),
		comments:  make(map[int64]*models.Comment),
		reactions: make(map[reactionKey]*models.Reaction),
		users:     make(map[int64]*models.User),
	}
}

// Posts returns the post store.
func (s *Store) Posts() store.Posts { return (*postStore)(s) }

// Comments returns the comment store.
func (s *Store) Comments() store.Comments { return (*commentStore)(s) }

// Reactions returns the reaction store.
func (s *Store) Reactions() store.Reactions { return (*reactionStore)(s) }

// Counters returns the counter store.
func (s *Store) Counters() store.Counters { return (*counterStore)(s) }

// Users returns the user store.
func (s *Store) Users() store.Users { return (*userStore)(s) }

// === Posts ===

type postStore Store

func (s *postStore) Create(ctx context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.posts {
		if p.Slug == post.Slug {
			return store.ErrDuplicate
		}
	}
	s.nextPostID++
	post.ID = s.nextPostID
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now
	cp := *post
	s.posts[post.ID] = &cp
	return nil
}

func (s *postStore) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *post
	return &cp, nil
}

func (s *postStore) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, post := range s.posts {
		if post.Slug == slug {
			cp := *post
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *postStore) UpdateSlug(ctx context.Context, id int64, slug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return store.ErrNotFound
	}
	post.Slug = slug
	post.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *postStore) UpdateContent(ctx context.Context, in *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[in.ID]
	if !ok {
		return store.ErrNotFound
	}
	post.Title = in.Title
	post.Content = in.Content
	post.Category = in.Category
	post.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *postStore) UpdateStatus(ctx context.Context, id int64, status models.PostStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return store.ErrNotFound
	}
	post.Status = status
	post.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *postStore) ListBySlugPattern(ctx context.Context, pattern string, limit int) ([]*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefix := strings.TrimSuffix(pattern, "%")
	var out []*models.Post
	for _, post := range s.posts {
		if strings.HasPrefix(post.Slug, prefix) {
			cp := *post
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *postStore) ListRecentIDs(ctx context.Context, limit int) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts := make([]*models.Post, 0, len(s.posts))
	for _, post := range s.posts {
		posts = append(posts, post)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].UpdatedAt.After(posts[j].UpdatedAt) })
	ids := make([]int64, 0, len(posts))
	for _, post := range posts {
		ids = append(ids, post.ID)
		if limit > 0 && len(ids) >= limit {
			break
		}
	}
	return ids, nil
}

// === Comments ===

type commentStore Store

func (s *commentStore) Create(ctx context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextCommentID++
	comment.ID = s.nextCommentID
	now := time.Now().UTC()
	comment.CreatedAt = now
	comment.UpdatedAt = now
	if comment.Status == "" {
		comment.Status = models.CommentStatusActive
	}
	cp := *comment
	s.comments[comment.ID] = &cp
	return nil
}

func (s *commentStore) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment, ok := s.comments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *comment
	return &cp, nil
}

func (s *commentStore) ListByPost(ctx context.Context, postID int64) ([]*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*models.Comment
	for _, comment := range s.comments {
		if comment.PostID == postID {
			cp := *comment
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *commentStore) CountByPost(ctx context.Context, postID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, comment := range s.comments {
		if comment.PostID == postID {
			n++
		}
	}
	return n, nil
}

func (s *commentStore) CountChildren(ctx context.Context, id int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, comment := range s.comments {
		if comment.ParentID.Valid && comment.ParentID.Int64 == id {
			n++
		}
	}
	return n, nil
}

func (s *commentStore) UpdateContent(ctx context.Context, id int64, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment, ok := s.comments[id]
	if !ok {
		return store.ErrNotFound
	}
	comment.Content = content
	comment.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *commentStore) Tombstone(ctx context.Context, id int64, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment, ok := s.comments[id]
	if !ok {
		return store.ErrNotFound
	}
	comment.Content = content
	comment.Status = models.CommentStatusDeleted
	comment.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *commentStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.comments, id)
	return nil
}

// === Reactions ===

type reactionStore Store

func (s *reactionStore) Get(ctx context.Context, userID int64, target models.Target) (*models.Reaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reaction, ok := s.reactions[reactionKey{userID, target.Type, target.ID}]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *reaction
	return &cp, nil
}

func (s *reactionStore) Insert(ctx context.Context, reaction *models.Reaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := reactionKey{reaction.UserID, reaction.TargetType, reaction.TargetID}
	if _, exists := s.reactions[key]; exists {
		return store.ErrDuplicate
	}
	s.nextReactionID++
	reaction.ID = s.nextReactionID
	now := time.Now().UTC()
	reaction.CreatedAt = now
	reaction.UpdatedAt = now
	cp := *reaction
	s.reactions[key] = &cp
	return nil
}

func (s *reactionStore) UpdateCAS(ctx context.Context, reaction *models.Reaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := reactionKey{reaction.UserID, reaction.TargetType, reaction.TargetID}
	current, ok := s.reactions[key]
	if !ok || current.ID != reaction.ID || current.Version != reaction.Version {
		return store.ErrStaleVersion
	}
	current.Liked = reaction.Liked
	current.Disliked = reaction.Disliked
	current.Bookmarked = reaction.Bookmarked
	current.Version++
	current.UpdatedAt = time.Now().UTC()
	reaction.Version = current.Version
	return nil
}

func (s *reactionStore) CountByTarget(ctx context.Context, target models.Target) (likes, dislikes, bookmarks int64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, reaction := range s.reactions {
		if key.TargetType != target.Type || key.TargetID != target.ID {
			continue
		}
		if reaction.Liked {
			likes++
		}
		if reaction.Disliked {
			dislikes++
		}
		if reaction.Bookmarked {
			bookmarks++
		}
	}
	return likes, dislikes, bookmarks, nil
}

func (s *reactionStore) DeleteByTarget(ctx context.Context, target models.Target) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.reactions {
		if key.TargetType == target.Type && key.TargetID == target.ID {
			delete(s.reactions, key)
		}
	}
	return nil
}

// === Counters ===

type counterStore Store

func clamp(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

func (s *counterStore) Apply(ctx context.Context, target models.Target, delta models.CounterDelta) error {
	if delta.IsZero() {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	switch target.Type {
	case models.TargetPost:
		post, ok := s.posts[target.ID]
		if !ok {
			return store.ErrNotFound
		}
		post.ViewCount = clamp(post.ViewCount + delta.Views)
		post.LikeCount = clamp(post.LikeCount + delta.Likes)
		post.DislikeCount = clamp(post.DislikeCount + delta.Dislikes)
		post.CommentCount = clamp(post.CommentCount + delta.Comments)
		post.BookmarkCount = clamp(post.BookmarkCount + delta.Bookmarks)
	case models.TargetComment:
		comment, ok := s.comments[target.ID]
		if !ok {
			return store.ErrNotFound
		}
		comment.LikeCount = clamp(comment.LikeCount + delta.Likes)
		comment.DislikeCount = clamp(comment.DislikeCount + delta.Dislikes)
	default:
		return store.ErrNotFound
	}
	return nil
}

func (s *counterStore) Get(ctx context.Context, target models.Target) (models.Counters, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch target.Type {
	case models.TargetPost:
		post, ok := s.posts[target.ID]
		if !ok {
			return models.Counters{}, store.ErrNotFound
		}
		return post.Counters(), nil
	case models.TargetComment:
		comment, ok := s.comments[target.ID]
		if !ok {
			return models.Counters{}, store.ErrNotFound
		}
		return comment.Counters(), nil
	default:
		return models.Counters{}, store.ErrNotFound
	}
}

func (s *counterStore) Overwrite(ctx context.Context, target models.Target, c models.Counters) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch target.Type {
	case models.TargetPost:
		post, ok := s.posts[target.ID]
		if !ok {
			return store.ErrNotFound
		}
		post.LikeCount = c.Likes
		post.DislikeCount = c.Dislikes
		post.BookmarkCount = c.Bookmarks
		post.CommentCount = c.Comments
	case models.TargetComment:
		comment, ok := s.comments[target.ID]
		if !ok {
			return store.ErrNotFound
		}
		comment.LikeCount = c.Likes
		comment.DislikeCount = c.Dislikes
	default:
		return store.ErrNotFound
	}
	return nil
}

// === Users ===

type userStore Store

func (s *userStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Name == user.Name {
			return store.ErrDuplicate
		}
	}
	s.nextUserID++
	user.ID = s.nextUserID
	user.CreatedAt = time.Now().UTC()
	if user.Role == "" {
		user.Role = models.RoleResident
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *userStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (s *userStore) GetByName(ctx context.Context, name string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Name == name {
			cp := *user
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}
