// Package store defines the persistence contract for the content core.
// Implementations live in postgres (production) and inmemory (tests).
package store

import (
	"context"
	"errors"

	"github.com/maeulhub/maeul/internal/models"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrDuplicate is returned when an insert violates a unique index.
	ErrDuplicate = errors.New("store: duplicate key")
	// ErrStaleVersion is returned when a compare-and-set update matched no
	// row, meaning a concurrent writer got there first.
	ErrStaleVersion = errors.New("store: stale version")
)

// Posts provides post persistence.
type Posts interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	GetBySlug(ctx context.Context, s string) (*models.Post, error)
	// UpdateSlug sets only the slug column; used by the relabel phase of
	// post creation and by the repair sweep.
	UpdateSlug(ctx context.Context, id int64, s string) error
	// UpdateContent sets title, content and category; the slug is never
	// recomputed on edit.
	UpdateContent(ctx context.Context, post *models.Post) error
	UpdateStatus(ctx context.Context, id int64, status models.PostStatus) error
	// ListBySlugPattern returns posts whose slug matches the SQL LIKE
	// pattern, oldest first.
	ListBySlugPattern(ctx context.Context, pattern string, limit int) ([]*models.Post, error)
	// ListRecentIDs returns ids of the most recently updated posts.
	ListRecentIDs(ctx context.Context, limit int) ([]int64, error)
}

// Comments provides comment persistence.
type Comments interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	ListByPost(ctx context.Context, postID int64) ([]*models.Comment, error)
	CountByPost(ctx context.Context, postID int64) (int64, error)
	CountChildren(ctx context.Context, id int64) (int64, error)
	UpdateContent(ctx context.Context, id int64, content string) error
	// Tombstone soft-deletes: replaces content and marks status deleted,
	// keeping the row so children stay attached.
	Tombstone(ctx context.Context, id int64, content string) error
	// Delete hard-deletes the row.
	Delete(ctx context.Context, id int64) error
}

// Reactions provides per-(user, target) reaction state.
type Reactions interface {
	// Get returns the user's reaction toward the target, or ErrNotFound.
	Get(ctx context.Context, userID int64, target models.Target) (*models.Reaction, error)
	// Insert creates the first reaction row for the pair; ErrDuplicate when
	// a concurrent writer inserted it first.
	Insert(ctx context.Context, reaction *models.Reaction) error
	// UpdateCAS overwrites the reaction flags guarded by the version the
	// caller read; ErrStaleVersion when the guard misses. On success the
	// stored and in-memory version are bumped.
	UpdateCAS(ctx context.Context, reaction *models.Reaction) error
	// CountByTarget tallies the reaction rows for one target; used by the
	// reconciliation sweep.
	CountByTarget(ctx context.Context, target models.Target) (likes, dislikes, bookmarks int64, err error)
	// DeleteByTarget removes all reaction rows for a target. Advisory
	// cascade for hard deletes, not foreign-key enforced.
	DeleteByTarget(ctx context.Context, target models.Target) error
}

// Counters applies and reads denormalized per-target counters. Deltas must
// be applied as atomic store-level operations, never read-modify-write, and
// results clamp at zero.
type Counters interface {
	Apply(ctx context.Context, target models.Target, delta models.CounterDelta) error
	Get(ctx context.Context, target models.Target) (models.Counters, error)
	// Overwrite replaces the reaction-derived counters (likes, dislikes,
	// bookmarks, comments) with recounted values; views are left alone.
	Overwrite(ctx context.Context, target models.Target, c models.Counters) error
}

// Users provides account persistence.
type Users interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByName(ctx context.Context, name string) (*models.User, error)
}

// Store bundles the collection-level interfaces one backend provides.
type Store interface {
	Posts() Posts
	Comments() Comments
	Reactions() Reactions
	Counters() Counters
	Users() Users
}
