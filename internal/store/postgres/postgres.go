// Package postgres implements the store interfaces on GORM/PostgreSQL.
package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/maeulhub/maeul/internal/store"
)

// Store bundles the GORM-backed collection stores.
type Store struct {
	db *gorm.DB

	posts     *PostStore
	comments  *CommentStore
	reactions *ReactionStore
	counters  *CounterStore
	users     *UserStore
}

// New creates a new postgres-backed store.
func New(db *gorm.DB) *Store {
	s := &Store{db: db}
	s.posts = &PostStore{db: db}
	s.comments = &CommentStore{db: db}
	s.reactions = &ReactionStore{db: db}
	s.counters = &CounterStore{db: db}
	s.users = &UserStore{db: db}
	return s
}

// Posts returns the post store.
func (s *Store) Posts() store.Posts { return s.posts }

// Comments returns the comment store.
func (s *Store) Comments() store.Comments { return s.comments }

// Reactions returns the reaction store.
func (s *Store) Reactions() store.Reactions { return s.reactions }

// Counters returns the counter store.
func (s *Store) Counters() store.Counters { return s.counters }

// Users returns the user store.
func (s *Store) Users() store.Users { return s.users }

// translate maps GORM errors onto the store sentinel errors.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return store.ErrDuplicate
	default:
		return err
	}
}
