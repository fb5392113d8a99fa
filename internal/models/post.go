package models

import (
	"time"
)

// PostStatus is the lifecycle state of a post.
type PostStatus string

const (
	PostStatusActive  PostStatus = "active"
	PostStatusDeleted PostStatus = "deleted"
)

// Post represents a community post.
//
// The slug embeds the primary key, so it is only assigned after the first
// insert: rows are created with a unique placeholder slug and relabeled once
// the id is known. Title edits never recompute the slug.
type Post struct {
	ID       int64      `gorm:"primaryKey;autoIncrement;column:id"`
	Slug     string     `gorm:"type:varchar(300);not null;uniqueIndex:maeul_posts_slug_ux;column:slug"`
	Title    string     `gorm:"type:varchar(255);not null;column:title"`
	Content  string     `gorm:"type:text;not null;column:content"`
	Category string     `gorm:"type:varchar(64);column:category"`
	AuthorID int64      `gorm:"not null;index;column:author_id"`
	Status   PostStatus `gorm:"type:varchar(16);not null;default:'active';column:status"`

	// Denormalized counters, mutated only through atomic increments.
	ViewCount     int64 `gorm:"not null;default:0;column:view_count"`
	LikeCount     int64 `gorm:"not null;default:0;column:like_count"`
	DislikeCount  int64 `gorm:"not null;default:0;column:dislike_count"`
	CommentCount  int64 `gorm:"not null;default:0;column:comment_count"`
	BookmarkCount int64 `gorm:"not null;default:0;column:bookmark_count"`

	CreatedAt time.Time `gorm:"not null;column:created_at"`
	UpdatedAt time.Time `gorm:"not null;column:updated_at"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "maeul_posts"
}

// Counters returns the post's denormalized counter snapshot.
func (p *Post) Counters() Counters {
	return Counters{
		Views:     p.ViewCount,
		Likes:     p.LikeCount,
		Dislikes:  p.DislikeCount,
		Comments:  p.CommentCount,
		Bookmarks: p.BookmarkCount,
	}
}
