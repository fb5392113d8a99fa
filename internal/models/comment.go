package models

import (
	"database/sql"
	"time"
)

// CommentStatus is the lifecycle state of a comment. A string enum rather
// than a boolean so further states (e.g. hidden) do not force schema churn.
type CommentStatus string

const (
	CommentStatusActive  CommentStatus = "active"
	CommentStatusDeleted CommentStatus = "deleted"
)

// Comment represents a comment or a reply to a comment. Maximum depth is
// post -> comment -> reply: a comment whose parent already has a parent is
// rejected at creation.
type Comment struct {
	ID       int64         `gorm:"primaryKey;autoIncrement;column:id"`
	PostID   int64         `gorm:"not null;index;column:post_id"`
	AuthorID int64         `gorm:"not null;index;column:author_id"`
	Content  string        `gorm:"type:text;not null;column:content"`
	ParentID sql.NullInt64 `gorm:"index;column:parent_comment_id"`
	Status   CommentStatus `gorm:"type:varchar(16);not null;default:'active';column:status"`

	LikeCount    int64 `gorm:"not null;default:0;column:like_count"`
	DislikeCount int64 `gorm:"not null;default:0;column:dislike_count"`

	CreatedAt time.Time `gorm:"not null;column:created_at"`
	UpdatedAt time.Time `gorm:"not null;column:updated_at"`

	// Relationships
	Parent   *Comment  `gorm:"foreignKey:ParentID;references:ID"`
	Children []Comment `gorm:"foreignKey:ParentID;references:ID"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "maeul_comments"
}

// IsReply reports whether the comment is attached to a parent comment.
func (c *Comment) IsReply() bool {
	return c.ParentID.Valid
}

// Counters returns the comment's denormalized counter snapshot.
func (c *Comment) Counters() Counters {
	return Counters{
		Likes:    c.LikeCount,
		Dislikes: c.DislikeCount,
	}
}
