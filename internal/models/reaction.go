package models

import (
	"time"
)

// TargetType identifies the kind of entity a reaction or counter refers to.
type TargetType string

const (
	TargetPost    TargetType = "post"
	TargetComment TargetType = "comment"
)

// Target identifies one reactable entity.
type Target struct {
	Type TargetType
	ID   int64
}

// Reaction holds one user's reaction state toward one target. liked and
// disliked are mutually exclusive; bookmarked is independent and applies to
// posts only. The version column backs compare-and-set updates.
type Reaction struct {
	ID         int64      `gorm:"primaryKey;autoIncrement;column:id"`
	UserID     int64      `gorm:"not null;uniqueIndex:maeul_reactions_ux;column:user_id"`
	TargetType TargetType `gorm:"type:varchar(16);not null;uniqueIndex:maeul_reactions_ux;column:target_type"`
	TargetID   int64      `gorm:"not null;uniqueIndex:maeul_reactions_ux;index;column:target_id"`

	Liked      bool `gorm:"not null;default:false;column:liked"`
	Disliked   bool `gorm:"not null;default:false;column:disliked"`
	Bookmarked bool `gorm:"not null;default:false;column:bookmarked"`

	Version   int64     `gorm:"not null;default:0;column:version"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`
	UpdatedAt time.Time `gorm:"not null;column:updated_at"`
}

// TableName specifies the table name for Reaction
func (Reaction) TableName() string {
	return "maeul_reactions"
}

// Counters is a denormalized counter snapshot for one target. All values
// stay non-negative; increments and decrements are applied as atomic
// store-level operations and clamp at zero.
type Counters struct {
	Views     int64 `json:"view_count"`
	Likes     int64 `json:"like_count"`
	Dislikes  int64 `json:"dislike_count"`
	Comments  int64 `json:"comment_count"`
	Bookmarks int64 `json:"bookmark_count"`
}

// CounterDelta is a set of signed counter adjustments applied together in
// one logical operation.
type CounterDelta struct {
	Views     int64
	Likes     int64
	Dislikes  int64
	Comments  int64
	Bookmarks int64
}

// IsZero reports whether the delta adjusts nothing.
func (d CounterDelta) IsZero() bool {
	return d == CounterDelta{}
}
