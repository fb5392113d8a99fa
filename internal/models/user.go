package models

import (
	"time"
)

// Role is a coarse permission level.
type Role string

const (
	RoleResident Role = "resident"
	RoleAdmin    Role = "admin"
)

// User represents a registered resident account.
type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Name         string    `gorm:"type:varchar(40);not null;uniqueIndex:maeul_users_name_ux;column:name"`
	PasswordHash string    `gorm:"type:varchar(100);not null;column:password_hash"`
	Role         Role      `gorm:"type:varchar(16);not null;default:'resident';column:role"`
	CreatedAt    time.Time `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "maeul_users"
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
