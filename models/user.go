package models

import (
	"time"
)

// User model. Email is the login identifier; PasswordHash is bcrypt output.
type User struct {
	ID           uint `gorm:"primaryKey"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time `gorm:"index"`
	Email        string     `gorm:"size:255;not null;unique"`
	Name         string     `gorm:"size:128;not null"`
	PasswordHash []byte     `gorm:"not null"`
	IsActive     bool       `gorm:"default:true;not null"`
	LastLoginAt  *time.Time
	RoleID       *uint `gorm:"index"`
	Role         Role  `gorm:"foreignKey:RoleID;references:ID"`
	// StoreID scopes staff accounts to a branch store; nil means unscoped.
	StoreID *uint `gorm:"index"`
}
