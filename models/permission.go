package models

import "time"

// Permission is one entry of the fixed permission catalog.
type Permission struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Code      string `gorm:"size:64;uniqueIndex;not null"`
	Name      string `gorm:"size:128"`
}
