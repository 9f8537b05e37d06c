package models

import "time"

// Setting is a key/value row for runtime-tunable flags (e.g. single-device login).
type Setting struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Key       string `gorm:"size:64;uniqueIndex;not null"`
	Value     string `gorm:"size:255;not null"`
}
