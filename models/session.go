package models

import "time"

// AuthSession is the persisted record of one issued refresh token, keyed by its jti.
// Rows are never deleted; revocation only sets RevokedAt (append-only audit trail).
type AuthSession struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	UserID    uint      `gorm:"index;not null"`
	User      User      `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	JTI       string    `gorm:"size:128;not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"index;not null"`
	RevokedAt *time.Time
}

// Valid reports whether the session can still redeem a refresh token at now.
func (s AuthSession) Valid(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
