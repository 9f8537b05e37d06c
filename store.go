package main

import (
	"errors"
	"time"

	"gopos/models"

	"gorm.io/gorm"
)

// errSessionRotated means another refresh call won the rotation race; the
// presented token must be refused (fail closed).
var errSessionRotated = errors.New("refresh token already rotated")

// SessionStore persists one row per issued refresh token, keyed by jti.
// Revocation is one-way: rows are only ever marked, never deleted.
type SessionStore struct {
	db *gorm.DB
}

func NewSessionStore(db *gorm.DB) *SessionStore {
	return &SessionStore{db: db}
}

// Create inserts a fresh, unrevoked session record.
func (s *SessionStore) Create(userID uint, jti string, expiresAt time.Time) error {
	rec := models.AuthSession{UserID: userID, JTI: jti, ExpiresAt: expiresAt}
	return s.db.Create(&rec).Error
}

// FindByJTI returns the record for jti, or (nil, nil) when none exists.
func (s *SessionStore) FindByJTI(jti string) (*models.AuthSession, error) {
	var rec models.AuthSession
	if err := s.db.Where("jti = ?", jti).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// RevokeByJTI marks the record revoked. Idempotent: revoking an already
// revoked or missing jti is not an error.
func (s *SessionStore) RevokeByJTI(jti string) error {
	return s.db.Model(&models.AuthSession{}).
		Where("jti = ? AND revoked_at IS NULL", jti).
		Update("revoked_at", time.Now()).Error
}

// RevokeAllForUser invalidates every live session of the user. Used by the
// single-device-login policy at login time.
func (s *SessionStore) RevokeAllForUser(userID uint) error {
	return s.db.Model(&models.AuthSession{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", time.Now()).Error
}

// Rotate atomically revokes oldJTI and records newJTI. Two concurrent refresh
// calls presenting the same token race on the revoke update; the loser sees
// zero rows affected and gets errSessionRotated. The unique index on jti backs
// this up: a duplicate insert also refuses the rotation.
func (s *SessionStore) Rotate(oldJTI string, userID uint, newJTI string, expiresAt time.Time) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.AuthSession{}).
			Where("jti = ? AND revoked_at IS NULL", oldJTI).
			Update("revoked_at", time.Now())
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errSessionRotated
		}
		rec := models.AuthSession{UserID: userID, JTI: newJTI, ExpiresAt: expiresAt}
		return tx.Create(&rec).Error
	})
}
