package main

import (
	"errors"
	"time"

	"gopos/models"

	"gorm.io/gorm"
)

// UserStore is the user-side collaborator of the auth core.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// FindByEmail loads a user with role and grants for credential checks.
// Missing users come back as (nil, nil) so callers can fold "not found" and
// "wrong password" into one uniform failure.
func (u *UserStore) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := u.db.Preload("Role.Permissions").Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user with role and grants, (nil, nil) when missing.
func (u *UserStore) FindByID(id uint) (*models.User, error) {
	var user models.User
	err := u.db.Preload("Role.Permissions").First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// UpdateLastLogin stamps the user's last successful login.
func (u *UserStore) UpdateLastLogin(id uint) error {
	return u.db.Model(&models.User{}).Where("id = ?", id).
		Update("last_login_at", time.Now()).Error
}
