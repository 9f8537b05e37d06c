// Package token creates and verifies the signed access/refresh token pair.
// It is pure: no clock injection beyond time.Now, no I/O, no storage.
package token

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// TypeAccess and TypeRefresh discriminate token kinds so a validly signed
	// refresh token can never pass as an access token (and vice versa).
	TypeAccess  = "access"
	TypeRefresh = "refresh"

	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// Identity is the resolved, request-scoped identity handed to protected
// handlers. Built from access-token claims on the fast path, or from a fresh
// user-store read where staleness matters.
type Identity struct {
	ID          uint     `json:"id"`
	Email       string   `json:"email"`
	Name        string   `json:"name"`
	RoleID      uint     `json:"role_id"`
	RoleName    string   `json:"role"`
	Permissions []string `json:"permissions"`
	StoreID     *uint    `json:"store_id,omitempty"`
}

// AccessClaims is the access-token payload. Stateless: never persisted.
type AccessClaims struct {
	UserID      uint     `json:"uid"`
	Email       string   `json:"email"`
	Name        string   `json:"name"`
	RoleID      uint     `json:"role_id"`
	RoleName    string   `json:"role"`
	Permissions []string `json:"perms"`
	StoreID     *uint    `json:"store_id,omitempty"`
	TokenType   string   `json:"typ"`
	jwt.RegisteredClaims
}

// Identity rebuilds the request identity from decoded claims.
func (c *AccessClaims) Identity() *Identity {
	return &Identity{
		ID:          c.UserID,
		Email:       c.Email,
		Name:        c.Name,
		RoleID:      c.RoleID,
		RoleName:    c.RoleName,
		Permissions: c.Permissions,
		StoreID:     c.StoreID,
	}
}

// RefreshClaims is the refresh-token payload. The jti (RegisteredClaims.ID)
// joins the token to its persisted revocation record.
type RefreshClaims struct {
	UserID    uint   `json:"uid"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// Codec signs and verifies both token kinds. Two distinct secrets are
// deliberate: compromise of one signing key does not let an attacker forge
// the other token kind.
type Codec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewCodec(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Codec {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}
	return &Codec{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// AccessTTL returns the configured access-token lifetime (cookie max-age).
func (c *Codec) AccessTTL() time.Duration { return c.accessTTL }

// RefreshTTL returns the configured refresh-token lifetime.
func (c *Codec) RefreshTTL() time.Duration { return c.refreshTTL }

// CreateAccessToken signs an access token carrying the resolved identity.
func (c *Codec) CreateAccessToken(id *Identity) (string, error) {
	now := time.Now()
	claims := &AccessClaims{
		UserID:      id.ID,
		Email:       id.Email,
		Name:        id.Name,
		RoleID:      id.RoleID,
		RoleName:    id.RoleName,
		Permissions: id.Permissions,
		StoreID:     id.StoreID,
		TokenType:   TypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.accessTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.accessSecret)
}

// CreateRefreshToken signs a refresh token bound to jti and returns the token
// together with its expiry, which the caller persists on the session record.
func (c *Codec) CreateRefreshToken(userID uint, jti string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(c.refreshTTL)
	claims := &RefreshClaims{
		UserID:    userID,
		TokenType: TypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.refreshSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// VerifyAccessToken checks signature, expiry and kind. Any failure yields
// (nil, false); callers branch on the bool, nothing is thrown upward.
func (c *Codec) VerifyAccessToken(tokenString string) (*AccessClaims, bool) {
	claims := &AccessClaims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrInvalidKeyType
		}
		return c.accessSecret, nil
	})
	if err != nil || !tok.Valid {
		return nil, false
	}
	if claims.TokenType != TypeAccess {
		return nil, false
	}
	return claims, true
}

// VerifyRefreshToken is the refresh-side twin of VerifyAccessToken.
func (c *Codec) VerifyRefreshToken(tokenString string) (*RefreshClaims, bool) {
	claims := &RefreshClaims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrInvalidKeyType
		}
		return c.refreshSecret, nil
	})
	if err != nil || !tok.Valid {
		return nil, false
	}
	if claims.TokenType != TypeRefresh {
		return nil, false
	}
	return claims, true
}

// GenerateJTI returns a fresh 32-byte random identifier (hex) used once per
// issued refresh token.
func GenerateJTI() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
