package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	accessCookieName  = "access_token"
	refreshCookieName = "refresh_token"

	// refresh cookie is scoped to the auth endpoint group only
	authCookiePath = "/auth"
)

// transportMode is decided once per request at the boundary and consumed by
// every downstream step; the Authorization header is never re-sniffed
// mid-pipeline.
type transportMode int

const (
	modeCookie transportMode = iota
	modeBearer
)

// detectMode tags a request as bearer when it carries an Authorization header.
// Bearer mode returns tokens in the JSON body; cookie mode only via Set-Cookie.
func detectMode(c *gin.Context) transportMode {
	if c.GetHeader("Authorization") != "" {
		return modeBearer
	}
	return modeCookie
}

// accessTokenFromRequest locates the access token: HTTP-only cookie first
// (browser clients), then the Authorization: Bearer header (mobile,
// cross-origin).
func accessTokenFromRequest(c *gin.Context) (string, bool) {
	if v, err := c.Cookie(accessCookieName); err == nil && v != "" {
		return v, true
	}
	authHeader := c.GetHeader("Authorization")
	if parts := strings.SplitN(authHeader, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		if tok := strings.TrimSpace(parts[1]); tok != "" {
			return tok, true
		}
	}
	return "", false
}

// refreshTokenFromRequest locates the refresh token: cookie first, then the
// refreshToken field of a JSON body. Never a header - refresh tokens must not
// show up in ordinary request logs.
func refreshTokenFromRequest(c *gin.Context) (string, bool) {
	if v, err := c.Cookie(refreshCookieName); err == nil && v != "" {
		return v, true
	}
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.ShouldBindJSON(&req); err == nil && req.RefreshToken != "" {
		return req.RefreshToken, true
	}
	return "", false
}

// setAuthCookies installs both token cookies. The access cookie covers the
// whole site; the refresh cookie only ever travels back to /auth.
func setAuthCookies(c *gin.Context, accessToken, refreshToken string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(accessCookieName, accessToken, int(codec.AccessTTL().Seconds()),
		"/", cfg.Cookie.Domain, cfg.Cookie.Secure, true)
	c.SetCookie(refreshCookieName, refreshToken, int(codec.RefreshTTL().Seconds()),
		authCookiePath, cfg.Cookie.Domain, cfg.Cookie.Secure, true)
}

// setAccessCookie replaces only the access cookie (refresh without rotation).
func setAccessCookie(c *gin.Context, accessToken string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(accessCookieName, accessToken, int(codec.AccessTTL().Seconds()),
		"/", cfg.Cookie.Domain, cfg.Cookie.Secure, true)
}

func clearAuthCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(accessCookieName, "", -1, "/", cfg.Cookie.Domain, cfg.Cookie.Secure, true)
	c.SetCookie(refreshCookieName, "", -1, authCookiePath, cfg.Cookie.Domain, cfg.Cookie.Secure, true)
}
