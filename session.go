package main

import (
	"net/http"
	"time"

	"gopos/models"
	"gopos/pkg/rbac"
	"gopos/pkg/token"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// identityForUser resolves the effective identity for a freshly loaded user.
// This is the single place permissions are computed; login, refresh and me all
// go through it so the reserved-admin rule can never diverge between them.
func identityForUser(user *models.User) *token.Identity {
	var roleID uint
	roleName := ""
	explicit := []string{}
	if user.RoleID != nil {
		roleID = *user.RoleID
		roleName = user.Role.Name
		explicit = user.Role.PermissionCodes()
	}
	return &token.Identity{
		ID:          user.ID,
		Email:       user.Email,
		Name:        user.Name,
		RoleID:      roleID,
		RoleName:    roleName,
		Permissions: rbac.Resolve(roleName, explicit),
		StoreID:     user.StoreID,
	}
}

// publicUserView is what session endpoints return about a user. Tokens and
// password hashes never appear here.
func publicUserView(id *token.Identity) gin.H {
	return gin.H{
		"id":          id.ID,
		"email":       id.Email,
		"name":        id.Name,
		"role":        id.RoleName,
		"permissions": id.Permissions,
	}
}

// issueSession mints the token pair for a fresh jti and persists the session
// record. Used by login; refresh goes through Rotate instead.
func issueSession(id *token.Identity) (accessToken, refreshToken string, err error) {
	jti, err := token.GenerateJTI()
	if err != nil {
		return "", "", err
	}
	refreshToken, expiresAt, err := codec.CreateRefreshToken(id.ID, jti)
	if err != nil {
		return "", "", err
	}
	if err := sessions.Create(id.ID, jti, expiresAt); err != nil {
		return "", "", err
	}
	accessToken, err = codec.CreateAccessToken(id)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func loginHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgBadRequest})
		return
	}
	mode := detectMode(c)

	user, err := users.FindByEmail(req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalError})
		return
	}
	// unknown email, wrong password and disabled account all answer the same
	if user == nil || !user.IsActive {
		loginsTotal.WithLabelValues("invalid_credentials").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": msgInvalidCredentials})
		return
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(req.Password)); err != nil {
		loginsTotal.WithLabelValues("invalid_credentials").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": msgInvalidCredentials})
		return
	}

	if getSettingBool(settingSingleDeviceLogin, false) {
		if err := sessions.RevokeAllForUser(user.ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalError})
			return
		}
	}

	id := identityForUser(user)
	accessToken, refreshToken, err := issueSession(id)
	if err != nil {
		logger.Error("login token issue failed", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalError})
		return
	}
	if err := users.UpdateLastLogin(user.ID); err != nil {
		logger.Warn("last-login update failed", "user_id", user.ID, "error", err)
	}
	loginsTotal.WithLabelValues("success").Inc()

	resp := gin.H{"user": publicUserView(id)}
	if mode == modeBearer {
		resp["accessToken"] = accessToken
		resp["refreshToken"] = refreshToken
	} else {
		setAuthCookies(c, accessToken, refreshToken)
	}
	c.JSON(http.StatusOK, resp)
}

func refreshHandler(c *gin.Context) {
	mode := detectMode(c)
	raw, ok := refreshTokenFromRequest(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": msgSessionExpired})
		return
	}
	claims, ok := codec.VerifyRefreshToken(raw)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": msgSessionExpired})
		return
	}
	// revoked and expired are deliberately indistinguishable to the caller
	sess, err := sessions.FindByJTI(claims.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalError})
		return
	}
	if sess == nil || !sess.Valid(time.Now()) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": msgSessionExpired})
		return
	}

	// re-resolve from the store, not the old token, so role changes take
	// effect on next refresh
	user, err := users.FindByID(claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalError})
		return
	}
	if user == nil || !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": msgSessionExpired})
		return
	}

	id := identityForUser(user)
	accessToken, err := codec.CreateAccessToken(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalError})
		return
	}

	refreshToken := raw
	if getSettingBool(settingTokenRotationEnabled, true) {
		newJTI, err := token.GenerateJTI()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalError})
			return
		}
		newRefresh, expiresAt, err := codec.CreateRefreshToken(user.ID, newJTI)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalError})
			return
		}
		if err := sessions.Rotate(claims.ID, user.ID, newJTI, expiresAt); err != nil {
			// lost the rotation race or already revoked: fail closed
			c.JSON(http.StatusUnauthorized, gin.H{"error": msgSessionExpired})
			return
		}
		refreshToken = newRefresh
	}

	if mode == modeBearer {
		c.JSON(http.StatusOK, gin.H{"accessToken": accessToken, "refreshToken": refreshToken})
		return
	}
	if refreshToken != raw {
		setAuthCookies(c, accessToken, refreshToken)
	} else {
		setAccessCookie(c, accessToken)
	}
	c.JSON(http.StatusOK, gin.H{"message": msgRefreshSuccess})
}

// logoutHandler is best-effort and terminal: it revokes the presented refresh
// token when it can be decoded, clears both cookies regardless, and never
// fails visibly even when the token was already invalid.
func logoutHandler(c *gin.Context) {
	if raw, ok := refreshTokenFromRequest(c); ok {
		if claims, ok := codec.VerifyRefreshToken(raw); ok {
			if err := sessions.RevokeByJTI(claims.ID); err != nil {
				logger.Warn("logout revoke failed", "error", err)
			}
		}
	}
	clearAuthCookies(c)
	c.JSON(http.StatusOK, gin.H{"message": msgLogoutSuccess})
}

// meHandler re-reads role and permissions from the store instead of trusting
// the token snapshot, so admin-made changes and deactivation apply immediately
// rather than at token expiry.
func meHandler(c *gin.Context) {
	id, ok := identityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": msgLoginRequired})
		return
	}
	user, err := users.FindByID(id.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalError})
		return
	}
	if user == nil || !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": msgAccountDisabled})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": publicUserView(identityForUser(user))})
}

// checkHandler lets the frontend probe session state without risking a 401
// redirect loop. Anonymous callers get authenticated=false.
func checkHandler(c *gin.Context) {
	if id, ok := identityFrom(c); ok {
		c.JSON(http.StatusOK, gin.H{"authenticated": true, "user": publicUserView(id)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": false})
}
