package main

import (
	"net/http"
	"time"

	"gopos/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

func userView(u *models.User) gin.H {
	return gin.H{
		"id":          u.ID,
		"email":       u.Email,
		"name":        u.Name,
		"role":        u.Role.Name,
		"roleId":      u.RoleID,
		"storeId":     u.StoreID,
		"isActive":    u.IsActive,
		"lastLoginAt": u.LastLoginAt,
	}
}

func listUsersHandler(c *gin.Context) {
	var rows []models.User
	if err := db.Preload("Role").Order("id").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalError})
		return
	}
	out := make([]gin.H, 0, len(rows))
	for i := range rows {
		out = append(out, userView(&rows[i]))
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}

func createUserHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Name     string `json:"name" binding:"required"`
		Password string `json:"password" binding:"required,min=6"`
		RoleID   uint   `json:"roleId" binding:"required"`
		StoreID  *uint  `json:"storeId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgBadRequest})
		return
	}
	var role models.Role
	if err := db.First(&role, req.RoleID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgBadRequest})
		return
	}
	var cnt int64
	db.Model(&models.User{}).Where("email = ?", req.Email).Count(&cnt)
	if cnt > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "電子郵件已被使用"})
		return
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalError})
		return
	}
	rid := role.ID
	user := models.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hashed,
		IsActive:     true,
		RoleID:       &rid,
		StoreID:      req.StoreID,
	}
	if err := db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalError})
		return
	}
	user.Role = role
	c.JSON(http.StatusOK, gin.H{"user": userView(&user)})
}

func updateUserHandler(c *gin.Context) {
	var user models.User
	if err := db.First(&user, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
		return
	}
	var req struct {
		Name     *string `json:"name"`
		Password *string `json:"password"`
		RoleID   *uint   `json:"roleId"`
		StoreID  *uint   `json:"storeId"`
		IsActive *bool   `json:"isActive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgBadRequest})
		return
	}
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Password != nil {
		if len(*req.Password) < 6 {
			c.JSON(http.StatusBadRequest, gin.H{"error": msgBadRequest})
			return
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalError})
			return
		}
		updates["password_hash"] = hashed
	}
	if req.RoleID != nil {
		var role models.Role
		if err := db.First(&role, *req.RoleID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": msgBadRequest})
			return
		}
		updates["role_id"] = *req.RoleID
	}
	if req.StoreID != nil {
		updates["store_id"] = *req.StoreID
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) > 0 {
		if err := db.Model(&user).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalError})
			return
		}
	}
	// deactivation kills every live session so the lockout is immediate
	if req.IsActive != nil && !*req.IsActive {
		if err := sessions.RevokeAllForUser(user.ID); err != nil {
			logger.Warn("session revoke on deactivate failed", "user_id", user.ID, "error", err)
		}
	}
	var fresh models.User
	if err := db.Preload("Role").First(&fresh, user.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalError})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userView(&fresh)})
}

func deleteUserHandler(c *gin.Context) {
	var user models.User
	if err := db.First(&user, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
		return
	}
	if err := sessions.RevokeAllForUser(user.ID); err != nil {
		logger.Warn("session revoke on delete failed", "user_id", user.ID, "error", err)
	}
	now := time.Now()
	if err := db.Model(&user).Updates(map[string]interface{}{
		"is_active":  false,
		"deleted_at": &now,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalError})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}
