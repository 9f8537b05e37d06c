package main

import (
	"net/http"
	"strings"

	"gopos/models"
	"gopos/pkg/rbac"

	"github.com/gin-gonic/gin"
)

func roleView(r *models.Role) gin.H {
	return gin.H{
		"id":          r.ID,
		"name":        r.Name,
		"description": r.Description,
		"permissions": rbac.Resolve(r.Name, r.PermissionCodes()),
	}
}

func listPermissionsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"permissions": rbac.AllPermissions()})
}

func listRolesHandler(c *gin.Context) {
	var rows []models.Role
	if err := db.Preload("Permissions").Order("id").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalError})
		return
	}
	out := make([]gin.H, 0, len(rows))
	for i := range rows {
		out = append(out, roleView(&rows[i]))
	}
	c.JSON(http.StatusOK, gin.H{"roles": out})
}

func createRoleHandler(c *gin.Context) {
	var req struct {
		Name        string   `json:"name" binding:"required"`
		Description string   `json:"description"`
		Permissions []string `json:"permissions"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgBadRequest})
		return
	}
	name := strings.TrimSpace(req.Name)
	var cnt int64
	db.Model(&models.Role{}).Where("name = ?", name).Count(&cnt)
	if cnt > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "角色名稱已存在"})
		return
	}
	var perms []models.Permission
	if len(req.Permissions) > 0 {
		if err := db.Where("code IN ?", req.Permissions).Find(&perms).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalError})
			return
		}
	}
	role := models.Role{Name: name, Description: req.Description, Permissions: perms}
	if err := db.Create(&role).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalError})
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": roleView(&role)})
}

func updateRoleHandler(c *gin.Context) {
	var role models.Role
	if err := db.Preload("Permissions").First(&role, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
		return
	}
	var req struct {
		Description *string   `json:"description"`
		Permissions *[]string `json:"permissions"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgBadRequest})
		return
	}
	if req.Description != nil {
		if err := db.Model(&role).Update("description", *req.Description).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalError})
			return
		}
	}
	if req.Permissions != nil {
		var perms []models.Permission
		if len(*req.Permissions) > 0 {
			if err := db.Where("code IN ?", *req.Permissions).Find(&perms).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalError})
				return
			}
		}
		if err := db.Model(&role).Association("Permissions").Replace(perms); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalError})
			return
		}
	}
	var fresh models.Role
	if err := db.Preload("Permissions").First(&fresh, role.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalError})
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": roleView(&fresh)})
}

func deleteRoleHandler(c *gin.Context) {
	var role models.Role
	if err := db.First(&role, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
		return
	}
	// the reserved admin role and roles still in use stay
	if strings.EqualFold(role.Name, rbac.AdminRole) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "無法刪除管理員角色"})
		return
	}
	var inUse int64
	db.Model(&models.User{}).Where("role_id = ?", role.ID).Count(&inUse)
	if inUse > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "角色使用中，無法刪除"})
		return
	}
	if err := db.Model(&role).Association("Permissions").Clear(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalError})
		return
	}
	if err := db.Delete(&role).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternalError})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}
