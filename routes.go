package main

import (
	"net/http"

	"gopos/pkg/rbac"

	"github.com/gin-gonic/gin"
)

func setupRoutes(r *gin.Engine) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metricsHandler())

	auth := r.Group("/auth")
	auth.POST("/login", loginHandler)
	auth.POST("/refresh", refreshHandler)
	auth.POST("/logout", logoutHandler)
	auth.GET("/me", requireAuth(), meHandler)
	auth.GET("/check", optionalAuth(), checkHandler)

	api := r.Group("/api")
	usersGroup := api.Group("/users", requireAuth(rbac.PermUserManagement))
	usersGroup.GET("", listUsersHandler)
	usersGroup.POST("", createUserHandler)
	usersGroup.PUT("/:id", updateUserHandler)
	usersGroup.DELETE("/:id", deleteUserHandler)

	rolesGroup := api.Group("/roles", requireAuth(rbac.PermRoleManagement))
	rolesGroup.GET("", listRolesHandler)
	rolesGroup.POST("", createRoleHandler)
	rolesGroup.PUT("/:id", updateRoleHandler)
	rolesGroup.DELETE("/:id", deleteRoleHandler)
	api.GET("/permissions", requireAuth(rbac.PermRoleManagement), listPermissionsHandler)

	settingsGroup := api.Group("/settings", requireAuth(rbac.PermSystemSettings))
	settingsGroup.GET("", listSettingsHandler)
	settingsGroup.PUT("", updateSettingHandler)
}
