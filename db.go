package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gopos/models"
	"gopos/pkg/rbac"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var db *gorm.DB

func initDB(cfg DatabaseConfig) error {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		if cfg.DSN == "" {
			return fmt.Errorf("database.dsn is required for the postgres driver")
		}
		dialector = postgres.Open(cfg.DSN)
	case "sqlite", "":
		path := cfg.Path
		if path == "" {
			path = "data/pos.db"
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create db dir: %w", err)
			}
		}
		dialector = sqlite.Open(path)
	default:
		return fmt.Errorf("unknown database driver %q", cfg.Driver)
	}

	var err error
	db, err = gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	// Migrate permissions and roles first so the users FK can be applied safely.
	if err := db.AutoMigrate(&models.Permission{}, &models.Role{}); err != nil {
		log.Printf("migration warning (roles/permissions): %v", err)
	}
	seedPermissions()
	seedRoles()

	if err := db.AutoMigrate(&models.User{}); err != nil {
		log.Printf("migration warning (users): %v", err)
	}
	if err := db.AutoMigrate(&models.AuthSession{}); err != nil {
		log.Printf("migration warning (auth_sessions): %v", err)
	}
	if err := db.AutoMigrate(&models.Setting{}); err != nil {
		log.Printf("migration warning (settings): %v", err)
	}

	seedSettings()
	seedAdminUser()
	return nil
}

// seedPermissions inserts any catalog code missing from the permissions table.
func seedPermissions() {
	for _, code := range rbac.AllPermissions() {
		var cnt int64
		db.Model(&models.Permission{}).Where("code = ?", code).Count(&cnt)
		if cnt == 0 {
			db.Create(&models.Permission{Code: code, Name: code})
		}
	}
}

// seedRoles ensures the master roles exist. The admin role needs no explicit
// grants: the resolver hands it the full catalog by name.
func seedRoles() {
	roles := []models.Role{
		{Name: rbac.AdminRole, Description: "full access"},
		{Name: "staff", Description: "counter staff"},
	}
	for _, r := range roles {
		var cnt int64
		db.Model(&models.Role{}).Where("name = ?", r.Name).Count(&cnt)
		if cnt == 0 {
			db.Create(&r)
		}
	}
	// default grants for the staff role
	var staff models.Role
	if err := db.Preload("Permissions").Where("name = ?", "staff").First(&staff).Error; err == nil && len(staff.Permissions) == 0 {
		var perms []models.Permission
		db.Where("code IN ?", []string{rbac.PermCheckout, rbac.PermOrderManagement}).Find(&perms)
		db.Model(&staff).Association("Permissions").Append(perms)
	}
}

func seedSettings() {
	defaults := map[string]string{
		settingSingleDeviceLogin:    "false",
		settingTokenRotationEnabled: "true",
	}
	for k, v := range defaults {
		var cnt int64
		db.Model(&models.Setting{}).Where("key = ?", k).Count(&cnt)
		if cnt == 0 {
			db.Create(&models.Setting{Key: k, Value: v})
		}
	}
}

func seedAdminUser() {
	var count int64
	db.Model(&models.User{}).Where("email = ?", "admin@example.com").Count(&count)
	if count != 0 {
		return
	}
	var role models.Role
	if err := db.Where("name = ?", rbac.AdminRole).First(&role).Error; err != nil {
		log.Printf("failed to find admin role: %v", err)
		return
	}
	hashed, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	rid := role.ID
	admin := models.User{
		Email:        "admin@example.com",
		Name:         "Administrator",
		PasswordHash: hashed,
		IsActive:     true,
		RoleID:       &rid,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("failed to seed admin user: %v", err)
		return
	}
	log.Println("Seeded admin user: email=admin@example.com, password=admin123")
}
