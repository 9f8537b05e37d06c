package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"gopos/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	if len(os.Args) < 4 {
		fmt.Println("usage: go run ./cmd/create_user <email> <name> <password> [role]")
		os.Exit(2)
	}
	email := os.Args[1]
	name := os.Args[2]
	password := os.Args[3]
	roleName := "staff"
	if len(os.Args) > 4 {
		roleName = os.Args[4]
	}

	var dialector gorm.Dialector
	if dsn := strings.TrimSpace(os.Getenv("POS_DATABASE_DSN")); dsn != "" {
		dialector = postgres.Open(dsn)
	} else if path := strings.TrimSpace(os.Getenv("POS_DATABASE_PATH")); path != "" {
		dialector = sqlite.Open(path)
	} else {
		log.Fatal("set POS_DATABASE_DSN (postgres) or POS_DATABASE_PATH (sqlite)")
	}
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}

	var role models.Role
	if err := db.Where("name = ?", roleName).First(&role).Error; err != nil {
		log.Fatalf("role %q not found (run the server or `gopos migrate` first)", roleName)
	}

	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		fmt.Printf("user %s already exists (id=%d)\n", email, existing.ID)
		os.Exit(0)
	}

	hpw, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("bcrypt failed: %v", err)
	}
	rid := role.ID
	user := models.User{Email: email, Name: name, PasswordHash: hpw, IsActive: true, RoleID: &rid}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("failed to create user: %v", err)
	}
	fmt.Printf("created user %s id=%d role=%s\n", email, user.ID, role.Name)
}
