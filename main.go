package main

import (
	"fmt"
	"log"
	"os"

	"gopos/pkg/token"

	"github.com/gin-gonic/gin"
)

var (
	cfg      *Config
	codec    *token.Codec
	sessions *SessionStore
	users    *UserStore
)

func main() {
	var err error
	cfg, err = loadConfig(os.Getenv("POS_CONFIG"))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger = newLogger(cfg.Log.Level)

	codec = token.NewCodec(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTTL(), cfg.JWT.RefreshTTL())

	// Support a lightweight migrate command: `./gopos migrate`
	// It runs AutoMigrate and seeding then exits. Useful for CI or manual DB setup.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := initDB(cfg.Database); err != nil {
			log.Fatalf("init database: %v", err)
		}
		fmt.Println("migration and seeding completed")
		return
	}

	if err := initDB(cfg.Database); err != nil {
		log.Fatalf("init database: %v", err)
	}
	sessions = NewSessionStore(db)
	users = NewUserStore(db)

	initMetrics()

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(requestID(), requestLogger(), gin.Recovery(), metricsMiddleware())
	setupRoutes(r)

	logger.Info("server starting", "addr", cfg.Server.Addr)
	if err := r.Run(cfg.Server.Addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
