package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var envKeyReplacer = strings.NewReplacer(".", "_")

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	// Driver is "postgres" or "sqlite". Postgres takes a DSN, sqlite a file path.
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	Path   string `mapstructure:"path"`
}

type JWTConfig struct {
	AccessSecret      string `mapstructure:"access_secret"`
	RefreshSecret     string `mapstructure:"refresh_secret"`
	AccessTTLSeconds  int    `mapstructure:"access_ttl_seconds"`
	RefreshTTLSeconds int    `mapstructure:"refresh_ttl_seconds"`
}

func (j JWTConfig) AccessTTL() time.Duration  { return time.Duration(j.AccessTTLSeconds) * time.Second }
func (j JWTConfig) RefreshTTL() time.Duration { return time.Duration(j.RefreshTTLSeconds) * time.Second }

type CookieConfig struct {
	Domain string `mapstructure:"domain"`
	Secure bool   `mapstructure:"secure"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Cookie   CookieConfig   `mapstructure:"cookie"`
	Log      LogConfig      `mapstructure:"log"`
}

// loadConfig reads config.yaml (or the given file) with POS_* env overrides,
// e.g. POS_JWT_ACCESS_SECRET.
func loadConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.addr", ":8081")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "data/pos.db")
	v.SetDefault("jwt.access_ttl_seconds", 900)
	v.SetDefault("jwt.refresh_ttl_seconds", 604800)
	v.SetDefault("cookie.secure", false)
	v.SetDefault("log.level", "info")

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("POS")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// a missing file is fine, defaults + env carry a dev setup
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.JWT.AccessSecret == "" {
		cfg.JWT.AccessSecret = "dev-insecure-access-secret-change" // development fallback
	}
	if cfg.JWT.RefreshSecret == "" {
		cfg.JWT.RefreshSecret = "dev-insecure-refresh-secret-change"
	}
	return &cfg, nil
}
