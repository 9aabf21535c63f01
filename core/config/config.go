package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Config holds all application configuration in a structured way.
type Config struct {
	App       AppConfig
	Paths     PathsConfig
	Database  DatabaseConfig
	Mail      MailConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Version            string
	Port               string
	Debug              bool
	Environment        string
	BasicAuth          []string
	BasePath           string
	TrustedProxies     []string
	BaseUrl            string
	CorsAllowedOrigins []string
	DefaultLocale      string // "ko" or "en"
}

type PathsConfig struct {
	BaseDir  string
	Storages string
}

type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            int
	User            string
	Password        string
	Name            string // File path for SQLite, DB name for Postgres
	ValkeyAddress   string
	ValkeyPassword  string
	ValkeyDB        int
	ValkeyKeyPrefix string
}

type MailConfig struct {
	Enabled      bool
	Host         string
	Port         int
	Username     string
	Password     string
	From         string
	ContactInbox string
}

type RateLimitConfig struct {
	DefaultMax int // requests per window for read-class endpoints
	SaveMax    int // requests per window for save-class endpoints
	WindowSecs int
}

// Global provides access to the loaded configuration globally.
var Global *Config

// LoadConfig loads configuration from environment variables or defaults.
func LoadConfig() (*Config, error) {
	baseDir := getEnv("APP_BASE_DIR", "storages")

	var basicAuth []string
	if v := getEnv("APP_BASIC_AUTH", ""); v != "" {
		basicAuth = strings.Split(v, ",")
	}

	corsOrigins := []string{"http://localhost:3000", "http://localhost:5173"}
	if v := getEnv("APP_CORS_ALLOWED_ORIGINS", ""); v != "" {
		corsOrigins = strings.Split(v, ",")
	}

	appCfg := AppConfig{
		Version:            "v1.4.0",
		Port:               getEnv("APP_PORT", "3000"),
		Debug:              getEnvBool("APP_DEBUG", false),
		Environment:        getEnv("APP_ENV", "development"),
		BasicAuth:          basicAuth,
		BasePath:           getEnv("APP_BASE_PATH", ""),
		BaseUrl:            getEnv("APP_BASE_URL", "http://localhost:3000"),
		CorsAllowedOrigins: corsOrigins,
		DefaultLocale:      getEnv("APP_DEFAULT_LOCALE", "ko"),
	}
	if v := getEnv("APP_TRUSTED_PROXIES", ""); v != "" {
		appCfg.TrustedProxies = strings.Split(v, ",")
	}

	pathsCfg := PathsConfig{
		BaseDir:  baseDir,
		Storages: baseDir,
	}

	dbCfg := DatabaseConfig{
		Driver:          getEnv("DB_DRIVER", "sqlite"),
		Name:            getEnv("DB_NAME", filepath.Join(pathsCfg.Storages, "daeho.db")),
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            getEnvInt("DB_PORT", 5432),
		User:            getEnv("DB_USER", "postgres"),
		Password:        getEnv("DB_PASSWORD", ""),
		ValkeyAddress:   getEnv("VALKEY_ADDRESS", "localhost:6379"),
		ValkeyPassword:  getEnv("VALKEY_PASSWORD", ""),
		ValkeyDB:        getEnvInt("VALKEY_DB", 0),
		ValkeyKeyPrefix: getEnv("VALKEY_KEY_PREFIX", "daeho:"),
	}

	mailCfg := MailConfig{
		Enabled:      getEnvBool("MAIL_ENABLED", false),
		Host:         getEnv("MAIL_HOST", "localhost"),
		Port:         getEnvInt("MAIL_PORT", 587),
		Username:     getEnv("MAIL_USERNAME", ""),
		Password:     getEnv("MAIL_PASSWORD", ""),
		From:         getEnv("MAIL_FROM", "no-reply@daehomaterials.co.kr"),
		ContactInbox: getEnv("MAIL_CONTACT_INBOX", "contact@daehomaterials.co.kr"),
	}

	rlCfg := RateLimitConfig{
		DefaultMax: getEnvInt("RATE_LIMIT_DEFAULT_MAX", 30),
		SaveMax:    getEnvInt("RATE_LIMIT_SAVE_MAX", 10),
		WindowSecs: getEnvInt("RATE_LIMIT_WINDOW_SECS", 60),
	}

	cfg := &Config{
		App:       appCfg,
		Paths:     pathsCfg,
		Database:  dbCfg,
		Mail:      mailCfg,
		RateLimit: rlCfg,
	}

	if cfg.App.DefaultLocale != "ko" && cfg.App.DefaultLocale != "en" {
		return nil, fmt.Errorf("unsupported default locale: %s", cfg.App.DefaultLocale)
	}

	Global = cfg
	return cfg, nil
}
