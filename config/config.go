package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultMatchdays      = 8
	DefaultServerPort     = 8080
	DefaultDebounce       = 600 * time.Millisecond
	DefaultTokenTTL       = 12 * time.Hour
	DefaultLoginPerMinute = 5
)

// R2Config is optional: logo uploads are disabled when AccountID is empty.
type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicBaseURL   string
}

func (c R2Config) Enabled() bool {
	return c.AccountID != ""
}

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL   string
	JWTSecretKey  string
	AdminCodeHash string
	ServerPort    int

	CORSOrigins    []string
	Matchdays      int
	Debounce       time.Duration
	TokenTTL       time.Duration
	LoginPerMinute int
	LogLevel       string

	R2 R2Config
}

// Load reads the configuration from the environment, loading a .env file
// first when one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// DatabaseURL reads only DATABASE_URL, for tools that do not serve HTTP.
func DatabaseURL() (string, error) {
	_ = godotenv.Load()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return "", fmt.Errorf("DATABASE_URL environment variable is not set")
	}
	return dsn, nil
}

// SlogLevel maps LOG_LEVEL onto a slog level. Unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// FromEnv builds a Config from getenv and validates it.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		DatabaseURL:   getenv("DATABASE_URL"),
		JWTSecretKey:  getenv("JWT_SECRET_KEY"),
		AdminCodeHash: getenv("ADMIN_CODE_HASH"),
		LogLevel:      strings.ToLower(getenv("LOG_LEVEL")),
		R2: R2Config{
			AccountID:       getenv("R2_ACCOUNT_ID"),
			AccessKeyID:     getenv("R2_ACCESS_KEY_ID"),
			SecretAccessKey: getenv("R2_SECRET_ACCESS_KEY"),
			BucketName:      getenv("R2_BUCKET_NAME"),
			PublicBaseURL:   getenv("R2_PUBLIC_BASE_URL"),
		},
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}
	if cfg.JWTSecretKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}
	if cfg.AdminCodeHash == "" {
		return nil, fmt.Errorf("ADMIN_CODE_HASH environment variable is not set")
	}

	var err error
	if cfg.ServerPort, err = intVar(getenv, "SERVER_PORT", DefaultServerPort); err != nil {
		return nil, err
	}
	if cfg.ServerPort <= 0 || cfg.ServerPort > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", cfg.ServerPort)
	}
	if cfg.Matchdays, err = intVar(getenv, "LEAGUE_MATCHDAYS", DefaultMatchdays); err != nil {
		return nil, err
	}
	if cfg.Matchdays <= 0 {
		return nil, fmt.Errorf("LEAGUE_MATCHDAYS must be positive, got %d", cfg.Matchdays)
	}
	if cfg.LoginPerMinute, err = intVar(getenv, "LOGIN_RATE_PER_MINUTE", DefaultLoginPerMinute); err != nil {
		return nil, err
	}
	if cfg.Debounce, err = durationVar(getenv, "REFRESH_DEBOUNCE", DefaultDebounce); err != nil {
		return nil, err
	}
	if cfg.TokenTTL, err = durationVar(getenv, "ADMIN_TOKEN_TTL", DefaultTokenTTL); err != nil {
		return nil, err
	}

	cfg.CORSOrigins = []string{"*"}
	if raw := getenv("CORS_ALLOWED_ORIGINS"); raw != "" {
		cfg.CORSOrigins = cfg.CORSOrigins[:0]
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	if cfg.R2.Enabled() && (cfg.R2.AccessKeyID == "" || cfg.R2.SecretAccessKey == "" || cfg.R2.BucketName == "" || cfg.R2.PublicBaseURL == "") {
		return nil, fmt.Errorf("R2_ACCOUNT_ID is set but the rest of the R2 configuration is incomplete")
	}

	return cfg, nil
}

func intVar(getenv func(string) string, key string, def int) (int, error) {
	raw := getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return v, nil
}

func durationVar(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	raw := getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, v)
	}
	return v, nil
}
