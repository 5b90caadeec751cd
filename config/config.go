package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// StorageBackend selects where the league snapshot is persisted.
const (
	StorageBackendFile     = "file"
	StorageBackendPostgres = "postgres"
	StorageBackendRedis    = "redis"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	ServerPort     int
	AllowedOrigins []string

	AdminPassword string
	JWTSecretKey  string

	StorageBackend string
	DataDir        string // file backend
	DatabaseURL    string // postgres backend
	RedisURL       string // redis backend

	// Cloudflare R2, optional: uploads stay disabled when unset.
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string

	// GitHub sync, optional: remote synchronization stays disabled when the
	// repository coordinates are unset.
	GitHubOwner      string
	GitHubRepo       string
	GitHubPath       string
	GitHubBranch     string
	GitHubToken      string
	GitHubRawURL     string
	RelayToken       string
	SyncPushInterval time.Duration
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	_ = godotenv.Load()

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD environment variable is not set")
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	portStr := os.Getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	backend := os.Getenv("STORAGE_BACKEND")
	if backend == "" {
		backend = StorageBackendFile
	}
	cfg := &Config{
		ServerPort:     port,
		AllowedOrigins: splitList(getEnvOrDefault("ALLOWED_ORIGINS", "*")),
		AdminPassword:  adminPassword,
		JWTSecretKey:   jwtKey,
		StorageBackend: backend,
		DataDir:        getEnvOrDefault("DATA_DIR", "league-data"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),

		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),

		GitHubOwner:  os.Getenv("GITHUB_OWNER"),
		GitHubRepo:   os.Getenv("GITHUB_REPO"),
		GitHubPath:   getEnvOrDefault("GITHUB_PATH", "data/league.json"),
		GitHubBranch: getEnvOrDefault("GITHUB_BRANCH", "main"),
		GitHubToken:  os.Getenv("GITHUB_TOKEN"),
		GitHubRawURL: os.Getenv("GITHUB_RAW_URL"),
		RelayToken:   os.Getenv("RELAY_TOKEN"),
	}

	switch cfg.StorageBackend {
	case StorageBackendFile:
	case StorageBackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when STORAGE_BACKEND=postgres")
		}
	case StorageBackendRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("REDIS_URL is required when STORAGE_BACKEND=redis")
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}

	if intervalStr := os.Getenv("SYNC_PUSH_INTERVAL"); intervalStr != "" {
		interval, err := time.ParseDuration(intervalStr)
		if err != nil {
			return nil, fmt.Errorf("invalid SYNC_PUSH_INTERVAL environment variable: %w", err)
		}
		cfg.SyncPushInterval = interval
	}

	return cfg, nil
}

// R2Configured reports whether all Cloudflare R2 settings are present.
func (c *Config) R2Configured() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" &&
		c.R2BucketName != "" && c.R2PublicBaseURL != ""
}

// GitHubConfigured reports whether remote sync can be enabled.
func (c *Config) GitHubConfigured() bool {
	return c.GitHubOwner != "" && c.GitHubRepo != "" && c.GitHubPath != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
