package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the session engine and the
// local auth stub.
type Config struct {
	AuthService AuthServiceConfig
	Store       StoreConfig
	Redis       RedisConfig
	Logger      LoggerConfig
	Stub        StubConfig
}

// AuthServiceConfig points the client at the remote authentication service.
type AuthServiceConfig struct {
	BaseURL               string
	RequestTimeoutSeconds int
}

// StoreBackend selects the credential store implementation.
type StoreBackend string

const (
	StoreBackendFile  StoreBackend = "file"
	StoreBackendRedis StoreBackend = "redis"
)

// StoreConfig controls credential persistence.
type StoreConfig struct {
	Backend  StoreBackend
	FilePath string
	RedisKey string
}

// RedisConfig holds Redis connection values for the redis store backend.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// StubConfig configures the local authentication service stub.
type StubConfig struct {
	Host            string
	Port            string
	JWTSecret       string
	TokenTTLMinutes int
	BcryptCost      int
	PostgresDSN     string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	backend := StoreBackend(getEnv("CREDENTIAL_STORE_BACKEND", string(StoreBackendFile)))
	switch backend {
	case StoreBackendFile, StoreBackendRedis:
	default:
		return nil, fmt.Errorf("invalid CREDENTIAL_STORE_BACKEND: %q", backend)
	}

	cfg := &Config{
		AuthService: AuthServiceConfig{
			BaseURL:               getEnv("AUTH_SERVICE_URL", "http://localhost:8080/api/auth"),
			RequestTimeoutSeconds: getEnvAsInt("AUTH_REQUEST_TIMEOUT_SECONDS", 15),
		},
		Store: StoreConfig{
			Backend:  backend,
			FilePath: getEnv("CREDENTIAL_STORE_PATH", defaultStorePath()),
			RedisKey: getEnv("CREDENTIAL_STORE_REDIS_KEY", "hiredesk:credential"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Stub: StubConfig{
			Host:            getEnv("STUB_HOST", "0.0.0.0"),
			Port:            getEnv("STUB_PORT", "8080"),
			JWTSecret:       getEnv("STUB_JWT_SECRET", "dev-secret"),
			TokenTTLMinutes: getEnvAsInt("STUB_TOKEN_TTL_MINUTES", 10),
			BcryptCost:      getEnvAsInt("STUB_BCRYPT_COST", 12),
			PostgresDSN:     os.Getenv("POSTGRES_DSN"),
		},
	}

	return cfg, nil
}

// Addr returns the stub's HTTP bind address.
func (s StubConfig) Addr() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

// TokenTTL returns the stub token lifetime.
func (s StubConfig) TokenTTL() time.Duration {
	if s.TokenTTLMinutes <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(s.TokenTTLMinutes) * time.Minute
}

// RequestTimeout returns the configured auth call timeout.
func (a AuthServiceConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

func defaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "credential.jwt"
	}
	return filepath.Join(dir, "hiredesk", "credential.jwt")
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
