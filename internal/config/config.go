package config

import (
	"encoding/json"
	"os"
	"strconv"
	"time"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
	ConnMaxIdleTimeSec int
	// ApplicationName is reported to Postgres and tagged on database spans.
	ApplicationName string
	AutoMigrate     bool
}

// MinIOConfig holds object storage settings for MinIO.
// An empty Endpoint disables object storage (the voice cache is skipped).
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Enabled reports whether object storage has been configured.
func (c MinIOConfig) Enabled() bool {
	return c.Endpoint != ""
}

// StoreConfig selects the keyed TTL store used for quiz tokens and the verification cache.
type StoreConfig struct {
	Backend   string
	ValkeyURL string
	BboltPath string
}

// BackendConfig renders the JSON config the selected store backend expects.
func (c StoreConfig) BackendConfig() json.RawMessage {
	var v any
	switch c.Backend {
	case "valkey":
		v = map[string]string{"url": c.ValkeyURL}
	case "bbolt":
		v = map[string]string{"path": c.BboltPath}
	default:
		return json.RawMessage("{}")
	}
	b, _ := json.Marshal(v)
	return b
}

// NomiConfig holds settings for the Nomi Echo upstream.
type NomiConfig struct {
	APIURL  string
	Timeout time.Duration
}

// SelfConfig holds settings for the Self identity verifier boundary.
type SelfConfig struct {
	Scope       string
	VerifierURL string
	UseMock     bool
	MinimumAge  int
	Timeout     time.Duration
}

// RateLimitConfig configures the per-client limiter on write endpoints.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost      string
	Port         string
	Timezone     string
	LogLevel     string
	AdminSecret  string
	SiteURL      string
	ManifestPath string
	Database     DatabaseConfig
	MinIO        MinIOConfig
	Store        StoreConfig
	Nomi         NomiConfig
	Self         SelfConfig
	RateLimit    RateLimitConfig
}

// Location resolves Timezone, falling back to UTC when it is unknown.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:      getEnv("APP_HOST", "localhost:8080"),
		Port:         getEnv("PORT", "8080"),
		Timezone:     getEnv("TZ_NAME", "UTC"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		AdminSecret:  getEnv("ADMIN_SECRET", ""),
		SiteURL:      getEnv("SITE_URL", "http://localhost:8080"),
		ManifestPath: getEnv("FARCASTER_MANIFEST_PATH", "public/.well-known/farcaster.json"),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
			ConnMaxIdleTimeSec: getEnvInt("DB_CONN_MAX_IDLE_TIME_SEC", 60),
			ApplicationName:    getEnv("DB_APPLICATION_NAME", "defiquiz"),
			AutoMigrate:        getEnvBool("DB_AUTO_MIGRATE", true),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Store: StoreConfig{
			Backend:   getEnv("STORE_BACKEND", "memory"),
			ValkeyURL: getEnv("VALKEY_URL", ""),
			BboltPath: getEnv("BBOLT_PATH", "data/quiz.db"),
		},
		Nomi: NomiConfig{
			APIURL:  getEnv("NOMI_ECHO_API_URL", ""),
			Timeout: getEnvDurationMs("NOMI_ECHO_TIMEOUT_MS", 30*time.Second),
		},
		Self: SelfConfig{
			Scope:       getEnv("SELF_SCOPE", "defi-quiz-app"),
			VerifierURL: getEnv("SELF_VERIFIER_URL", ""),
			UseMock:     getEnvBool("SELF_USE_MOCK", false),
			MinimumAge:  getEnvInt("SELF_MINIMUM_AGE", 18),
			Timeout:     getEnvDurationMs("SELF_TIMEOUT_MS", 15*time.Second),
		},
		RateLimit: RateLimitConfig{
			RPS:   getEnvFloat("RATE_LIMIT_RPS", 1),
			Burst: getEnvInt("RATE_LIMIT_BURST", 5),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}

// getEnvDurationMs reads an integer number of milliseconds.
func getEnvDurationMs(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		ms, err := strconv.Atoi(v)
		if err == nil && ms > 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return def
}
