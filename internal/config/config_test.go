package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("DB_HOST", "test-host")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("STORE_BACKEND", "bbolt")
	t.Setenv("NOMI_ECHO_API_URL", "https://nomi.example.com/")
	t.Setenv("NOMI_ECHO_TIMEOUT_MS", "1500")

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.False(t, cfg.MinIO.Enabled())
	assert.Equal(t, "bbolt", cfg.Store.Backend)
	assert.Equal(t, "https://nomi.example.com/", cfg.Nomi.APIURL)
	assert.Equal(t, 1500*time.Millisecond, cfg.Nomi.Timeout)
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"STORE_BACKEND", "SELF_SCOPE", "SELF_MINIMUM_AGE", "NOMI_ECHO_TIMEOUT_MS", "RATE_LIMIT_BURST", "DB_CONN_MAX_IDLE_TIME_SEC", "DB_APPLICATION_NAME"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "memory", cfg.Store.Backend)
	assert.Equal(t, 60, cfg.Database.ConnMaxIdleTimeSec)
	assert.Equal(t, "defiquiz", cfg.Database.ApplicationName)
	assert.Equal(t, "defi-quiz-app", cfg.Self.Scope)
	assert.Equal(t, 18, cfg.Self.MinimumAge)
	assert.Equal(t, 30*time.Second, cfg.Nomi.Timeout)
	assert.Equal(t, 5, cfg.RateLimit.Burst)
}

func TestLocation(t *testing.T) {
	cfg := &AppConfig{Timezone: "Not/AZone"}
	assert.Equal(t, time.UTC, cfg.Location())

	cfg.Timezone = "UTC"
	assert.Equal(t, "UTC", cfg.Location().String())
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}

func TestGetEnvDurationMs(t *testing.T) {
	key := "TEST_DURATION_VAR"

	os.Setenv(key, "250")
	assert.Equal(t, 250*time.Millisecond, getEnvDurationMs(key, time.Second))

	os.Setenv(key, "-5")
	assert.Equal(t, time.Second, getEnvDurationMs(key, time.Second))

	os.Unsetenv(key)
	assert.Equal(t, time.Second, getEnvDurationMs(key, time.Second))
}

func TestStoreBackendConfig(t *testing.T) {
	assert.JSONEq(t, `{}`, string(StoreConfig{Backend: "memory"}.BackendConfig()))
	assert.JSONEq(t, `{"url":"redis://cache:6379/0"}`, string(StoreConfig{Backend: "valkey", ValkeyURL: "redis://cache:6379/0"}.BackendConfig()))
	assert.JSONEq(t, `{"path":"data/quiz.db"}`, string(StoreConfig{Backend: "bbolt", BboltPath: "data/quiz.db"}.BackendConfig()))
}
