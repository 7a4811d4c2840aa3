package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{
		"SERVICE_NAME", "SERVER_PORT", "LOG_LEVEL", "DB_DRIVER", "DATABASE_URL",
		"SESSION_SECRET", "SESSION_TTL", "SESSION_STORE", "REDIS_URL", "COOKIE_SECURE",
		"KAFKA_BROKERS", "CSRF_ENABLED", "CART_VIEW_LEGACY_STATUS", "LOGIN_RATE_LIMIT",
	} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, "shop-api", cfg.ServiceName)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "ecommerce.db", cfg.DatabaseURL)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "db", cfg.SessionStore)
	assert.True(t, cfg.CookieSecure)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.CSRFEnabled)
	assert.False(t, cfg.CartViewLegacyStatus)
	assert.Equal(t, 5, cfg.LoginRateLimit)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/shop")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("COOKIE_SECURE", "false")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("CART_VIEW_LEGACY_STATUS", "true")

	cfg := Load()

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "postgres://u:p@db:5432/shop", cfg.DatabaseURL)
	assert.Equal(t, []byte("s3cret"), cfg.SessionSecret)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.CartViewLegacyStatus)
}

func TestEnvHelpers_FallBackOnGarbage(t *testing.T) {
	t.Setenv("X_INT", "nope")
	t.Setenv("X_BOOL", "maybe")
	t.Setenv("X_DUR", "-5s")

	assert.Equal(t, 3, EnvIntDefault("X_INT", 3))
	assert.True(t, EnvBoolDefault("X_BOOL", true))
	assert.Equal(t, time.Second, EnvDurationDefault("X_DUR", time.Second))
}
