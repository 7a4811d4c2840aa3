package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	DBDriver    string
	DatabaseURL string

	SessionSecret []byte
	SessionTTL    time.Duration
	SessionStore  string
	RedisURL      string
	CookieSecure  bool

	KafkaBrokers []string

	CSRFEnabled          bool
	CartViewLegacyStatus bool
	LoginRateLimit       int
}

// Load reads .env when present and then the process environment.
func Load() Config {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		log.Printf("notice: cannot read .env: %v", err)
	}

	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "shop-api"),
		ServerPort:  EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		DBDriver:    EnvDefault("DB_DRIVER", "sqlite"),
		DatabaseURL: EnvDefault("DATABASE_URL", "ecommerce.db"),

		SessionSecret: []byte(os.Getenv("SESSION_SECRET")),
		SessionTTL:    EnvDurationDefault("SESSION_TTL", 7*24*time.Hour),
		SessionStore:  EnvDefault("SESSION_STORE", "db"),
		RedisURL:      os.Getenv("REDIS_URL"),
		CookieSecure:  EnvBoolDefault("COOKIE_SECURE", true),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		CSRFEnabled:          EnvBoolDefault("CSRF_ENABLED", false),
		CartViewLegacyStatus: EnvBoolDefault("CART_VIEW_LEGACY_STATUS", false),
		LoginRateLimit:       EnvIntDefault("LOGIN_RATE_LIMIT", 5),
	}
}
