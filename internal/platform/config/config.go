package config

import (
	"os"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr          string
	DatabaseURL   string
	RedisURL      string
	JWTSigningKey string
}

// SubmitTimeout bounds a single review submission transaction.
var SubmitTimeout = 5 * time.Second

// FromEnv builds a Server config from environment variables so main stays
// lean. Empty DatabaseURL/RedisURL select the in-memory backends.
func FromEnv() Server {
	addr := os.Getenv("KEQUITY_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default - must be overridden in production.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Server{
		Addr:          addr,
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisURL:      os.Getenv("REDIS_URL"),
		JWTSigningKey: jwtSigningKey,
	}
}
