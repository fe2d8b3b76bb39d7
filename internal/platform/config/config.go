package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr        string
	PostgresDSN string
	Redis       RedisConfig

	RefreshTokenTTL time.Duration
	VerificationTTL time.Duration
	CodeLength      int
}

// RedisConfig tunes the optional Redis connection used for the token
// revocation cache. An empty URL disables it.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr:        envString("TERRANOVA_ADDR", ":8080"),
		PostgresDSN: os.Getenv("TERRANOVA_POSTGRES_DSN"),
		Redis: RedisConfig{
			URL:          os.Getenv("TERRANOVA_REDIS_URL"),
			PoolSize:     envInt("TERRANOVA_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("TERRANOVA_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("TERRANOVA_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("TERRANOVA_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("TERRANOVA_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		RefreshTokenTTL: envDuration("TERRANOVA_REFRESH_TOKEN_TTL", 30*24*time.Hour),
		VerificationTTL: envDuration("TERRANOVA_VERIFICATION_TTL", 15*time.Minute),
		CodeLength:      envInt("TERRANOVA_VERIFICATION_CODE_LENGTH", 6),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
