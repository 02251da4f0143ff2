package config

import (
	"os"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	Port       string
	DSN        string
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
	// ExposeErrors includes raw DB/driver error text in 500 bodies.
	// Keep off outside local development.
	ExposeErrors bool
}

func Load() Config {
	cfg := Config{
		Port:         getEnv("PORT", "5000"),
		DSN:          os.Getenv("DSN"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		TokenTTL:     24 * time.Hour,
		BcryptCost:   bcrypt.DefaultCost,
		ExposeErrors: os.Getenv("EXPOSE_ERRORS") == "true",
	}

	if ttl := os.Getenv("TOKEN_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			cfg.TokenTTL = d
		}
	}
	if cost := os.Getenv("BCRYPT_COST"); cost != "" {
		if n, err := strconv.Atoi(cost); err == nil {
			cfg.BcryptCost = n
		}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
