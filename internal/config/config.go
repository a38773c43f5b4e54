package config

import (
	"os"
	"strconv"
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port          string
	DatabaseURL   string // PostgreSQL DSN; empty means local sqlite
	SQLitePath    string
	RedisAddr     string // empty means in-process sessions
	RedisPassword string
	SessionDays   int // lifetime of "remember me" sessions
}

func Load() *Config {
	days, err := strconv.Atoi(getenv("SESSION_DAYS", "30"))
	if err != nil || days <= 0 {
		days = 30
	}
	return &Config{
		Port:          getenv("PORT", "8080"),
		DatabaseURL:   getenv("DATABASE_URL", ""),
		SQLitePath:    getenv("SQLITE_PATH", "todos.db"),
		RedisAddr:     getenv("REDIS_ADDR", ""),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		SessionDays:   days,
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
