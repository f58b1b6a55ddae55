package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr     string
	PostgresDSN  string
	RedisAddr    string
	KafkaBrokers []string
	SMTPAddr     string
	SMTPFrom     string
	SMTPUser     string
	SMTPPassword string

	// Auth surface: the signing secret is loaded once here and treated as
	// immutable for the process lifetime. Rotating it invalidates all
	// outstanding tokens.
	JWTSecret        string
	AccessTTL        time.Duration
	RefreshTTL       time.Duration
	ClockSkew        time.Duration
	StrictAuthHeader bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Warn("failed to load .env file, using default values", "error", err)
	}

	cfg := &Config{
		HTTPAddr:     getEnv("HTTP_ADDR", ":8080"),
		PostgresDSN:  getEnv("POSTGRES_DSN", "host=localhost user=postgres password=postgres dbname=courses sslmode=disable"),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers: []string{getEnv("KAFKA_BROKER", "localhost:9092")},
		SMTPAddr:     getEnv("SMTP_ADDR", "localhost:1025"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@campus.local"),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),

		JWTSecret:        getEnv("JWT_SECRET", "supersecret"),
		AccessTTL:        time.Duration(getEnvInt("ACCESS_TTL_SECONDS", 3600)) * time.Second,
		RefreshTTL:       time.Duration(getEnvInt("REFRESH_TTL_SECONDS", 86400)) * time.Second,
		ClockSkew:        time.Duration(getEnvInt("CLOCK_SKEW_SECONDS", 60)) * time.Second,
		StrictAuthHeader: getEnvBool("AUTH_STRICT_HEADER", false),
	}

	slog.Info("config loaded",
		"http_addr", cfg.HTTPAddr,
		"postgres_dsn", cfg.PostgresDSN,
		"redis_addr", cfg.RedisAddr,
		"kafka_brokers", cfg.KafkaBrokers,
		"access_ttl", cfg.AccessTTL,
		"refresh_ttl", cfg.RefreshTTL,
		"clock_skew", cfg.ClockSkew)
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid integer env var, using default", "key", key, "value", v)
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid boolean env var, using default", "key", key, "value", v)
		return fallback
	}
	return b
}
