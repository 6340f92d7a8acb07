package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"campfire/internal/pkg"
)

type Config struct {
	HTTPAddr string

	MySQLDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AccessSecret  string
	RefreshSecret string

	SMTP pkg.SMTPConfig

	KafkaBrokers []string
	KafkaTopic   string
	KafkaAsync   bool
}

// Load reads .env when present, then the process environment. Missing keys
// fall back to development defaults; secrets must be set in production.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),

		MySQLDSN: getEnv("MYSQL_DSN", "user:password@tcp(127.0.0.1:3306)/campfire?charset=utf8mb4&parseTime=True"),

		RedisAddr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		AccessSecret:  getEnv("JWT_ACCESS_SECRET", "dev-access-secret"),
		RefreshSecret: getEnv("JWT_REFRESH_SECRET", "dev-refresh-secret"),

		SMTP: pkg.SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "Campfire <no-reply@campfire.local>"),
		},

		KafkaBrokers: splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "campfire.notifications.push"),
		KafkaAsync:   getEnvBool("KAFKA_ASYNC", false),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
