package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

type S3Config struct {
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Enabled reports whether an SMTP provider is configured; without one the
// console mailer fallback is used.
func (c SMTPConfig) Enabled() bool {
	return c.Host != ""
}

type StorageConfig struct {
	Type      string
	UploadDir string
	S3        S3Config
}

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	DatabaseURL string
	RedisURL    string

	JWTSecret string
	JWTTTL    time.Duration
	OTPTTL    time.Duration

	CORSOrigins  []string
	KafkaBrokers []string

	Storage StorageConfig
	SMTP    SMTPConfig
}

// LoadConfig reads configuration from the environment (a .env file is loaded
// first when present). Missing required secrets are a startup error: the
// process refuses to run without them.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		JWTTTL:      time.Duration(getEnvInt("JWT_TTL_HOURS", 24)) * time.Hour,
		OTPTTL:      time.Duration(getEnvInt("OTP_TTL_MINUTES", 10)) * time.Minute,
		CORSOrigins: splitList(os.Getenv("CORS_ORIGINS")),
		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
		Storage: StorageConfig{
			Type:      getEnv("STORAGE_TYPE", StorageLocal),
			UploadDir: getEnv("UPLOAD_DIR", "./uploads"),
			S3: S3Config{
				Bucket:          os.Getenv("S3_BUCKET"),
				Region:          os.Getenv("S3_REGION"),
				AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
				SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
			},
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnvInt("SMTP_PORT", 587),
			User:     os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
		},
	}

	var missing []string
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	switch cfg.Storage.Type {
	case StorageLocal:
	case StorageS3:
		if cfg.Storage.S3.Bucket == "" || cfg.Storage.S3.Region == "" {
			return nil, fmt.Errorf("STORAGE_TYPE=s3 requires S3_BUCKET and S3_REGION")
		}
	default:
		return nil, fmt.Errorf("invalid STORAGE_TYPE %q (expected %q or %q)", cfg.Storage.Type, StorageLocal, StorageS3)
	}

	return cfg, nil
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

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
