package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Storage backends for uploaded images. Selected by deployment config,
// never by request content.
const (
	StorageBackendLocal = "local"
	StorageBackendS3    = "s3"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string

	// Image storage
	StorageBackend string // "local" or "s3"
	UploadDir      string // local backend only
	S3Bucket       string

	// SMTP mail delivery
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
}

// LoadConfig creates a new Config instance. Plain settings come from
// environment variables with development defaults; sensitive values fall
// back to Docker secrets under SECRETS_DIR when the variable is unset.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		ServerHost: getEnv("SERVER_HOST", "0.0.0.0"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnvOrSecret("DB_USER", "db_user", "postgres"),
		DBPassword: getEnvOrSecret("DB_PASSWORD", "db_password", "postgres"),
		DBName:     getEnv("DB_NAME", "plateful"),
		DBSSLMode:  getEnv("DB_SSL_MODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnvOrSecret("REDIS_PASSWORD", "redis_password", ""),
		RedisDB:       0,
		RedisURL:      getEnv("REDIS_URL", "redis://localhost:6379"),

		JWTSecret: getEnvOrSecret("JWT_SECRET", "jwt_secret", "your-secret-key"),

		StorageBackend: getEnv("STORAGE_BACKEND", StorageBackendLocal),
		UploadDir:      getEnv("UPLOAD_DIR", "./uploads"),
		S3Bucket:       getEnv("S3_BUCKET_NAME", "plateful-recipe-images"),

		SMTPHost:     getEnvOrSecret("SMTP_HOST", "smtp_host", ""),
		SMTPPort:     getEnvOrSecret("SMTP_PORT", "smtp_port", "587"),
		SMTPUsername: getEnvOrSecret("SMTP_USERNAME", "smtp_username", ""),
		SMTPPassword: getEnvOrSecret("SMTP_PASSWORD", "smtp_password", ""),
		FromEmail:    getEnv("EMAIL_FROM", "no-reply@plateful.app"),
		FromName:     getEnv("EMAIL_FROM_NAME", "Plateful"),
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvOrSecret(key, secret, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if v := readSecret(secret); v != "" {
		return v
	}
	return fallback
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
