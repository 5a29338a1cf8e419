package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks the configuration against the requirements of the
// current environment. Development and test tolerate the built-in defaults;
// production must not run on them.
func ValidateConfig(cfg *Config) error {
	var errs []string

	if cfg.StorageBackend != StorageBackendLocal && cfg.StorageBackend != StorageBackendS3 {
		errs = append(errs, fmt.Sprintf("STORAGE_BACKEND must be %q or %q, got %q",
			StorageBackendLocal, StorageBackendS3, cfg.StorageBackend))
	}
	if cfg.StorageBackend == StorageBackendLocal && cfg.UploadDir == "" {
		errs = append(errs, "UPLOAD_DIR is required for local storage")
	}
	if cfg.StorageBackend == StorageBackendS3 && cfg.S3Bucket == "" {
		errs = append(errs, "S3_BUCKET_NAME is required for s3 storage")
	}

	if IsProduction() {
		if cfg.JWTSecret == "" || cfg.JWTSecret == "your-secret-key" {
			errs = append(errs, "jwt_secret must be set in production")
		}
		if cfg.DBPassword == "" || cfg.DBPassword == "postgres" {
			errs = append(errs, "db_password must be set in production")
		}
		if cfg.SMTPHost == "" {
			errs = append(errs, "smtp_host must be set in production")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "\n"))
	}

	return nil
}
