package config

import (
	"fmt"
	"os"
	"strconv"
)

// DefaultDBName is the default name of the database.
var DefaultDBName = "image_analyzer"

// DefaultPort is the default port to expose the API server.
var DefaultPort = 8080

// Config holds every process-wide setting. It is loaded once in main and
// injected into the components that need it.
type Config struct {
	Port int

	// Postgres connection settings.
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	// Secret used to sign and verify bearer tokens.
	JWTSecret string

	// Path to the Google service account key for the Vision API.
	GoogleCredentials string

	// S3-compatible object storage for uploaded images.
	StorageEndpoint  string
	StorageRegion    string
	StorageAccessKey string
	StorageSecretKey string
	StorageBucket    string
	StoragePublicURL string

	// LogLevel is the level of logging for the application.
	LogLevel string
}

func Load() (*Config, error) {
	cfg := &Config{}

	port, err := strconv.Atoi(getEnvWithDefault("ANALYZER_PORT", strconv.Itoa(DefaultPort)))
	if err != nil {
		return nil, fmt.Errorf("ANALYZER_PORT must be a number: %w", err)
	}
	cfg.Port = port

	cfg.DBHost = getEnvWithDefault("ANALYZER_DB_HOST", "localhost")
	cfg.DBPort = getEnvWithDefault("ANALYZER_DB_PORT", "5432")
	cfg.DBName = getEnvWithDefault("ANALYZER_DB_NAME", DefaultDBName)
	cfg.DBUser = getEnvWithDefault("ANALYZER_DB_USER", "postgres")
	cfg.DBPassword = getEnvWithDefault("ANALYZER_DB_PASS", "")
	cfg.DBSSLMode = getEnvWithDefault("ANALYZER_DB_SSL_MODE", "disable")

	cfg.LogLevel = getEnvWithDefault("ANALYZER_LOG_LEVEL", "info")

	missingEnvErr := func(envVar string) error {
		return fmt.Errorf("%s not found in environment", envVar)
	}

	if cfg.GoogleCredentials = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); cfg.GoogleCredentials == "" {
		return nil, missingEnvErr("GOOGLE_APPLICATION_CREDENTIALS")
	}

	if cfg.JWTSecret = os.Getenv("ANALYZER_JWT_SECRET"); cfg.JWTSecret == "" {
		return nil, missingEnvErr("ANALYZER_JWT_SECRET")
	}

	if cfg.StorageEndpoint = os.Getenv("ANALYZER_STORAGE_ENDPOINT"); cfg.StorageEndpoint == "" {
		return nil, missingEnvErr("ANALYZER_STORAGE_ENDPOINT")
	}

	if cfg.StorageAccessKey = os.Getenv("ANALYZER_STORAGE_ACCESS_KEY"); cfg.StorageAccessKey == "" {
		return nil, missingEnvErr("ANALYZER_STORAGE_ACCESS_KEY")
	}

	if cfg.StorageSecretKey = os.Getenv("ANALYZER_STORAGE_SECRET_KEY"); cfg.StorageSecretKey == "" {
		return nil, missingEnvErr("ANALYZER_STORAGE_SECRET_KEY")
	}

	cfg.StorageRegion = getEnvWithDefault("ANALYZER_STORAGE_REGION", "auto")
	cfg.StorageBucket = getEnvWithDefault("ANALYZER_STORAGE_BUCKET", "image-analyzer")
	cfg.StoragePublicURL = getEnvWithDefault("ANALYZER_STORAGE_PUBLIC_URL", cfg.StorageEndpoint)

	return cfg, nil
}

func getEnvWithDefault(name string, def string) string {
	res, found := os.LookupEnv(name)
	if !found {
		return def
	}
	return res
}
