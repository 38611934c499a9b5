package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultMaxUploadSize int64 = 100 * 1024 * 1024 // 100 MB
	defaultUploadsPath         = "./uploads"
	defaultSQLitePath          = "./guitar-harmony.db"
	defaultAuthPassword        = "guitar123"

	// Development fallback only; override SESSION_SECRET in production.
	defaultSessionSecret = "guitar-harmony-dev-session-secret-0000"
)

type Config struct {
	Port string

	// DBDriver selects the persistence backend: "sqlite" or "postgres".
	DBDriver   string
	SQLitePath string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// StorageBackend selects blob storage: "local" or "cloudinary".
	StorageBackend string
	UploadsPath    string
	CloudinaryURL  string
	MaxUploadBytes int64

	AuthPassword  string
	SessionSecret string
	AllowedOrigin string
}

// Load reads .env (when present) and resolves the full configuration from the
// environment with defaults suitable for local development.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		Port: getEnvOrDefault("PORT", "8080"),

		DBDriver:   getEnvOrDefault("DB_DRIVER", "sqlite"),
		SQLitePath: getEnvOrDefault("SQLITE_PATH", defaultSQLitePath),
		DBHost:     getEnvOrDefault("DB_HOST", "localhost"),
		DBPort:     getEnvOrDefault("DB_PORT", "5432"),
		DBUser:     getEnvOrDefault("DB_USER", "postgres"),
		DBPassword: getEnvOrDefault("DB_PASSWORD", "password"),
		DBName:     getEnvOrDefault("DB_NAME", "guitar_harmony"),
		DBSSLMode:  getEnvOrDefault("DB_SSLMODE", "disable"),

		StorageBackend: getEnvOrDefault("STORAGE_BACKEND", "local"),
		UploadsPath:    getEnvOrDefault("UPLOADS_PATH", defaultUploadsPath),
		CloudinaryURL:  strings.TrimSpace(os.Getenv("CLOUDINARY_URL")),
		MaxUploadBytes: getPositiveInt64OrDefault("MAX_UPLOAD_SIZE_BYTES", defaultMaxUploadSize),

		AuthPassword:  getEnvOrDefault("AUTH_PASSWORD", defaultAuthPassword),
		SessionSecret: getEnvOrDefault("SESSION_SECRET", defaultSessionSecret),
		AllowedOrigin: getEnvOrDefault("ALLOWED_ORIGIN", "*"),
	}
}

// getEnvOrDefault returns the value of an environment variable or a default value.
func getEnvOrDefault(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value != "" {
		return value
	}
	return defaultValue
}

func getPositiveInt64OrDefault(key string, defaultValue int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}

	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		log.Printf("Invalid %s=%q, using default %d", key, raw, defaultValue)
		return defaultValue
	}

	return value
}
