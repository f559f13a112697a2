package shared

import "os"

// AppConfig general application configurations
type AppConfig struct {
	// Storage engine: sqlite (default), postgres or redis
	StorageEngine string
	DatabasePath  string
	DatabaseURL   string
	RedisURL      string

	// Credential digest scheme: pbkdf2 (default) or sha256 for stores
	// populated by the legacy implementation
	CredentialScheme string
	CredentialPepper string

	// Base URL embedded in activation URLs handed back on registration
	BaseURL string

	ServerPort string

	Environment string
}

// GetDefaultConfig returns configuration from the environment with
// development defaults
func GetDefaultConfig() *AppConfig {
	return &AppConfig{
		StorageEngine:    envOr("STORAGE_ENGINE", "sqlite"),
		DatabasePath:     envOr("DATABASE_PATH", "database.db"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		CredentialScheme: envOr("CREDENTIAL_SCHEME", "pbkdf2"),
		CredentialPepper: envOr("CREDENTIAL_PEPPER", "local-dev-pepper"),
		BaseURL:          envOr("BASE_URL", "http://localhost:8080"),
		ServerPort:       envOr("SERVER_PORT", "8080"),
		Environment:      envOr("APP_ENV", "development"),
	}
}

func envOr(key string, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}
