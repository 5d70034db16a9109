package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

type Config struct {
	// Server
	ServerPort       string
	ServerEnv        string
	LogLevel         string
	CORSAllowOrigins string

	// Database
	DatabaseURL  string
	DatabaseType string // postgres | sqlite

	// JWT
	JWTSecretKey            string
	JWTAccessTokenExpireMin int

	// Google Places
	GooglePlacesAPIKey  string
	GooglePlacesBaseURL string
	ProviderTimeout     time.Duration

	// Access policy: usernames or emails allowed to trigger provider calls.
	// Empty means every active user.
	FetchAllowedUsers []string

	// SigNoz
	SigNozEndpoint string
}

func Load() *Config {
	databaseURL := getEnv("DATABASE_URL", "")

	return &Config{
		// Server
		ServerPort:       getEnv("SERVER_PORT", "8000"),
		ServerEnv:        getEnv("SERVER_ENV", "development"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		CORSAllowOrigins: getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173,http://localhost:3000"),

		// Database - DB_TYPE wins, otherwise detected from DATABASE_URL
		DatabaseType: getDatabaseType(databaseURL),
		DatabaseURL:  getDatabaseURL(databaseURL),

		// JWT
		JWTSecretKey:            getEnv("JWT_SECRET_KEY", defaultJWTSecret),
		JWTAccessTokenExpireMin: getEnvAsInt("JWT_ACCESS_TOKEN_EXPIRE_MINUTES", 30),

		// Google Places
		GooglePlacesAPIKey:  getEnv("GOOGLE_PLACES_API_KEY", ""),
		GooglePlacesBaseURL: getEnv("GOOGLE_PLACES_BASE_URL", "https://maps.googleapis.com/maps/api/place"),
		ProviderTimeout:     time.Duration(getEnvAsInt("GOOGLE_PLACES_TIMEOUT_SECONDS", 10)) * time.Second,

		FetchAllowedUsers: getEnvAsList("FETCH_ALLOWED_USERS"),

		// SigNoz
		SigNozEndpoint: getEnv("SIGNOZ_ENDPOINT", ""),
	}
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	if c.GooglePlacesAPIKey == "" {
		return errors.New("GOOGLE_PLACES_API_KEY must be set in environment variables")
	}
	if c.DatabaseType == "postgres" && c.DatabaseURL == "" {
		return errors.New("DATABASE_URL must be set when using PostgreSQL")
	}
	if c.DatabaseType != "postgres" && c.DatabaseType != "sqlite" {
		return fmt.Errorf("unsupported DB_TYPE %q", c.DatabaseType)
	}
	return nil
}

// UsesDefaultSecret is true when JWT_SECRET_KEY was left unset.
func (c *Config) UsesDefaultSecret() bool {
	return c.JWTSecretKey == defaultJWTSecret
}

func (c *Config) IsDevelopment() bool {
	return c.ServerEnv == "development"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma separated variable, dropping blanks
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getDatabaseType(databaseURL string) string {
	if dbType := os.Getenv("DB_TYPE"); dbType != "" {
		return strings.ToLower(dbType)
	}
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		return "postgres"
	}
	return "sqlite"
}

// getDatabaseURL falls back to a local SQLite file when nothing is configured
func getDatabaseURL(databaseURL string) string {
	if databaseURL != "" {
		return databaseURL
	}
	if getDatabaseType(databaseURL) == "sqlite" {
		return "company_info.db"
	}
	return ""
}
