package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_TYPE", "")
	t.Setenv("GOOGLE_PLACES_API_KEY", "test-key")

	cfg := Load()

	assert.Equal(t, "sqlite", cfg.DatabaseType)
	assert.Equal(t, "company_info.db", cfg.DatabaseURL)
	assert.Equal(t, 30, cfg.JWTAccessTokenExpireMin)
	assert.Equal(t, 10*time.Second, cfg.ProviderTimeout)
	assert.Empty(t, cfg.FetchAllowedUsers)
	require.NoError(t, cfg.Validate())
}

func TestLoadDetectsPostgres(t *testing.T) {
	t.Setenv("DB_TYPE", "")
	t.Setenv("DATABASE_URL", "postgresql://user:pw@localhost:5432/company_info")

	cfg := Load()

	assert.Equal(t, "postgres", cfg.DatabaseType)
	assert.Equal(t, "postgresql://user:pw@localhost:5432/company_info", cfg.DatabaseURL)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"missing api key", Config{DatabaseType: "sqlite", DatabaseURL: "x.db"}, "GOOGLE_PLACES_API_KEY"},
		{"postgres without url", Config{GooglePlacesAPIKey: "k", DatabaseType: "postgres"}, "DATABASE_URL"},
		{"unknown db type", Config{GooglePlacesAPIKey: "k", DatabaseType: "oracle"}, "unsupported DB_TYPE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFetchAllowedUsersList(t *testing.T) {
	t.Setenv("FETCH_ALLOWED_USERS", " alice, bob@example.com ,,")

	cfg := Load()

	assert.Equal(t, []string{"alice", "bob@example.com"}, cfg.FetchAllowedUsers)
}

func TestUsesDefaultSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")
	assert.False(t, Load().UsesDefaultSecret())

	cfg := &Config{JWTSecretKey: defaultJWTSecret}
	assert.True(t, cfg.UsesDefaultSecret())
}
