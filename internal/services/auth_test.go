package services

import (
	"context"
	"strings"
	"testing"

	"github.com/Henryk91/get-company-info/internal/models"
	"github.com/Henryk91/get-company-info/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())
	ctx := context.Background()

	user, err := svc.Register(ctx, &RegisterRequest{Username: "alice", Email: "Alice@Example.com", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "s3cret", user.HashedPassword)

	for _, login := range []string{"alice", "alice@example.com", "ALICE@example.com"} {
		token, err := svc.Login(ctx, &LoginRequest{Username: login, Password: "s3cret"})
		require.NoError(t, err, login)
		assert.Equal(t, auth.TokenTypeBearer, token.TokenType)

		id, err := svc.Authenticate(ctx, token.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID, id.UserID)
		assert.Equal(t, "alice", id.Username)
	}
}

func TestRegister_Validation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "pw"})
	require.NoError(t, err)

	tests := []struct {
		name string
		req  RegisterRequest
		want error
	}{
		{"missing_password", RegisterRequest{Username: "bob", Email: "bob@example.com"}, ErrInvalidInput},
		{"bad_email", RegisterRequest{Username: "bob", Email: "not-an-email", Password: "pw"}, ErrInvalidInput},
		{"password_too_long", RegisterRequest{Username: "bob", Email: "bob@example.com", Password: strings.Repeat("x", 73)}, ErrInvalidInput},
		{"duplicate_username", RegisterRequest{Username: "alice", Email: "other@example.com", Password: "pw"}, ErrUserExists},
		{"duplicate_email", RegisterRequest{Username: "other", Email: "ALICE@example.com", Password: "pw"}, ErrUserExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, &tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLogin_Failures(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())
	ctx := context.Background()

	user, err := svc.Register(ctx, &RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "s3cret"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &LoginRequest{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, &LoginRequest{Username: "nobody", Password: "s3cret"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Update("is_active", false).Error)
	_, err = svc.Login(ctx, &LoginRequest{Username: "alice", Password: "s3cret"})
	assert.ErrorIs(t, err, ErrInactiveUser)
}

func TestAuthenticate_Failures(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	svc := NewAuthService(db, cfg)
	ctx := context.Background()

	user, err := svc.Register(ctx, &RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "s3cret"})
	require.NoError(t, err)
	token, err := svc.Login(ctx, &LoginRequest{Username: "alice", Password: "s3cret"})
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	ghost, err := auth.GenerateAccessToken(9999, "ghost", cfg.JWTSecretKey, 5)
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, ghost)
	assert.ErrorIs(t, err, ErrInvalidToken)

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Update("is_active", false).Error)
	_, err = svc.Authenticate(ctx, token.AccessToken)
	assert.ErrorIs(t, err, ErrInactiveUser)
}

func TestLogin_PrefersUsernameOverEmail(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "alice-pw"})
	require.NoError(t, err)
	other, err := svc.Register(ctx, &RegisterRequest{Username: "alice@example.com", Email: "other@example.com", Password: "other-pw"})
	require.NoError(t, err)

	token, err := svc.Login(ctx, &LoginRequest{Username: "alice@example.com", Password: "other-pw"})
	require.NoError(t, err)

	id, err := svc.Authenticate(ctx, token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, other.ID, id.UserID)
	assert.Equal(t, "alice@example.com", id.Username)
}
