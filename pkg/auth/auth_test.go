package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateAndValidateAccessToken(t *testing.T) {
	token, err := GenerateAccessToken(7, "alice", testSecret, 30)
	require.NoError(t, err)

	claims, err := ValidateAccessToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, AccessToken, claims.Type)
	assert.NotEmpty(t, claims.ID)
}

func TestTokensHaveUniqueIDs(t *testing.T) {
	a, err := GenerateAccessToken(1, "alice", testSecret, 30)
	require.NoError(t, err)
	b, err := GenerateAccessToken(1, "alice", testSecret, 30)
	require.NoError(t, err)

	ca, err := ValidateAccessToken(a, testSecret)
	require.NoError(t, err)
	cb, err := ValidateAccessToken(b, testSecret)
	require.NoError(t, err)
	assert.NotEqual(t, ca.ID, cb.ID)
}

func TestValidateAccessToken_Rejects(t *testing.T) {
	valid, err := GenerateAccessToken(1, "alice", testSecret, 30)
	require.NoError(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: 1,
		Type:   AccessToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	expiredToken, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)

	wrongType := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: 1,
		Type:   TokenType("refresh"),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	})
	wrongTypeToken, err := wrongType.SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{"wrong_secret", valid, "other-secret"},
		{"garbage", "not-a-token", testSecret},
		{"expired", expiredToken, testSecret},
		{"wrong_type", wrongTypeToken, testSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateAccessToken(tt.token, tt.secret)
			assert.Error(t, err)
		})
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	assert.True(t, CheckPassword("correct horse", hash))
	assert.False(t, CheckPassword("wrong", hash))
}

func TestHashPasswordTooLong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("a", MaxPasswordBytes+1))
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	_, err = HashPassword(strings.Repeat("a", MaxPasswordBytes))
	assert.NoError(t, err)
}
