package jwt

import (
	"testing"
	"time"

	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(now time.Time) *JWTService {
	s := NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 24 * time.Hour,
	})
	s.now = func() time.Time { return now }
	return s
}

func TestGenerateAndValidate(t *testing.T) {
	now := time.Now()
	s := newTestService(now)
	userID := uuid.New()

	token, tokenID, err := s.GenerateAccessToken(userID, "admin@shefaa.test")
	require.NoError(t, err)
	assert.NotEmpty(t, tokenID)

	claims, err := s.ValidateTokenOfType(token, AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "admin@shefaa.test", claims.Email)
	assert.Equal(t, tokenID, claims.TokenID)
	assert.Equal(t, issuer, claims.Issuer)
}

func TestTokenIDsAreUnique(t *testing.T) {
	s := newTestService(time.Now())
	userID := uuid.New()

	_, first, err := s.GenerateAccessToken(userID, "a@shefaa.test")
	require.NoError(t, err)
	_, second, err := s.GenerateAccessToken(userID, "a@shefaa.test")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestValidateTokenOfTypeRejectsOtherType(t *testing.T) {
	s := newTestService(time.Now())

	refresh, _, err := s.GenerateRefreshToken(uuid.New(), "a@shefaa.test")
	require.NoError(t, err)

	_, err = s.ValidateTokenOfType(refresh, AccessToken)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	_, err = s.ValidateTokenOfType(refresh, RefreshToken)
	assert.NoError(t, err)
}

func TestValidateExpiredToken(t *testing.T) {
	issued := time.Now()
	s := newTestService(issued)

	token, _, err := s.GenerateAccessToken(uuid.New(), "a@shefaa.test")
	require.NoError(t, err)

	s.now = func() time.Time { return issued.Add(16 * time.Minute) }
	_, err = s.ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestValidateTokenWithWrongSecret(t *testing.T) {
	s := newTestService(time.Now())
	token, _, err := s.GenerateAccessToken(uuid.New(), "a@shefaa.test")
	require.NoError(t, err)

	other := newTestService(time.Now())
	other.config.Secret = "another-secret"

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrSignatureInvalid)

	_, err = s.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestExpiries(t *testing.T) {
	s := newTestService(time.Now())

	assert.Equal(t, 15*time.Minute, s.GetAccessExpiry())
	assert.Equal(t, 24*time.Hour, s.GetRefreshExpiry())
}
