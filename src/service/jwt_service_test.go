package service_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insights-api/src/config"
	"insights-api/src/domain"
	"insights-api/src/service"
)

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:        "test-secret-key",
			JWTExpiresIn:     15 * time.Minute,
			RefreshExpiresIn: 7 * 24 * time.Hour,
			ResetTokenTTL:    time.Hour,
		},
	}
}

func testUser() *domain.User {
	return &domain.User{
		ID:       uuid.New(),
		Email:    "editor@example.com",
		Role:     domain.RoleEditor,
		IsActive: true,
	}
}

func TestJWTService_AccessTokenRoundTrip(t *testing.T) {
	jwtService := service.NewJWTService(testConfig())
	user := testUser()

	token, err := jwtService.GenerateAccessToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := jwtService.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestJWTService_RefreshTokenRoundTrip(t *testing.T) {
	jwtService := service.NewJWTService(testConfig())
	user := testUser()

	token, err := jwtService.GenerateRefreshToken(user)
	require.NoError(t, err)

	claims, err := jwtService.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, "editor", claims.Role)
	assert.Equal(t, "refresh", claims.Type)
}

func TestJWTService_TokenTypeIsEnforced(t *testing.T) {
	jwtService := service.NewJWTService(testConfig())
	user := testUser()

	accessToken, err := jwtService.GenerateAccessToken(user)
	require.NoError(t, err)
	refreshToken, err := jwtService.GenerateRefreshToken(user)
	require.NoError(t, err)

	// a refresh token is not an access token, and vice versa
	_, err = jwtService.ValidateAccessToken(refreshToken)
	assert.Error(t, err)

	_, err = jwtService.ValidateRefreshToken(accessToken)
	assert.Error(t, err)
}

func TestJWTService_RejectsInvalidTokens(t *testing.T) {
	jwtService := service.NewJWTService(testConfig())

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not.a.token"},
		{name: "tampered", token: "eyJhbGciOiJIUzI1NiJ9.eyJmYWtlIjp0cnVlfQ.invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := jwtService.ValidateAccessToken(tt.token)
			assert.Error(t, err)
		})
	}
}

func TestJWTService_RejectsWrongSecret(t *testing.T) {
	user := testUser()

	token, err := service.NewJWTService(testConfig()).GenerateAccessToken(user)
	require.NoError(t, err)

	otherCfg := testConfig()
	otherCfg.Auth.JWTSecret = "a-different-secret"

	_, err = service.NewJWTService(otherCfg).ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.JWTExpiresIn = -time.Minute

	token, err := service.NewJWTService(cfg).GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = service.NewJWTService(cfg).ValidateAccessToken(token)
	assert.Error(t, err)
}
