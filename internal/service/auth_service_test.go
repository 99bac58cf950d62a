package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/mentor-scheduling-api/internal/models"
	appErrors "github.com/noah-isme/mentor-scheduling-api/pkg/errors"
)

func issueToken(s *AuthService, userID string, role models.UserRole, email string, ttl time.Duration) (string, error) {
	now := s.now().UTC()
	claims := models.JWTClaims{
		UserID: userID,
		Role:   role,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    s.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.AccessTokenSecret))
}

func TestAuthServiceRoundTrip(t *testing.T) {
	svc := NewAuthService(zap.NewNop(), AuthConfig{AccessTokenSecret: "secret", Issuer: "platform"})

	token, err := issueToken(svc, "mentor-1", models.RoleMentor, "m@example.com", time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "mentor-1", claims.UserID)
	assert.Equal(t, models.RoleMentor, claims.Role)
}

func TestAuthServiceRejectsWrongSecretAndIssuer(t *testing.T) {
	issuer := NewAuthService(nil, AuthConfig{AccessTokenSecret: "other", Issuer: "platform"})
	token, err := issueToken(issuer, "u-1", models.RoleStudent, "", time.Hour)
	require.NoError(t, err)

	svc := NewAuthService(nil, AuthConfig{AccessTokenSecret: "secret", Issuer: "platform"})
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	foreign := NewAuthService(nil, AuthConfig{AccessTokenSecret: "secret", Issuer: "elsewhere"})
	token, err = issueToken(foreign, "u-1", models.RoleStudent, "", time.Hour)
	require.NoError(t, err)
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestAuthServiceRejectsExpiredAndUnknownRole(t *testing.T) {
	svc := NewAuthService(nil, AuthConfig{AccessTokenSecret: "secret"})
	expired, err := issueToken(svc, "u-1", models.RoleAdmin, "", -time.Minute)
	require.NoError(t, err)
	_, err = svc.ValidateToken(expired)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	claims := models.JWTClaims{UserID: "u-2", Role: "PARENT", RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(raw)
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
}
