package jwt

import (
	"testing"
	"time"

	"medimarket/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService(config.AuthConfig{Secret: "provider-secret", Issuer: "https://id.example.com"})

	token, err := svc.Sign(Claims{
		Email:            "ana@example.com",
		GivenName:        " Ana ",
		FamilyName:       "Silva",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "kp_123"},
	}, time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "kp_123", claims.Subject)
	assert.Equal(t, "Ana Silva", claims.FullName())
	assert.NotEmpty(t, claims.ID)
	assert.Greater(t, claims.TTL(), 59*time.Minute)
}

func TestJWTService_RejectsForeignIssuerAndSecret(t *testing.T) {
	trusted := NewJWTService(config.AuthConfig{Secret: "provider-secret", Issuer: "https://id.example.com"})
	otherIssuer := NewJWTService(config.AuthConfig{Secret: "provider-secret", Issuer: "https://evil.example.com"})
	otherSecret := NewJWTService(config.AuthConfig{Secret: "guess", Issuer: "https://id.example.com"})

	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "kp_123"}}

	token, err := otherIssuer.Sign(claims, time.Hour)
	require.NoError(t, err)
	_, err = trusted.ValidateToken(token)
	assert.Error(t, err)

	token, err = otherSecret.Sign(claims, time.Hour)
	require.NoError(t, err)
	_, err = trusted.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsMissingSubjectAndExpired(t *testing.T) {
	svc := NewJWTService(config.AuthConfig{Secret: "provider-secret"})

	token, err := svc.Sign(Claims{Email: "ana@example.com"}, time.Hour)
	require.NoError(t, err)
	_, err = svc.ValidateToken(token)
	assert.Error(t, err)

	token, err = svc.Sign(Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "kp_1"}}, -time.Minute)
	require.NoError(t, err)
	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}
