package jwtutil

import (
	"testing"

	"storefront-service/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	j := NewJWTUtil(&config.JWTConfig{SigningKey: "test-key", ExpirationHours: 1})

	token, err := j.GenerateToken(7, "admin", "admin@tienda.com", true)
	require.NoError(t, err)

	claims, err := j.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "admin", claims.Username)
	assert.True(t, claims.IsAdmin())
}

func TestValidateRejectsOtherKey(t *testing.T) {
	issuer := NewJWTUtil(&config.JWTConfig{SigningKey: "one", ExpirationHours: 1})
	verifier := NewJWTUtil(&config.JWTConfig{SigningKey: "two", ExpirationHours: 1})

	token, err := issuer.GenerateToken(1, "staff", "staff@tienda.com", false)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsExpired(t *testing.T) {
	j := NewJWTUtil(&config.JWTConfig{SigningKey: "k", ExpirationHours: -1})

	token, err := j.GenerateToken(1, "staff", "staff@tienda.com", false)
	require.NoError(t, err)

	_, err = j.ValidateToken(token)
	assert.Error(t, err)
}

func TestMissingConfig(t *testing.T) {
	j := NewJWTUtil(nil)
	_, err := j.GenerateToken(1, "a", "b", false)
	assert.Error(t, err)
	_, err = j.ValidateToken("x")
	assert.Error(t, err)
}
