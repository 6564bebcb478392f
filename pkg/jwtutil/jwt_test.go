package jwtutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tenancy-service/pkg/config"
)

func TestGenerateAndValidateToken(t *testing.T) {
	Initialize(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1})

	token, err := GenerateToken("alice@example.com", 42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.EqualValues(t, 42, claims.UserID)
	assert.Nil(t, claims.OrganizationID)
}

func TestGenerateTokenWithOrganization(t *testing.T) {
	Initialize(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1})

	organizationID := uint(7)
	token, err := GenerateTokenWithOrganization("alice@example.com", 42, &organizationID, "Acme", []string{"OWNER"})
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	require.NotNil(t, claims.OrganizationID)
	assert.EqualValues(t, 7, *claims.OrganizationID)
	assert.Equal(t, "Acme", claims.OrganizationName)
	assert.Equal(t, []string{"OWNER"}, claims.Roles)
}

func TestValidateToken_WrongKey(t *testing.T) {
	Initialize(&config.JWTConfig{SigningKey: "first-key", ExpirationHours: 1})
	token, err := GenerateToken("alice@example.com", 42)
	require.NoError(t, err)

	Initialize(&config.JWTConfig{SigningKey: "second-key", ExpirationHours: 1})
	_, err = ValidateToken(token)
	assert.Error(t, err)
}
