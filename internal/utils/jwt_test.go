package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("secret", "op-7", RoleAdmin, time.Hour)
	require.NoError(t, err)

	op, err := ParseToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, Operator{ID: "op-7", Role: RoleAdmin}, op)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken("secret", "op-7", RoleAdmin, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken("other", token)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := GenerateToken("secret", "op-7", RoleAdmin, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken("secret", token)
	assert.Error(t, err)
}

func TestParseTokenRejectsCustomerRole(t *testing.T) {
	token, err := GenerateToken("secret", "user-1", "customer", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken("secret", token)
	assert.ErrorIs(t, err, ErrNotOperator)
}
