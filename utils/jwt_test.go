package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serviqo/config"
)

func TestTokenSecretComesFromConfig(t *testing.T) {
	prev := config.AppConfig.JWTSecret
	t.Cleanup(func() { config.AppConfig.JWTSecret = prev })

	config.AppConfig.JWTSecret = "config-secret"
	token, err := GenerateToken("user-1", "customer", time.Hour)
	require.NoError(t, err)

	sub, role, err := ExtractActorFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", sub)
	assert.Equal(t, "customer", role)

	// A token minted under one secret must not validate under another.
	config.AppConfig.JWTSecret = "rotated-secret"
	_, _, err = ExtractActorFromToken(token)
	require.Error(t, err)
}
