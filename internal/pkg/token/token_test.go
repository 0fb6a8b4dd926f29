//go:build unit

package token_test

import (
	"testing"
	"time"

	"crs-booking-engine/internal/pkg/token"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := token.NewService("secret", 10*time.Minute)
	sessionID := uuid.New()

	signed, err := svc.Issue(sessionID)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	parsed, err := svc.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, sessionID, parsed)
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	signed, err := token.NewService("secret-a", 10*time.Minute).Issue(uuid.New())
	require.NoError(t, err)

	_, err = token.NewService("secret-b", 10*time.Minute).Parse(signed)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestTokenRejectsExpired(t *testing.T) {
	svc := token.NewService("secret", -time.Minute)
	signed, err := svc.Issue(uuid.New())
	require.NoError(t, err)

	_, err = svc.Parse(signed)
	assert.ErrorIs(t, err, token.ErrExpiredToken)
}

func TestTokenRejectsGarbage(t *testing.T) {
	svc := token.NewService("secret", 10*time.Minute)
	_, err := svc.Parse("not-a-token")
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}
