package auth

import (
	"testing"

	"github.com/stretchr/testify/require"

	"giftmarket-bot/internal/models"
)

func TestGuardRequire(t *testing.T) {
	g := NewGuard(42)

	require.NoError(t, g.Require(42))
	require.ErrorIs(t, g.Require(7), models.ErrUnauthorized)
	require.True(t, g.IsAdmin(42))
	require.False(t, g.IsAdmin(7))
}

func TestGuardZeroAdminDeniesEveryone(t *testing.T) {
	g := NewGuard(0)

	require.ErrorIs(t, g.Require(0), models.ErrUnauthorized)
	require.ErrorIs(t, g.Require(42), models.ErrUnauthorized)
}
