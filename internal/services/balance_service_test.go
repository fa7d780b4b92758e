package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"giftmarket-bot/internal/models"
)

func TestBalanceSumsCommittedCredits(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	require.NoError(t, env.balances.Credit(ctx, 7, decimal.NewFromInt(10)))
	require.NoError(t, env.balances.Credit(ctx, 7, decimal.RequireFromString("5.50")))
	require.NoError(t, env.balances.Credit(ctx, 7, decimal.NewFromInt(-3)))

	bal, err := env.balances.GetBalance(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, "12.50", bal.StringFixed(2))
}

func TestGetBalanceUnknownUserIsZero(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	bal, err := env.balances.GetBalance(ctx, 12345)
	require.NoError(t, err)
	require.True(t, bal.IsZero())
}

func TestApplyReferralCreditsInviterOnce(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	inviter := int64(2)

	credited, err := env.balances.ApplyReferral(ctx, 1, &inviter)
	require.NoError(t, err)
	require.True(t, credited)

	bal, err := env.balances.GetBalance(ctx, inviter)
	require.NoError(t, err)
	require.Equal(t, "2.00", bal.StringFixed(2))
	require.Len(t, env.notifier.users[inviter], 1)

	user, err := env.repos.Users().Get(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, user.ReferredBy)
	require.Equal(t, inviter, *user.ReferredBy)

	// Re-running the start flow must not credit again, with the same or a
	// different inviter.
	credited, err = env.balances.ApplyReferral(ctx, 1, &inviter)
	require.NoError(t, err)
	require.False(t, credited)

	other := int64(3)
	credited, err = env.balances.ApplyReferral(ctx, 1, &other)
	require.NoError(t, err)
	require.False(t, credited)

	bal, err = env.balances.GetBalance(ctx, inviter)
	require.NoError(t, err)
	require.Equal(t, "2.00", bal.StringFixed(2))
}

func TestApplyReferralIgnoresSelfInvite(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	self := int64(5)

	credited, err := env.balances.ApplyReferral(ctx, 5, &self)
	require.NoError(t, err)
	require.False(t, credited)

	user, err := env.repos.Users().Get(ctx, 5)
	require.NoError(t, err)
	require.Nil(t, user.ReferredBy)
	require.True(t, user.Balance.IsZero())
}

func TestApplyReferralWithoutInviter(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	credited, err := env.balances.ApplyReferral(ctx, 8, nil)
	require.NoError(t, err)
	require.False(t, credited)

	exists, err := env.repos.Users().Exists(ctx, 8)
	require.NoError(t, err)
	require.True(t, exists)
}

func TestAdjustRequiresAdmin(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	err := env.balances.Adjust(ctx, 7, 7, decimal.NewFromInt(10))
	require.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestAdjustRefusesNegativeBalance(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	require.NoError(t, env.balances.Credit(ctx, 7, decimal.NewFromInt(5)))

	err := env.balances.Adjust(ctx, adminID, 7, decimal.NewFromInt(-10))
	require.ErrorIs(t, err, models.ErrInsufficientBalance)

	bal, err := env.balances.GetBalance(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, "5.00", bal.StringFixed(2))

	require.NoError(t, env.balances.Adjust(ctx, adminID, 7, decimal.NewFromInt(-5)))
	require.NoError(t, env.balances.Adjust(ctx, adminID, 7, decimal.NewFromInt(10)))

	bal, err = env.balances.GetBalance(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, "10.00", bal.StringFixed(2))
}

func TestLookup(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	_, err := env.balances.Lookup(ctx, 7, 7)
	require.ErrorIs(t, err, models.ErrUnauthorized)

	_, err = env.balances.Lookup(ctx, adminID, 7)
	require.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, env.balances.Ensure(ctx, 7))
	user, err := env.balances.Lookup(ctx, adminID, 7)
	require.NoError(t, err)
	require.Equal(t, int64(7), user.UserID)
}
