package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStorePopClears(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Put(ctx, 7, Continuation{Kind: KindDepositEvidence, DepositID: 3, Coin: "BTC"}))

	c, ok, err := s.Pop(ctx, 7)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, KindDepositEvidence, c.Kind)
	require.Equal(t, uint(3), c.DepositID)
	require.Equal(t, "BTC", c.Coin)

	_, ok, err = s.Pop(ctx, 7)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStorePutReplaces(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Put(ctx, 7, Continuation{Kind: KindUploadLine}))
	require.NoError(t, s.Put(ctx, 7, Continuation{Kind: KindUserLookup}))

	c, ok, err := s.Pop(ctx, 7)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, KindUserLookup, c.Kind)
}

func TestMemoryStoreClear(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Put(ctx, 7, Continuation{Kind: KindBINQuery}))
	require.NoError(t, s.Clear(ctx, 7))

	_, ok, err := s.Pop(ctx, 7)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStoreIsPerUser(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Put(ctx, 1, Continuation{Kind: KindUploadLine}))

	_, ok, err := s.Pop(ctx, 2)
	require.NoError(t, err)
	require.False(t, ok)
}
