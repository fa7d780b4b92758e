package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"giftmarket-bot/internal/models"
)

func seedCatalog(t *testing.T, env *testEnv) (amazon, steam, numeric *models.GiftCard) {
	t.Helper()
	ctx := context.Background()

	amazon, err := env.inventory.Upload(ctx, adminID, "Amazon", "50", "40", "ABCDEF123456")
	require.NoError(t, err)
	steam, err = env.inventory.Upload(ctx, adminID, "Steam", "20", "15", "XYZ")
	require.NoError(t, err)
	numeric, err = env.inventory.Upload(ctx, adminID, "Visa", "100", "90", "440066778899")
	require.NoError(t, err)
	return amazon, steam, numeric
}

func TestListAvailableNewestFirst(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	amazon, steam, numeric := seedCatalog(t, env)

	cards, err := env.catalog.ListAvailable(ctx)
	require.NoError(t, err)
	require.Len(t, cards, 3)
	require.Equal(t, numeric.ID, cards[0].ID)
	require.Equal(t, steam.ID, cards[1].ID)
	require.Equal(t, amazon.ID, cards[2].ID)

	require.NoError(t, env.inventory.MarkSold(ctx, adminID, steam.ID))

	cards, err = env.catalog.ListAvailable(ctx)
	require.NoError(t, err)
	require.Len(t, cards, 2)
}

func TestListByBrand(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	amazon, _, _ := seedCatalog(t, env)

	cards, err := env.catalog.ListByBrand(ctx, "Amazon")
	require.NoError(t, err)
	require.Len(t, cards, 1)
	require.Equal(t, amazon.ID, cards[0].ID)

	cards, err = env.catalog.ListByBrand(ctx, "Nowhere")
	require.NoError(t, err)
	require.Empty(t, cards)
}

func TestSearchByBINValidation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	seedCatalog(t, env)

	for _, q := range []string{"", "12345", "1234567", "ABCDEF", "12 456", "12.456"} {
		_, err := env.catalog.SearchByBIN(ctx, q)
		require.ErrorIs(t, err, models.ErrInvalidQuery, "query %q", q)
	}
}

func TestSearchByBINMatchesStoredPrefix(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	_, _, numeric := seedCatalog(t, env)

	cards, err := env.catalog.SearchByBIN(ctx, "440066")
	require.NoError(t, err)
	require.Len(t, cards, 1)
	require.Equal(t, numeric.ID, cards[0].ID)

	cards, err = env.catalog.SearchByBIN(ctx, " 440066 ")
	require.NoError(t, err)
	require.Len(t, cards, 1)

	cards, err = env.catalog.SearchByBIN(ctx, "999999")
	require.NoError(t, err)
	require.Empty(t, cards)

	// Sold cards drop out of search results.
	require.NoError(t, env.inventory.MarkSold(ctx, adminID, numeric.ID))
	cards, err = env.catalog.SearchByBIN(ctx, "440066")
	require.NoError(t, err)
	require.Empty(t, cards)
}

func TestDistinctBrandsSorted(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	_, steam, _ := seedCatalog(t, env)

	_, err := env.inventory.Upload(ctx, adminID, "Amazon", "25", "20", "ABC123999888")
	require.NoError(t, err)

	brands, err := env.catalog.DistinctBrands(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Amazon", "Steam", "Visa"}, brands)

	require.NoError(t, env.inventory.MarkSold(ctx, adminID, steam.ID))
	brands, err = env.catalog.DistinctBrands(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Amazon", "Visa"}, brands)
}
