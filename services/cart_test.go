package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fuko-store/models"
)

func launchCatalog() *mockProductRepository {
	return newMockProductRepository(
		models.Product{ID: "light-soils-blend", Name: "Light Soils Blend", Price: 550, Images: []string{"/light.png"}, IsAvailable: true},
		models.Product{ID: "turkish-blend", Name: "Turkish Blend", Price: 600, IsAvailable: true},
		models.Product{ID: "dark-soils-blend", Name: "Dark Soils Blend", Price: 580, IsAvailable: true, IsHidden: true},
	)
}

func TestAddToCart(t *testing.T) {
	ctx := context.Background()
	carts := newMockCartRepository()
	svc := NewCartService(carts, launchCatalog())

	cart, err := svc.AddToCart(ctx, "9876543210", "light-soils-blend", 1)
	require.NoError(t, err)
	cart, err = svc.AddToCart(ctx, "9876543210", "light-soils-blend", 2)
	require.NoError(t, err)
	cart, err = svc.AddToCart(ctx, "9876543210", "turkish-blend", 1)
	require.NoError(t, err)

	require.Len(t, cart.Items, 2)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, "/light.png", cart.Items[0].Image)
	assert.Equal(t, 4, cart.Count())
	assert.Equal(t, int64(2250), cart.Total())

	stored, _ := carts.Find(ctx, "9876543210")
	assert.Len(t, stored.Items, 2)

	t.Run("Hidden product", func(t *testing.T) {
		_, err := svc.AddToCart(ctx, "9876543210", "dark-soils-blend", 1)
		assert.ErrorIs(t, err, models.ErrProductNotFound)
	})

	t.Run("Zero quantity", func(t *testing.T) {
		_, err := svc.AddToCart(ctx, "9876543210", "turkish-blend", 0)
		assert.True(t, models.IsValidation(err))
	})

	t.Run("Storage failure", func(t *testing.T) {
		carts.failSave = true
		defer func() { carts.failSave = false }()
		_, err := svc.AddToCart(ctx, "9876543210", "turkish-blend", 1)
		assert.True(t, models.IsPersistence(err))
		stored, _ := carts.Find(ctx, "9876543210")
		assert.Equal(t, 4, stored.Count())
	})
}

func TestRemoveAndClearCart(t *testing.T) {
	ctx := context.Background()
	carts := newMockCartRepository()
	svc := NewCartService(carts, launchCatalog())
	_, err := svc.AddToCart(ctx, "9876543210", "light-soils-blend", 1)
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, "9876543210", "turkish-blend", 1)
	require.NoError(t, err)

	cart, err := svc.RemoveFromCart(ctx, "9876543210", "light-soils-blend")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "turkish-blend", cart.Items[0].ProductID)

	require.NoError(t, svc.ClearCart(ctx, "9876543210"))
	cart, err = svc.GetCart(ctx, "9876543210")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}
