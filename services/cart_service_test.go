package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"food-delivery-client/models"
	"food-delivery-client/store"
)

func newTestCart(t *testing.T) (*CartService, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	cart := NewCartService(st)
	t.Cleanup(cart.Close)
	return cart, st
}

func burger(qty int) models.CartLineItem {
	return models.NewCartLineItem("A", "Burger", 10, nil, qty)
}

func TestAddItemMergesIdenticalSelections(t *testing.T) {
	cart, _ := newTestCart(t)

	require.NoError(t, cart.AddItem("R1", "Pho Palace", burger(1)))
	require.NoError(t, cart.AddItem("R1", "Pho Palace", burger(1)))

	got := cart.Cart()
	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.InDelta(t, 20, got.Items[0].TotalPrice, 1e-9)
	assert.InDelta(t, 20, got.Subtotal, 1e-9)
}

func TestAddItemKeepsDistinctOptionsSeparate(t *testing.T) {
	cart, _ := newTestCart(t)

	large := []models.OptionSelection{{Title: "Size", Items: []models.OptionItem{{Name: "Large", Price: 1.5}}}}
	require.NoError(t, cart.AddItem("R1", "Pho Palace", models.NewCartLineItem("A", "Burger", 10, nil, 1)))
	require.NoError(t, cart.AddItem("R1", "Pho Palace", models.NewCartLineItem("A", "Burger", 10, large, 1)))

	got := cart.Cart()
	assert.Len(t, got.Items, 2)
}

func TestEndToEndMergeWithDeliveryFee(t *testing.T) {
	cart, _ := newTestCart(t)

	require.NoError(t, cart.AddItem("R1", "Pho Palace", burger(1)))
	cart.UpdateDeliveryFee(2)
	require.NoError(t, cart.AddItem("R1", "Pho Palace", burger(1)))

	got := cart.Cart()
	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.InDelta(t, 20, got.Items[0].TotalPrice, 1e-9)
	assert.InDelta(t, 20, got.Subtotal, 1e-9)
	assert.InDelta(t, 22, got.Total, 1e-9)
}

func TestAddItemRejectsDifferentRestaurant(t *testing.T) {
	cart, _ := newTestCart(t)

	require.NoError(t, cart.AddItem("R1", "Pho Palace", burger(1)))

	err := cart.AddItem("R2", "Banh Mi Corner", models.NewCartLineItem("Z", "Banh Mi", 5, nil, 1))
	assert.ErrorIs(t, err, ErrDifferentRestaurant)

	got := cart.Cart()
	assert.Equal(t, "R1", got.RestaurantID)
	assert.Len(t, got.Items, 1)
}

func TestWouldReplaceRestaurant(t *testing.T) {
	cart, _ := newTestCart(t)

	assert.False(t, cart.WouldReplaceRestaurant("R1"), "empty cart binds to any restaurant")

	require.NoError(t, cart.AddItem("R1", "Pho Palace", burger(1)))
	assert.False(t, cart.WouldReplaceRestaurant("R1"))
	assert.True(t, cart.WouldReplaceRestaurant("R2"))

	cart.ClearCart()
	assert.False(t, cart.WouldReplaceRestaurant("R2"))
}

func TestUpdateItemQuantityRescalesFromUnitPrice(t *testing.T) {
	cart, _ := newTestCart(t)

	item := models.NewCartLineItem("A", "Pho Special", 15, nil, 1)
	require.NoError(t, cart.AddItem("R1", "Pho Palace", item))

	require.NoError(t, cart.UpdateItemQuantity(0, 3))

	got := cart.Cart()
	assert.Equal(t, 3, got.Items[0].Quantity)
	assert.InDelta(t, 45, got.Items[0].TotalPrice, 1e-9)
	assert.InDelta(t, 45, got.Total, 1e-9)
}

func TestUpdateItemQuantityZeroRemovesItem(t *testing.T) {
	cart, _ := newTestCart(t)

	require.NoError(t, cart.AddItem("R1", "Pho Palace", burger(1)))
	require.NoError(t, cart.UpdateItemQuantity(0, 0))

	assertCanonicalEmpty(t, cart.Cart())
}

func TestRemoveLastItemResetsCart(t *testing.T) {
	cart, _ := newTestCart(t)

	require.NoError(t, cart.AddItem("R1", "Pho Palace", burger(2)))
	cart.UpdateDeliveryFee(2)
	cart.ApplyDiscount(1)

	require.NoError(t, cart.RemoveItem(0))

	assertCanonicalEmpty(t, cart.Cart())
}

func TestClearCartResetsEverything(t *testing.T) {
	cart, _ := newTestCart(t)

	require.NoError(t, cart.AddItem("R1", "Pho Palace", burger(2)))
	cart.UpdateDeliveryFee(2)
	cart.UpdateServiceCharge(0.5)
	cart.ApplyDiscount(1)

	cart.ClearCart()

	assertCanonicalEmpty(t, cart.Cart())
}

func TestRemoveItemKeepsRemainingTotals(t *testing.T) {
	cart, _ := newTestCart(t)

	require.NoError(t, cart.AddItem("R1", "Pho Palace", burger(1)))
	require.NoError(t, cart.AddItem("R1", "Pho Palace", models.NewCartLineItem("B", "Fries", 4, nil, 2)))

	require.NoError(t, cart.RemoveItem(0))

	got := cart.Cart()
	require.Len(t, got.Items, 1)
	assert.Equal(t, "B", got.Items[0].MenuItemID)
	assert.InDelta(t, 8, got.Subtotal, 1e-9)
	assert.Equal(t, "R1", got.RestaurantID)
}

func TestMutationsRejectBadIndex(t *testing.T) {
	cart, _ := newTestCart(t)
	require.NoError(t, cart.AddItem("R1", "Pho Palace", burger(1)))

	assert.ErrorIs(t, cart.RemoveItem(5), ErrItemIndex)
	assert.ErrorIs(t, cart.RemoveItem(-1), ErrItemIndex)
	assert.ErrorIs(t, cart.UpdateItemQuantity(5, 2), ErrItemIndex)

	got := cart.Cart()
	assert.Len(t, got.Items, 1)
}

func TestCartPersistsAcrossRestarts(t *testing.T) {
	st := store.NewMemoryStore()

	first := NewCartService(st)
	require.NoError(t, first.AddItem("R1", "Pho Palace", burger(2)))
	first.UpdateDeliveryFee(2)
	first.Close()

	second := NewCartService(st)
	defer second.Close()

	got := second.Cart()
	require.Len(t, got.Items, 1)
	assert.Equal(t, "R1", got.RestaurantID)
	assert.Equal(t, "Pho Palace", got.RestaurantName)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.InDelta(t, 22, got.Total, 1e-9)
}

func TestCorruptPersistedCartFallsBackToEmpty(t *testing.T) {
	st := store.NewMemoryStore()
	require.NoError(t, st.Set(context.Background(), store.KeyCart, "{not json", 0))

	cart := NewCartService(st)
	defer cart.Close()

	assertCanonicalEmpty(t, cart.Cart())
}

func assertCanonicalEmpty(t *testing.T, cart models.Cart) {
	t.Helper()
	expected, err := json.Marshal(models.EmptyCart())
	require.NoError(t, err)
	actual, err := json.Marshal(cart)
	require.NoError(t, err)
	assert.JSONEq(t, string(expected), string(actual))
}
