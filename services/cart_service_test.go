package services

import (
	"testing"

	"github.com/MuhammadMuzammil21/LocalBites-sub000/entity"
	"github.com/MuhammadMuzammil21/LocalBites-sub000/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartAddMergesSameLine(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, entity.RoleOwner)
	customer := f.user(t, entity.RoleUser)
	rest := f.restaurant(t, owner.ID)
	item := f.menuItem(t, rest.ID, "Biryani", 500)

	require.NoError(t, f.Carts.Add(customer.ID, &AddToCartIn{RestaurantID: rest.ID, MenuItemID: item.ID, Qty: 1}))
	require.NoError(t, f.Carts.Add(customer.ID, &AddToCartIn{RestaurantID: rest.ID, MenuItemID: item.ID, Qty: 2}))

	cart, subtotal, err := f.Carts.Get(customer.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Qty)
	assert.Equal(t, int64(1500), cart.Items[0].Total)
	assert.Equal(t, int64(1500), subtotal)

	// Different note means a separate line.
	require.NoError(t, f.Carts.Add(customer.ID, &AddToCartIn{RestaurantID: rest.ID, MenuItemID: item.ID, Qty: 1, Note: "extra raita"}))
	cart, _, err = f.Carts.Get(customer.ID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
}

func TestCartLockedToOneRestaurant(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, entity.RoleOwner)
	customer := f.user(t, entity.RoleUser)
	restA := f.restaurant(t, owner.ID)
	restB := f.restaurant(t, owner.ID)
	a := f.menuItem(t, restA.ID, "Karahi", 800)
	b := f.menuItem(t, restB.ID, "Chaat", 200)

	require.NoError(t, f.Carts.Add(customer.ID, &AddToCartIn{RestaurantID: restA.ID, MenuItemID: a.ID, Qty: 1}))
	err := f.Carts.Add(customer.ID, &AddToCartIn{RestaurantID: restB.ID, MenuItemID: b.ID, Qty: 1})
	assert.Equal(t, apperr.CrossRestaurant, apperr.KindOf(err))

	// Item must actually belong to the named restaurant.
	err = f.Carts.Add(customer.ID, &AddToCartIn{RestaurantID: restA.ID, MenuItemID: b.ID, Qty: 1})
	assert.Equal(t, apperr.CrossRestaurant, apperr.KindOf(err))
}

func TestCartUnlocksWhenEmptied(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, entity.RoleOwner)
	customer := f.user(t, entity.RoleUser)
	restA := f.restaurant(t, owner.ID)
	restB := f.restaurant(t, owner.ID)
	a := f.menuItem(t, restA.ID, "Karahi", 800)
	b := f.menuItem(t, restB.ID, "Chaat", 200)

	require.NoError(t, f.Carts.Add(customer.ID, &AddToCartIn{RestaurantID: restA.ID, MenuItemID: a.ID, Qty: 1}))
	cart, _, err := f.Carts.Get(customer.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)

	require.NoError(t, f.Carts.RemoveItem(customer.ID, cart.Items[0].ID))

	// Empty cart accepts the other restaurant now.
	require.NoError(t, f.Carts.Add(customer.ID, &AddToCartIn{RestaurantID: restB.ID, MenuItemID: b.ID, Qty: 1}))
	cart, _, err = f.Carts.Get(customer.ID)
	require.NoError(t, err)
	assert.Equal(t, restB.ID, cart.RestaurantID)
}

func TestCartUpdateQty(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, entity.RoleOwner)
	customer := f.user(t, entity.RoleUser)
	rest := f.restaurant(t, owner.ID)
	item := f.menuItem(t, rest.ID, "Naan", 50)

	require.NoError(t, f.Carts.Add(customer.ID, &AddToCartIn{RestaurantID: rest.ID, MenuItemID: item.ID, Qty: 2}))
	cart, _, err := f.Carts.Get(customer.ID)
	require.NoError(t, err)
	lineID := cart.Items[0].ID

	require.NoError(t, f.Carts.UpdateQty(customer.ID, lineID, 5))
	cart, subtotal, err := f.Carts.Get(customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, cart.Items[0].Qty)
	assert.Equal(t, int64(250), subtotal)

	// Zero quantity removes the line.
	require.NoError(t, f.Carts.UpdateQty(customer.ID, lineID, 0))
	cart, _, err = f.Carts.Get(customer.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCartRejectsUnavailableItem(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, entity.RoleOwner)
	customer := f.user(t, entity.RoleUser)
	rest := f.restaurant(t, owner.ID)
	item := f.menuItem(t, rest.ID, "Kulfi", 150)
	require.NoError(t, f.DB.Model(&entity.MenuItem{}).Where("id = ?", item.ID).Update("available", false).Error)

	err := f.Carts.Add(customer.ID, &AddToCartIn{RestaurantID: rest.ID, MenuItemID: item.ID, Qty: 1})
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestCartClear(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, entity.RoleOwner)
	customer := f.user(t, entity.RoleUser)
	rest := f.restaurant(t, owner.ID)
	item := f.menuItem(t, rest.ID, "Paratha", 80)

	require.NoError(t, f.Carts.Add(customer.ID, &AddToCartIn{RestaurantID: rest.ID, MenuItemID: item.ID, Qty: 3}))
	require.NoError(t, f.Carts.Clear(customer.ID))

	cart, subtotal, err := f.Carts.Get(customer.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Zero(t, subtotal)
	assert.Zero(t, cart.RestaurantID)
}
