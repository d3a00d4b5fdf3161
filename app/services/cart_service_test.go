package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/shopfront/app/services"
	"github.com/shashiranjanraj/shopfront/internal/testkit"
	"github.com/shashiranjanraj/shopfront/pkg/auth"
)

func TestCart_GetOrCreateIsStable(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	u := testkit.User(t, e.db, auth.RoleUser)

	first, err := e.carts.Cart(ctx, actor(u.ID, u.Role))
	require.NoError(t, err)
	assert.Equal(t, u.ID, first.UserID)
	assert.Empty(t, first.Items)

	again, err := e.carts.Cart(ctx, actor(u.ID, u.Role))
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
}

func TestCart_AddMergesAndFiresEvents(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	owner := testkit.User(t, e.db, auth.RoleUser)
	u := testkit.User(t, e.db, auth.RoleUser)
	p := testkit.Product(t, e.db, owner, testkit.Category(t, e.db), "4.25")
	a := actor(u.ID, u.Role)

	var (
		mu     sync.Mutex
		events []services.CartChanged
	)
	e.bus.Listen(services.EventCartChanged, func(_ context.Context, payload interface{}) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, payload.(services.CartChanged))
	})

	first, err := e.carts.AddItem(ctx, a, services.AddItemInput{ProductID: p.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Quantity)

	merged, err := e.carts.AddItem(ctx, a, services.AddItemInput{ProductID: p.ID, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, first.ID, merged.ID)
	assert.Equal(t, 4, merged.Quantity)

	items, err := e.carts.Items(ctx, a)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Product)
	assert.Equal(t, p.ID, items[0].Product.ID)

	e.bus.Wait()
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, events, 2)
	assert.Equal(t, u.ID, events[0].UserID)
	assert.Equal(t, first.CartID, events[1].CartID)
}

func TestCart_AddRejectsUnknownOrInactive(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	owner := testkit.User(t, e.db, auth.RoleUser)
	u := testkit.User(t, e.db, auth.RoleUser)
	p := testkit.Product(t, e.db, owner, testkit.Category(t, e.db), "4.25")
	require.NoError(t, e.db.Model(&p).Update("active", false).Error)

	_, err := e.carts.AddItem(ctx, actor(u.ID, u.Role), services.AddItemInput{ProductID: 9999})
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = e.carts.AddItem(ctx, actor(u.ID, u.Role), services.AddItemInput{ProductID: p.ID})
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}

func TestCart_MergeRespectsMaxQuantity(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	owner := testkit.User(t, e.db, auth.RoleUser)
	u := testkit.User(t, e.db, auth.RoleUser)
	p := testkit.Product(t, e.db, owner, testkit.Category(t, e.db), "1.00")
	a := actor(u.ID, u.Role)

	item, err := e.carts.AddItem(ctx, a, services.AddItemInput{ProductID: p.ID, Quantity: 600})
	require.NoError(t, err)

	_, err = e.carts.AddItem(ctx, a, services.AddItemInput{ProductID: p.ID, Quantity: 500})
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	got, err := e.carts.Item(ctx, a, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 600, got.Quantity)

	got, err = e.carts.AddItem(ctx, a, services.AddItemInput{ProductID: p.ID, Quantity: services.MaxQuantity - 600})
	require.NoError(t, err)
	assert.Equal(t, services.MaxQuantity, got.Quantity)

	_, _, err = e.carts.SetQuantity(ctx, a, item.ID, services.MaxQuantity+1)
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}

func TestCart_SetQuantity(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	owner := testkit.User(t, e.db, auth.RoleUser)
	u := testkit.User(t, e.db, auth.RoleUser)
	p := testkit.Product(t, e.db, owner, testkit.Category(t, e.db), "4.25")
	a := actor(u.ID, u.Role)

	item, err := e.carts.AddItem(ctx, a, services.AddItemInput{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)

	got, removed, err := e.carts.SetQuantity(ctx, a, item.ID, 7)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, 7, got.Quantity)

	_, _, err = e.carts.SetQuantity(ctx, a, item.ID, -1)
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	_, removed, err = e.carts.SetQuantity(ctx, a, item.ID, 0)
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = e.carts.Item(ctx, a, item.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
	e.bus.Wait()
}

func TestCart_ItemsAreScopedToOwner(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	owner := testkit.User(t, e.db, auth.RoleUser)
	alice := testkit.User(t, e.db, auth.RoleUser)
	bob := testkit.User(t, e.db, auth.RoleUser)
	p := testkit.Product(t, e.db, owner, testkit.Category(t, e.db), "4.25")

	item, err := e.carts.AddItem(ctx, actor(alice.ID, alice.Role), services.AddItemInput{ProductID: p.ID})
	require.NoError(t, err)

	_, err = e.carts.Item(ctx, actor(bob.ID, bob.Role), item.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
	assert.ErrorIs(t, e.carts.RemoveItem(ctx, actor(bob.ID, bob.Role), item.ID), services.ErrNotFound)

	require.NoError(t, e.carts.RemoveItem(ctx, actor(alice.ID, alice.Role), item.ID))
	e.bus.Wait()
}
