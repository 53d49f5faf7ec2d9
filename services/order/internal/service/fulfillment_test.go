package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/omerfaruksaribal/ShopKit/pkg/identity"
	"github.com/omerfaruksaribal/ShopKit/services/order/internal/models"
	"github.com/omerfaruksaribal/ShopKit/services/order/internal/ordertest"
)

func TestShip_OwnershipAndState(t *testing.T) {
	env := newTestEnv(t, ordertest.NewSQLite(t), succeed())
	ctx := context.Background()
	sellerA := identity.Seller{ID: uuid.New()}
	sellerB := identity.Seller{ID: uuid.New()}
	p := ordertest.SeedProduct(t, env.DB, sellerA.ID, "Widget", "5.00", 10)

	order, err := env.Orders.CreateOrder(ctx, customer(), []ItemRequest{{ProductID: p.ID, Quantity: 1}})
	require.NoError(t, err)

	_, err = env.Fulfillment.Ship(ctx, sellerB, order.ID)
	require.ErrorIs(t, err, ErrForbidden)
	require.Equal(t, KindForbidden, KindOf(err))

	shipped, err := env.Fulfillment.Ship(ctx, sellerA, order.ID)
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusShipped, shipped.Status)
	require.Len(t, shipped.Items, 1)

	_, err = env.Fulfillment.Ship(ctx, sellerA, order.ID)
	var stateErr *InvalidStateError
	require.True(t, errors.As(err, &stateErr))
	require.Equal(t, models.OrderStatusShipped, stateErr.Status)
	require.Contains(t, err.Error(), `"SHIPPED"`)
	require.Equal(t, KindInvalidState, KindOf(err))

	_, err = env.Fulfillment.Ship(ctx, sellerB, order.ID)
	require.ErrorIs(t, err, ErrForbidden)

	require.Equal(t, 1, env.Metrics.shipped)
	events := env.Events.all()
	require.Len(t, events, 2)
	ev, ok := events[1].event.(OrderShippedEvent)
	require.True(t, ok)
	require.Equal(t, EventOrderShipped, ev.Type)
	require.Equal(t, sellerA.ID, ev.SellerID)
}

func TestShip_NotFound(t *testing.T) {
	env := newTestEnv(t, ordertest.NewSQLite(t), succeed())

	_, err := env.Fulfillment.Ship(context.Background(), identity.Seller{ID: uuid.New()}, uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestShip_RequiresPaid(t *testing.T) {
	env := newTestEnv(t, ordertest.NewSQLite(t), succeed())
	ctx := context.Background()
	seller := identity.Seller{ID: uuid.New()}
	p := ordertest.SeedProduct(t, env.DB, seller.ID, "Widget", "5.00", 10)

	pending := &models.Order{
		CustomerID:  uuid.New(),
		Status:      models.OrderStatusPending,
		TotalAmount: ordertest.Price("5.00"),
		Items:       []models.OrderItem{{ProductID: p.ID, Quantity: 1, UnitPrice: p.Price}},
	}
	require.NoError(t, env.DB.Create(pending).Error)

	_, err := env.Fulfillment.Ship(ctx, seller, pending.ID)
	var stateErr *InvalidStateError
	require.True(t, errors.As(err, &stateErr))
	require.Equal(t, models.OrderStatusPending, stateErr.Status)

	stored, err := env.Orders.Repo.GetOrder(ctx, pending.ID)
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusPending, stored.Status)
}

func TestShip_SharedOrderAnySellerMayShip(t *testing.T) {
	env := newTestEnv(t, ordertest.NewSQLite(t), succeed())
	ctx := context.Background()
	sellerA := identity.Seller{ID: uuid.New()}
	sellerB := identity.Seller{ID: uuid.New()}
	a := ordertest.SeedProduct(t, env.DB, sellerA.ID, "A", "1.00", 10)
	b := ordertest.SeedProduct(t, env.DB, sellerB.ID, "B", "1.00", 10)

	order, err := env.Orders.CreateOrder(ctx, customer(), []ItemRequest{
		{ProductID: a.ID, Quantity: 1},
		{ProductID: b.ID, Quantity: 1},
	})
	require.NoError(t, err)

	_, err = env.Fulfillment.Ship(ctx, sellerB, order.ID)
	require.NoError(t, err)

	_, err = env.Fulfillment.Ship(ctx, sellerA, order.ID)
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestListOrders_Scoping(t *testing.T) {
	env := newTestEnv(t, ordertest.NewSQLite(t), succeed())
	ctx := context.Background()
	buyer, other := customer(), customer()
	seller := identity.Seller{ID: uuid.New()}
	mine := ordertest.SeedProduct(t, env.DB, seller.ID, "Mine", "1.00", 10)
	theirs := ordertest.SeedProduct(t, env.DB, uuid.New(), "Theirs", "1.00", 10)

	o1, err := env.Orders.CreateOrder(ctx, buyer, []ItemRequest{{ProductID: mine.ID, Quantity: 1}})
	require.NoError(t, err)
	_, err = env.Orders.CreateOrder(ctx, other, []ItemRequest{{ProductID: theirs.ID, Quantity: 1}})
	require.NoError(t, err)

	orders, err := env.Orders.ListCustomerOrders(ctx, buyer)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, o1.ID, orders[0].ID)

	sellerOrders, err := env.Fulfillment.ListSellerOrders(ctx, seller)
	require.NoError(t, err)
	require.Len(t, sellerOrders, 1)
	require.Equal(t, o1.ID, sellerOrders[0].ID)

	_, err = env.Orders.GetCustomerOrder(ctx, other, o1.ID)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = env.Orders.GetCustomerOrder(ctx, buyer, uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}
