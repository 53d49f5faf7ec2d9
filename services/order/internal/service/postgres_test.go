package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/omerfaruksaribal/ShopKit/services/order/internal/models"
	"github.com/omerfaruksaribal/ShopKit/services/order/internal/ordertest"
)

// Row locks only contend on a real server; these run when ORDER_TEST_DATABASE_URL is set.

func TestPostgres_ConcurrentNoOversell(t *testing.T) {
	db := ordertest.NewPostgres(t)
	env := newTestEnv(t, db, succeed())
	p := ordertest.SeedProduct(t, db, uuid.New(), "Widget", "3.00", 10)

	results := runConcurrentOrders(t, env.Orders, 16, func(int) []ItemRequest {
		return []ItemRequest{{ProductID: p.ID, Quantity: 2}}
	})

	require.Equal(t, 5, results[""])
	require.Equal(t, 11, results[KindInsufficientStock])
	require.Equal(t, 0, ordertest.Stock(t, db, p.ID))
}

func TestPostgres_OppositeOrderNoDeadlock(t *testing.T) {
	db := ordertest.NewPostgres(t)
	env := newTestEnv(t, db, succeed())
	a := ordertest.SeedProduct(t, db, uuid.New(), "A", "1.00", 100)
	b := ordertest.SeedProduct(t, db, uuid.New(), "B", "1.00", 100)

	results := runConcurrentOrders(t, env.Orders, 20, func(i int) []ItemRequest {
		if i%2 == 0 {
			return []ItemRequest{{ProductID: a.ID, Quantity: 1}, {ProductID: b.ID, Quantity: 1}}
		}
		return []ItemRequest{{ProductID: b.ID, Quantity: 1}, {ProductID: a.ID, Quantity: 1}}
	})

	require.Equal(t, 20, results[""])
	require.Equal(t, 80, ordertest.Stock(t, db, a.ID))
	require.Equal(t, 80, ordertest.Stock(t, db, b.ID))
	require.EqualValues(t, 20, ordertest.CountRows(t, db, &models.Order{}))
}
