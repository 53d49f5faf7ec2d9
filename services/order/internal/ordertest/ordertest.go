// Package ordertest holds database fixtures shared by the order service tests.
package ordertest

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/omerfaruksaribal/ShopKit/pkg/db"
	"github.com/omerfaruksaribal/ShopKit/services/order/internal/models"
)

const PostgresEnv = "ORDER_TEST_DATABASE_URL"

// NewSQLite returns a migrated in-memory database private to the test.
func NewSQLite(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := db.OpenSQLite(context.Background(), dsn)
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(models.All()...))

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

// NewPostgres connects to the database named by ORDER_TEST_DATABASE_URL and empties the
// order tables. The test is skipped when the variable is not set.
func NewPostgres(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv(PostgresEnv)
	if dsn == "" {
		t.Skipf("%s not set", PostgresEnv)
	}

	gdb, err := db.Open(context.Background(), dsn)
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(models.All()...))

	wipe := func() {
		for _, table := range []string{"transactions", "order_items", "orders", "products"} {
			require.NoError(t, gdb.Exec("DELETE FROM "+table).Error)
		}
	}
	wipe()
	t.Cleanup(wipe)
	return gdb
}

func Price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func SeedProduct(t *testing.T, gdb *gorm.DB, sellerID uuid.UUID, name, price string, stock int) models.Product {
	t.Helper()

	p := models.Product{
		SellerID:      sellerID,
		Name:          name,
		Price:         Price(price),
		StockQuantity: stock,
	}
	require.NoError(t, gdb.Create(&p).Error)
	return p
}

func Stock(t *testing.T, gdb *gorm.DB, productID uuid.UUID) int {
	t.Helper()

	var p models.Product
	require.NoError(t, gdb.Where("id = ?", productID).First(&p).Error)
	return p.StockQuantity
}

func CountRows(t *testing.T, gdb *gorm.DB, model any) int64 {
	t.Helper()

	var n int64
	require.NoError(t, gdb.Model(model).Count(&n).Error)
	return n
}
