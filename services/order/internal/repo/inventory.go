package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/omerfaruksaribal/ShopKit/services/order/internal/models"
)

var (
	ErrNotLocked      = errors.New("product not locked by this unit of work")
	ErrStockUnderflow = errors.New("stock underflow")
)

// Ledger owns product stock inside one unit of work.
type Ledger struct {
	tx     *gorm.DB
	locked map[uuid.UUID]struct{}
}

// LockAndRead takes the product row lock (SELECT ... FOR UPDATE) and returns the current
// row. It blocks while another unit of work holds the same lock.
func (l *Ledger) LockAndRead(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	var p models.Product
	if err := l.tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", productID).
		First(&p).Error; err != nil {
		return nil, err
	}
	l.locked[productID] = struct{}{}
	return &p, nil
}

// Decrement may only be called for a product locked through LockAndRead. The caller must
// have checked that enough stock is available.
func (l *Ledger) Decrement(ctx context.Context, productID uuid.UUID, amount int) error {
	if _, ok := l.locked[productID]; !ok {
		return fmt.Errorf("%w: %s", ErrNotLocked, productID)
	}
	if amount <= 0 {
		return fmt.Errorf("decrement amount must be > 0, got %d", amount)
	}

	res := l.tx.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock_quantity >= ?", productID, amount).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return fmt.Errorf("%w: product %s, amount %d", ErrStockUnderflow, productID, amount)
	}
	return nil
}
