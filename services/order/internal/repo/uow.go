package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/omerfaruksaribal/ShopKit/services/order/internal/models"
)

var ErrUnitClosed = errors.New("unit of work already finished")

// UnitOfWork wraps one database transaction. Callers must defer Rollback right after
// Begin; Rollback after a successful Commit is a no-op.
type UnitOfWork struct {
	tx     *gorm.DB
	done   bool
	ledger *Ledger
}

func (r *GormRepo) Begin(ctx context.Context) (*UnitOfWork, error) {
	tx := r.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &UnitOfWork{tx: tx}, nil
}

// InTx runs fn inside a unit of work and commits only if fn returns nil.
func (r *GormRepo) InTx(ctx context.Context, fn func(u *UnitOfWork) error) error {
	u, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer u.Rollback()

	if err := fn(u); err != nil {
		return err
	}
	return u.Commit()
}

func (u *UnitOfWork) Commit() error {
	if u.done {
		return ErrUnitClosed
	}
	u.done = true
	return u.tx.Commit().Error
}

func (u *UnitOfWork) Rollback() error {
	if u.done {
		return nil
	}
	u.done = true
	return u.tx.Rollback().Error
}

// Inventory returns the ledger bound to this unit of work. Its row locks are released
// when the unit commits or rolls back.
func (u *UnitOfWork) Inventory() *Ledger {
	if u.ledger == nil {
		u.ledger = &Ledger{tx: u.tx, locked: make(map[uuid.UUID]struct{})}
	}
	return u.ledger
}

func (u *UnitOfWork) CreateOrder(ctx context.Context, order *models.Order) error {
	return u.tx.WithContext(ctx).Create(order).Error
}

func (u *UnitOfWork) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	return u.tx.WithContext(ctx).Create(txn).Error
}

// TransitionStatus moves the order from one status to the next and reports whether a row
// matched. A false result means the order was not in status from.
func (u *UnitOfWork) TransitionStatus(ctx context.Context, orderID uuid.UUID, from, to models.OrderStatus) (bool, error) {
	res := u.tx.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// LockOrder reads the order row FOR UPDATE and loads its items.
func (u *UnitOfWork) LockOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	db := u.tx.WithContext(ctx)

	var order models.Order
	if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	if err := db.Where("order_id = ?", id).Order("position ASC").Find(&order.Items).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (u *UnitOfWork) OrderHasSellerProduct(ctx context.Context, orderID, sellerID uuid.UUID) (bool, error) {
	var n int64
	err := u.tx.WithContext(ctx).
		Model(&models.OrderItem{}).
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("order_items.order_id = ? AND products.seller_id = ?", orderID, sellerID).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
