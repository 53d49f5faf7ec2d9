package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/omerfaruksaribal/ShopKit/services/order/internal/models"
)

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) Migrate(ctx context.Context) error {
	return r.DB.WithContext(ctx).AutoMigrate(models.All()...)
}

func withItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func withTransactions(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC")
}

func (r *GormRepo) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).
		Preload("Items", withItems).
		Preload("Transactions", withTransactions).
		Where("id = ?", id).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) ListCustomerOrders(ctx context.Context, customerID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).
		Preload("Items", withItems).
		Preload("Transactions", withTransactions).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListSellerOrders returns orders holding at least one item of the seller's products.
func (r *GormRepo) ListSellerOrders(ctx context.Context, sellerID uuid.UUID) ([]models.Order, error) {
	db := r.DB.WithContext(ctx)

	sub := db.Model(&models.OrderItem{}).
		Select("order_items.order_id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("products.seller_id = ?", sellerID)

	var orders []models.Order
	if err := db.
		Preload("Items", withItems).
		Preload("Transactions", withTransactions).
		Where("id IN (?)", sub).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
