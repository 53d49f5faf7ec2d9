package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusCancelled OrderStatus = "CANCELLED" // never written; failed orders are not persisted
)

var validNext = map[OrderStatus]map[OrderStatus]bool{
	OrderStatusPending: {OrderStatusPaid: true},
	OrderStatusPaid:    {OrderStatusShipped: true},
	OrderStatusShipped: {},
}

func (s OrderStatus) CanTransition(to OrderStatus) bool {
	return validNext[s][to]
}

type TransactionStatus string

const TransactionStatusSuccess TransactionStatus = "SUCCESS"

// Product is owned by the catalog service; the order service only locks, reads and decrements it.
type Product struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"                      json:"id"`
	SellerID      uuid.UUID       `gorm:"type:uuid;index;not null"                  json:"seller_id"`
	Name          string          `gorm:"not null"                                  json:"name"`
	Description   string          `                                                 json:"description,omitempty"`
	Price         decimal.Decimal `gorm:"type:numeric(12,2);not null"               json:"price"`
	StockQuantity int             `gorm:"not null;check:stock_quantity >= 0"        json:"stock_quantity"`
	CreatedAt     time.Time       `                                                 json:"created_at"`
	UpdatedAt     time.Time       `                                                 json:"updated_at"`
}

type Order struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"             json:"id"`
	CustomerID   uuid.UUID       `gorm:"type:uuid;index;not null"         json:"customer_id"`
	Status       OrderStatus     `gorm:"type:varchar(16);not null"        json:"status"`
	TotalAmount  decimal.Decimal `gorm:"type:numeric(12,2);not null"      json:"total_amount"`
	CreatedAt    time.Time       `gorm:"index"                            json:"created_at"`
	UpdatedAt    time.Time       `                                        json:"updated_at"`
	Items        []OrderItem     `gorm:"constraint:OnDelete:CASCADE"      json:"items"`
	Transactions []Transaction   `gorm:"constraint:OnDelete:CASCADE"      json:"transactions,omitempty"`
}

// OrderItem keeps a price snapshot; ProductID is a weak reference without a foreign key.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"             json:"id"`
	OrderID   uuid.UUID       `gorm:"type:uuid;index;not null"         json:"order_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;index;not null"         json:"product_id"`
	Position  int             `gorm:"not null;default:0"               json:"position"`
	Quantity  int             `gorm:"not null;check:quantity > 0"      json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null"      json:"unit_price"`
}

type Transaction struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey"         json:"id"`
	OrderID   uuid.UUID         `gorm:"type:uuid;index;not null"     json:"order_id"`
	Amount    decimal.Decimal   `gorm:"type:numeric(12,2);not null"  json:"amount"`
	Status    TransactionStatus `gorm:"type:varchar(16);not null"    json:"status"`
	Provider  string            `gorm:"not null"                     json:"provider"`
	CreatedAt time.Time         `                                    json:"created_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ItemsTotal sums the line totals in item order.
func (o *Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.LineTotal())
	}
	return total
}

func All() []any {
	return []any{&Product{}, &Order{}, &OrderItem{}, &Transaction{}}
}
