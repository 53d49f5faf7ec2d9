package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/omerfaruksaribal/ShopKit/pkg/logging"
	"github.com/omerfaruksaribal/ShopKit/services/order/internal/models"
)

const (
	EventOrderPaid    = "order_paid"
	EventOrderShipped = "order_shipped"
)

// EventPublisher is satisfied by *mykafka.Producer.
type EventPublisher interface {
	PublishEvent(ctx context.Context, key string, event any) error
}

// Recorder is satisfied by *metrics.Metrics.
type Recorder interface {
	OrderCreated(total decimal.Decimal, elapsed time.Duration)
	OrderRejected(kind string, elapsed time.Duration)
	OrderShipped()
}

type nopRecorder struct{}

func (nopRecorder) OrderCreated(decimal.Decimal, time.Duration) {}
func (nopRecorder) OrderRejected(string, time.Duration) {}
func (nopRecorder) OrderShipped() {}

type EventItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type OrderPaidEvent struct {
	Type        string          `json:"type"`
	OrderID     uuid.UUID       `json:"order_id"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Provider    string          `json:"provider"`
	Items       []EventItem     `json:"items"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

type OrderShippedEvent struct {
	Type       string    `json:"type"`
	OrderID    uuid.UUID `json:"order_id"`
	CustomerID uuid.UUID `json:"customer_id"`
	SellerID   uuid.UUID `json:"seller_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

func newOrderPaidEvent(o *models.Order, provider string) OrderPaidEvent {
	items := make([]EventItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, EventItem{ProductID: it.ProductID, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}
	return OrderPaidEvent{
		Type:        EventOrderPaid,
		OrderID:     o.ID,
		CustomerID:  o.CustomerID,
		TotalAmount: o.TotalAmount,
		Provider:    provider,
		Items:       items,
		OccurredAt:  time.Now().UTC(),
	}
}

func newOrderShippedEvent(o *models.Order, sellerID uuid.UUID) OrderShippedEvent {
	return OrderShippedEvent{
		Type:       EventOrderShipped,
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		SellerID:   sellerID,
		OccurredAt: time.Now().UTC(),
	}
}

// publish runs after commit. A failed publish is logged and otherwise ignored.
func publish(ctx context.Context, events EventPublisher, key string, event any) {
	if events == nil {
		return
	}
	if err := events.PublishEvent(context.WithoutCancel(ctx), key, event); err != nil {
		logging.FromContext(ctx).Warn("publish_event_error", "key", key, "error", err)
	}
}
