package transport

import (
	"github.com/google/uuid"

	"github.com/omerfaruksaribal/ShopKit/services/order/internal/models"
)

const IdempotencyHeader = "Idempotency-Key"

type CreateOrderItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type CreateOrderRequest struct {
	Items []CreateOrderItem `json:"items"`
}

type OrderResponse struct {
	Status   models.OrderStatus `json:"status"`
	Order    *models.Order      `json:"order"`
	Replayed bool               `json:"replayed,omitempty"`
}

type OrdersResponse struct {
	Orders []models.Order `json:"orders"`
}

type ErrorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}
