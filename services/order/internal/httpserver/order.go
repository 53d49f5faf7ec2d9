package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/omerfaruksaribal/ShopKit/pkg/logging"
	middleware "github.com/omerfaruksaribal/ShopKit/pkg/middleware/auth"
	"github.com/omerfaruksaribal/ShopKit/services/order/internal/idempotency"
	"github.com/omerfaruksaribal/ShopKit/services/order/internal/models"
	"github.com/omerfaruksaribal/ShopKit/services/order/internal/service"
	"github.com/omerfaruksaribal/ShopKit/services/order/internal/transport"
)

type OrderHTTP struct {
	Svc  *service.OrderService
	Idem idempotency.Store
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")

	customer, err := middleware.CustomerFrom(c)
	if err != nil {
		l.Warn("create_order_error", "status", 403, "reason", "customer required", "error", err)
		return echo.NewHTTPError(http.StatusForbidden, "customer required")
	}

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_order_error", "invalid body", err)
	}

	key := c.Request().Header.Get(transport.IdempotencyHeader)
	if key != "" && h.Idem != nil {
		orderID, ok, err := h.Idem.Lookup(ctx, customer.ID, key)
		if err != nil {
			l.Warn("idempotency_lookup_error", "error", err)
		}
		if ok {
			order, err := h.Svc.GetCustomerOrder(ctx, customer, orderID)
			if err != nil {
				return serviceError(l, "create_order_error", err)
			}
			l.Info("create_order_replayed", "order_id", order.ID)
			return c.JSON(http.StatusOK, transport.OrderResponse{Status: order.Status, Order: order, Replayed: true})
		}
	}

	items := make([]service.ItemRequest, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, service.ItemRequest{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	order, err := h.Svc.CreateOrder(ctx, customer, items)
	if err != nil {
		return serviceError(l, "create_order_error", err)
	}

	if key != "" && h.Idem != nil {
		if err := h.Idem.Remember(ctx, customer.ID, key, order.ID); err != nil {
			l.Warn("idempotency_store_error", "order_id", order.ID, "error", err)
		}
	}

	l.Info("create_order_success", "order_id", order.ID, "total_amount", order.TotalAmount.String())
	return c.JSON(http.StatusCreated, transport.OrderResponse{Status: order.Status, Order: order})
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_orders")

	customer, err := middleware.CustomerFrom(c)
	if err != nil {
		l.Warn("list_orders_error", "status", 403, "reason", "customer required", "error", err)
		return echo.NewHTTPError(http.StatusForbidden, "customer required")
	}

	orders, err := h.Svc.ListCustomerOrders(ctx, customer)
	if err != nil {
		return serviceError(l, "list_orders_error", err)
	}
	if orders == nil {
		orders = []models.Order{}
	}

	l.Info("list_orders_success", "count", len(orders))
	return c.JSON(http.StatusOK, transport.OrdersResponse{Orders: orders})
}
