package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/omerfaruksaribal/ShopKit/pkg/logging"
	middleware "github.com/omerfaruksaribal/ShopKit/pkg/middleware/auth"
	"github.com/omerfaruksaribal/ShopKit/services/order/internal/models"
	"github.com/omerfaruksaribal/ShopKit/services/order/internal/service"
	"github.com/omerfaruksaribal/ShopKit/services/order/internal/transport"
)

type SellerHTTP struct {
	Svc *service.FulfillmentService
}

func (h *SellerHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "seller.list_orders")

	seller, err := middleware.SellerFrom(c)
	if err != nil {
		l.Warn("list_seller_orders_error", "status", 403, "reason", "seller required", "error", err)
		return echo.NewHTTPError(http.StatusForbidden, "seller required")
	}

	orders, err := h.Svc.ListSellerOrders(ctx, seller)
	if err != nil {
		return serviceError(l, "list_seller_orders_error", err)
	}
	if orders == nil {
		orders = []models.Order{}
	}

	l.Info("list_seller_orders_success", "count", len(orders))
	return c.JSON(http.StatusOK, transport.OrdersResponse{Orders: orders})
}

func (h *SellerHTTP) ShipOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "seller.ship_order")

	seller, err := middleware.SellerFrom(c)
	if err != nil {
		l.Warn("ship_order_error", "status", 403, "reason", "seller required", "error", err)
		return echo.NewHTTPError(http.StatusForbidden, "seller required")
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(l, "ship_order_error", "invalid order id", err)
	}

	order, err := h.Svc.Ship(ctx, seller, orderID)
	if err != nil {
		return serviceError(l, "ship_order_error", err)
	}

	l.Info("ship_order_success", "order_id", order.ID)
	return c.JSON(http.StatusOK, transport.OrderResponse{Status: order.Status, Order: order})
}
