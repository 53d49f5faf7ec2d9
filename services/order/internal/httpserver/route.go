package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	middleware "github.com/omerfaruksaribal/ShopKit/pkg/middleware/auth"
)

type Deps struct {
	OrderHandler  *OrderHTTP
	SellerHandler *SellerHTTP
	JWTSecret     []byte
	Metrics       http.Handler
	Ready         func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return c.NoContent(http.StatusServiceUnavailable)
			}
		}
		return c.NoContent(http.StatusOK)
	})
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics))
	}

	authMW := middleware.NewIdentityMiddleware(d.JWTSecret)

	orders := e.Group("/api/orders", authMW.RequireCustomer)
	orders.POST("", d.OrderHandler.CreateOrder)
	orders.GET("", d.OrderHandler.ListOrders)

	seller := e.Group("/api/seller/orders", authMW.RequireSeller)
	seller.GET("", d.SellerHandler.ListOrders)
	seller.PATCH("/:id/ship", d.SellerHandler.ShipOrder)
}
