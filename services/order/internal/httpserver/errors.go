package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/omerfaruksaribal/ShopKit/services/order/internal/service"
	"github.com/omerfaruksaribal/ShopKit/services/order/internal/transport"
)

func statusOf(kind service.Kind) int {
	switch kind {
	case service.KindValidation, service.KindInvalidState:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindInsufficientStock:
		return http.StatusConflict
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindPaymentFailed:
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

// serviceError logs err under event and converts it to the response error. Internal details
// stay in the log.
func serviceError(l *slog.Logger, event string, err error) error {
	kind := service.KindOf(err)
	status := statusOf(kind)

	if kind == service.KindInternal {
		l.Error(event, "status", status, "kind", kind, "error", err)
		return echo.NewHTTPError(status, transport.ErrorResponse{Kind: string(kind), Message: "internal error"})
	}

	l.Warn(event, "status", status, "kind", kind, "reason", err.Error())
	return echo.NewHTTPError(status, transport.ErrorResponse{Kind: string(kind), Message: err.Error()})
}

func badRequest(l *slog.Logger, event, reason string, err error) error {
	l.Warn(event, "status", http.StatusBadRequest, "reason", reason, "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, transport.ErrorResponse{
		Kind:    string(service.KindValidation),
		Message: reason,
	})
}
