package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/omerfaruksaribal/ShopKit/pkg/identity"
	"github.com/omerfaruksaribal/ShopKit/services/order/internal/models"
	"github.com/omerfaruksaribal/ShopKit/services/order/internal/repo"
)

type FulfillmentService struct {
	Repo    *repo.GormRepo
	Events  EventPublisher
	Metrics Recorder
}

func (svc *FulfillmentService) recorder() Recorder {
	if svc.Metrics == nil {
		return nopRecorder{}
	}
	return svc.Metrics
}

// Ship moves a PAID order to SHIPPED on behalf of a seller owning at least one of its
// products. Ownership is checked before status.
func (svc *FulfillmentService) Ship(ctx context.Context, seller identity.Seller, orderID uuid.UUID) (*models.Order, error) {
	order, err := svc.ship(ctx, seller, orderID)
	if err != nil {
		return nil, err
	}

	svc.recorder().OrderShipped()
	publish(ctx, svc.Events, order.ID.String(), newOrderShippedEvent(order, seller.ID))
	return order, nil
}

func (svc *FulfillmentService) ship(ctx context.Context, seller identity.Seller, orderID uuid.UUID) (*models.Order, error) {
	uow, err := svc.Repo.Begin(ctx)
	if err != nil {
		return nil, internal("begin", err)
	}
	defer uow.Rollback()

	order, err := uow.LockOrder(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, orderID)
	}
	if err != nil {
		return nil, internal("lock order", err)
	}

	owns, err := uow.OrderHasSellerProduct(ctx, orderID, seller.ID)
	if err != nil {
		return nil, internal("check ownership", err)
	}
	if !owns {
		return nil, fmt.Errorf("%w: order %s has no products of this seller", ErrForbidden, orderID)
	}

	if err := advance(ctx, uow, order, models.OrderStatusShipped); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, internal("commit", err)
	}
	return order, nil
}

func (svc *FulfillmentService) ListSellerOrders(ctx context.Context, seller identity.Seller) ([]models.Order, error) {
	orders, err := svc.Repo.ListSellerOrders(ctx, seller.ID)
	if err != nil {
		return nil, internal("list seller orders", err)
	}
	return orders, nil
}
