package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/omerfaruksaribal/ShopKit/pkg/identity"
	"github.com/omerfaruksaribal/ShopKit/services/order/internal/models"
	"github.com/omerfaruksaribal/ShopKit/services/order/internal/payment"
	"github.com/omerfaruksaribal/ShopKit/services/order/internal/repo"
)

type ItemRequest struct {
	ProductID uuid.UUID
	Quantity  int
}

type OrderService struct {
	Repo    *repo.GormRepo
	Payment payment.Provider
	Events  EventPublisher
	Metrics Recorder
}

func (svc *OrderService) recorder() Recorder {
	if svc.Metrics == nil {
		return nopRecorder{}
	}
	return svc.Metrics
}

// CreateOrder turns the requested items into a PAID order. Stock, the order, its items and
// the payment transaction are written in one unit of work: either all of them are committed
// or none are.
func (svc *OrderService) CreateOrder(ctx context.Context, customer identity.Customer, items []ItemRequest) (*models.Order, error) {
	start := time.Now()

	order, provider, err := svc.createOrder(ctx, customer, items)
	if err != nil {
		svc.recorder().OrderRejected(string(KindOf(err)), time.Since(start))
		return nil, err
	}

	svc.recorder().OrderCreated(order.TotalAmount, time.Since(start))
	publish(ctx, svc.Events, order.ID.String(), newOrderPaidEvent(order, provider))
	return order, nil
}

func validateItems(items []ItemRequest) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: items required", ErrValidation)
	}
	for i, it := range items {
		if it.ProductID == uuid.Nil {
			return fmt.Errorf("%w: items[%d]: product_id required", ErrValidation, i)
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: items[%d]: quantity must be > 0", ErrValidation, i)
		}
	}
	return nil
}

func (svc *OrderService) createOrder(ctx context.Context, customer identity.Customer, items []ItemRequest) (*models.Order, string, error) {
	if err := validateItems(items); err != nil {
		return nil, "", err
	}

	uow, err := svc.Repo.Begin(ctx)
	if err != nil {
		return nil, "", internal("begin", err)
	}
	defer uow.Rollback()

	inv := uow.Inventory()
	products, err := lockProducts(ctx, inv, items)
	if err != nil {
		return nil, "", err
	}

	if err := checkStock(products, items); err != nil {
		return nil, "", err
	}

	order := &models.Order{
		CustomerID: customer.ID,
		Status:     models.OrderStatusPending,
		Items:      make([]models.OrderItem, 0, len(items)),
	}
	total := decimal.Zero
	for i, it := range items {
		if err := inv.Decrement(ctx, it.ProductID, it.Quantity); err != nil {
			return nil, "", internal("decrement stock", err)
		}
		price := products[it.ProductID].Price
		order.Items = append(order.Items, models.OrderItem{
			ProductID: it.ProductID,
			Position:  i,
			Quantity:  it.Quantity,
			UnitPrice: price,
		})
		total = total.Add(price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	order.TotalAmount = total

	if err := uow.CreateOrder(ctx, order); err != nil {
		return nil, "", internal("create order", err)
	}

	res := svc.Payment.Charge(ctx, total)
	if !res.Succeeded {
		return nil, "", ErrPaymentFailed
	}

	if err := advance(ctx, uow, order, models.OrderStatusPaid); err != nil {
		return nil, "", err
	}

	txn := &models.Transaction{
		OrderID:  order.ID,
		Amount:   total,
		Status:   models.TransactionStatusSuccess,
		Provider: res.Provider,
	}
	if err := uow.CreateTransaction(ctx, txn); err != nil {
		return nil, "", internal("create transaction", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, "", internal("commit", err)
	}

	order.Transactions = []models.Transaction{*txn}
	return order, res.Provider, nil
}

// lockOrder returns the distinct product ids of items in ascending order. Every unit of work
// takes its product locks in this sequence, so two orders over the same products cannot
// deadlock.
func lockOrder(items []ItemRequest) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(items))
	seen := make(map[uuid.UUID]bool, len(items))
	for _, it := range items {
		if !seen[it.ProductID] {
			seen[it.ProductID] = true
			ids = append(ids, it.ProductID)
		}
	}
	slices.SortFunc(ids, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })
	return ids
}

func lockProducts(ctx context.Context, inv *repo.Ledger, items []ItemRequest) (map[uuid.UUID]*models.Product, error) {
	ids := lockOrder(items)

	products := make(map[uuid.UUID]*models.Product, len(ids))
	for _, id := range ids {
		p, err := inv.LockAndRead(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, internal("lock product", err)
		}
		products[id] = p
	}

	for _, it := range items {
		if _, ok := products[it.ProductID]; !ok {
			return nil, fmt.Errorf("%w: product %s", ErrNotFound, it.ProductID)
		}
	}
	return products, nil
}

// checkStock walks the items in request order. Repeated products are checked against
// what the earlier lines left over.
func checkStock(products map[uuid.UUID]*models.Product, items []ItemRequest) error {
	remaining := make(map[uuid.UUID]int, len(products))
	for id, p := range products {
		remaining[id] = p.StockQuantity
	}

	for _, it := range items {
		left := remaining[it.ProductID]
		if left < it.Quantity {
			p := products[it.ProductID]
			return &InsufficientStockError{
				ProductID:   p.ID,
				ProductName: p.Name,
				Available:   left,
				Requested:   it.Quantity,
			}
		}
		remaining[it.ProductID] = left - it.Quantity
	}
	return nil
}

// advance moves order to the next status inside uow. The write only applies while the stored
// status still equals order.Status.
func advance(ctx context.Context, uow *repo.UnitOfWork, order *models.Order, to models.OrderStatus) error {
	if !order.Status.CanTransition(to) {
		return &InvalidStateError{Status: order.Status}
	}

	moved, err := uow.TransitionStatus(ctx, order.ID, order.Status, to)
	if err != nil {
		return internal("update status", err)
	}
	if !moved {
		current, err := uow.LockOrder(ctx, order.ID)
		if err != nil {
			return internal("reload order", err)
		}
		return &InvalidStateError{Status: current.Status}
	}

	order.Status = to
	return nil
}

func (svc *OrderService) ListCustomerOrders(ctx context.Context, customer identity.Customer) ([]models.Order, error) {
	orders, err := svc.Repo.ListCustomerOrders(ctx, customer.ID)
	if err != nil {
		return nil, internal("list customer orders", err)
	}
	return orders, nil
}

// GetCustomerOrder returns ErrNotFound for orders of other customers as well.
func (svc *OrderService) GetCustomerOrder(ctx context.Context, customer identity.Customer, id uuid.UUID) (*models.Order, error) {
	order, err := svc.Repo.GetOrder(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, internal("get order", err)
	}
	if order.CustomerID != customer.ID {
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, id)
	}
	return order, nil
}
