package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"storefront-service/internal/broker"
	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderStore is the persistence surface for orders.
type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrders(ctx context.Context) ([]models.Order, error)
	GetOrderByID(ctx context.Context, id string) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID, status string) error
}

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrInvalidStatus = errors.New("unknown order status")
)

// AddressForm is the customer-supplied delivery form. Notes is the only
// optional field.
type AddressForm struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone" binding:"required"`
	Address string `json:"address" binding:"required"`
	Notes   string `json:"notes"`
}

// Validate reports the first missing required field.
func (f AddressForm) Validate() error {
	switch {
	case f.Name == "":
		return fmt.Errorf("name is required")
	case f.Email == "":
		return fmt.Errorf("email is required")
	case f.Phone == "":
		return fmt.Errorf("phone is required")
	case f.Address == "":
		return fmt.Errorf("address is required")
	}
	return nil
}

// OrderService turns carts into persisted orders and owns the order-status
// lifecycle.
type OrderService struct {
	store          OrderStore
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewOrderService creates a new order service. publisher may be nil.
func NewOrderService(store OrderStore, eventPublisher *broker.EventPublisher) *OrderService {
	return &OrderService{
		store:          store,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

const orderIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewOrderID mints an order id: "BC-" plus 9 random base36 characters,
// uppercased. Ids are random, not sequential; a retried submission gets a
// brand-new id.
func NewOrderID() string {
	buf := make([]byte, 9)
	for i := range buf {
		buf[i] = orderIDAlphabet[rand.IntN(len(orderIDAlphabet))]
	}
	return "BC-" + string(buf)
}

// Submit persists an order built from the cart snapshot and the address
// form. The order total is fixed here and never recomputed. On any failure
// the error is returned and nothing is recorded; the caller keeps the cart
// so the customer can retry.
func (s *OrderService) Submit(ctx context.Context, items models.OrderItems, total int64, form AddressForm) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.Submit")
	defer span.End()

	if len(items) == 0 {
		util.OrdersFailedTotal.WithLabelValues("empty_cart").Inc()
		return nil, ErrEmptyCart
	}
	if err := form.Validate(); err != nil {
		util.OrdersFailedTotal.WithLabelValues("invalid_form").Inc()
		return nil, err
	}

	order := &models.Order{
		ID:           NewOrderID(),
		CustomerName: form.Name,
		Email:        form.Email,
		Phone:        form.Phone,
		Address:      form.Address,
		Items:        items,
		Total:        total,
		Status:       models.OrderStatusPending,
		Date:         time.Now().UTC(),
		Notes:        form.Notes,
	}

	if err := s.store.CreateOrder(ctx, order); err != nil {
		util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	util.OrdersSubmittedTotal.Inc()
	s.logger.Info("Order submitted",
		zap.String("order_id", order.ID),
		zap.Int64("total", order.Total),
		zap.Int("items", len(order.Items)))

	event := &models.OrderSubmittedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderSubmitted,
			Timestamp: time.Now(),
		},
		OrderID:      order.ID,
		CustomerName: order.CustomerName,
		Email:        order.Email,
		Phone:        order.Phone,
		Total:        order.Total,
		Items:        order.Items,
	}
	if err := s.eventPublisher.PublishOrderSubmitted(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderSubmitted event", zap.Error(err))
	}

	return order, nil
}

// Orders returns all orders, most recent first.
func (s *OrderService) Orders(ctx context.Context) ([]models.Order, error) {
	return s.store.GetOrders(ctx)
}

// UpdateStatus moves an order to a new status. Any status may move to any
// other. The read model reflects the change only after the remote update
// succeeded.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, status string) error {
	ctx, span := util.StartSpan(ctx, "OrderService.UpdateStatus")
	defer span.End()

	if !models.ValidOrderStatus(status) {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return err
	}

	if err := s.store.UpdateOrderStatus(ctx, orderID, status); err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	util.OrderStatusUpdatesTotal.WithLabelValues(status).Inc()
	s.logger.Info("Order status updated",
		zap.String("order_id", orderID),
		zap.String("from", order.Status),
		zap.String("to", status))

	event := &models.OrderStatusChangedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderStatusChanged,
			Timestamp: time.Now(),
		},
		OrderID:   orderID,
		OldStatus: order.Status,
		NewStatus: status,
	}
	if err := s.eventPublisher.PublishOrderStatusChanged(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderStatusChanged event", zap.Error(err))
	}

	return nil
}

// Stats are the admin dashboard figures, derived from the order list on
// every read.
type Stats struct {
	PendingCount     int   `json:"pendingCount"`
	DeliveredRevenue int64 `json:"deliveredRevenue"`
}

// ComputeStats derives the pending count and delivered revenue from the
// order list. No caching, no incremental maintenance.
func ComputeStats(orders []models.Order) Stats {
	var stats Stats
	for _, o := range orders {
		switch o.Status {
		case models.OrderStatusPending:
			stats.PendingCount++
		case models.OrderStatusDelivered:
			stats.DeliveredRevenue += o.Total
		}
	}
	return stats
}

// Stats fetches the orders and derives the dashboard figures.
func (s *OrderService) Stats(ctx context.Context) (Stats, error) {
	orders, err := s.store.GetOrders(ctx)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(orders), nil
}
