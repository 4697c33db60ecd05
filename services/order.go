package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"fuko-store/models"
)

// PlaceOrderRequest carries what the customer confirmed at checkout
type PlaceOrderRequest struct {
	Items             []models.OrderItem
	CustomerName      string
	CustomerPhone     string
	DeliveryAddress   *models.DeliveryAddress
	PaymentScreenshot string
}

type OrderService interface {
	NextID() string
	CreateOrder(ctx context.Context, order *models.Order) error
	PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*models.Order, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	ListOrdersByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error)
	ListOrdersForCustomer(ctx context.Context, phone string) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error
	SetPaymentVerified(ctx context.Context, id string, verified bool) error
	DeleteOrder(ctx context.Context, id string) error
}

// OrderServiceOption tunes the order service
type OrderServiceOption func(*orderService)

// WithStrictTransitions enforces the status transition table on UpdateStatus
func WithStrictTransitions(strict bool) OrderServiceOption {
	return func(s *orderService) { s.strict = strict }
}

// WithClock replaces time.Now, used for order dates
func WithClock(now func() time.Time) OrderServiceOption {
	return func(s *orderService) { s.now = now }
}

func NewOrderService(repo models.OrderRepository, dispatcher models.EventDispatcher, opts ...OrderServiceOption) OrderService {
	s := &orderService{repo: repo, dispatcher: dispatcher, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type orderService struct {
	repo       models.OrderRepository
	dispatcher models.EventDispatcher
	strict     bool
	now        func() time.Time
}

// NextID returns "ORD-" followed by 12 uppercase hex characters
func (s *orderService) NextID() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "ORD-" + strings.ToUpper(hex[:12])
}

func (s *orderService) CreateOrder(ctx context.Context, order *models.Order) error {
	if err := validateOrder(order); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, order); err != nil {
		log.WithError(err).WithField("order_id", order.ID).Error("Error creating order")
		return err
	}
	s.dispatch(models.OrderPlaced{Order: *order})
	return nil
}

func (s *orderService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*models.Order, error) {
	now := s.now()
	order := &models.Order{
		ID:                s.NextID(),
		Date:              now.Format(models.OrderDateLayout),
		Status:            models.StatusProcessing,
		Items:             req.Items,
		Total:             models.ItemsTotal(req.Items),
		CustomerName:      strings.TrimSpace(req.CustomerName),
		CustomerPhone:     req.CustomerPhone,
		DeliveryAddress:   req.DeliveryAddress,
		PaymentScreenshot: req.PaymentScreenshot,
		CreatedAt:         now.UTC(),
	}
	if err := s.CreateOrder(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func validateOrder(order *models.Order) error {
	if order.ID == "" {
		return models.NewValidationError("id", "is required")
	}
	if len(order.Items) == 0 {
		return models.NewValidationError("items", "order must contain at least one item")
	}
	for _, item := range order.Items {
		if item.Quantity <= 0 {
			return models.NewValidationError("items.quantity", "must be positive")
		}
		if item.Price < 0 {
			return models.NewValidationError("items.price", "cannot be negative")
		}
	}
	if order.Status == "" {
		order.Status = models.StatusProcessing
	}
	if !order.Status.Valid() {
		return models.NewValidationError("status", "unknown order status")
	}
	return nil
}

func (s *orderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return s.repo.Find(ctx, id)
}

func (s *orderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		log.WithError(err).Error("Error fetching orders")
		return nil, err
	}
	return orders, nil
}

func (s *orderService) ListOrdersByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	if status == "" {
		return s.ListOrders(ctx)
	}
	if !status.Valid() {
		return nil, models.NewValidationError("status", "unknown order status")
	}
	orders, err := s.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]models.Order, 0, len(orders))
	for _, order := range orders {
		if order.Status == status {
			filtered = append(filtered, order)
		}
	}
	return filtered, nil
}

func (s *orderService) ListOrdersForCustomer(ctx context.Context, phone string) ([]models.Order, error) {
	orders, err := s.repo.ListByPhone(ctx, phone)
	if err != nil {
		log.WithError(err).WithField("phone", phone).Error("Error fetching user orders")
		return nil, err
	}
	return orders, nil
}

func (s *orderService) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	if !status.Valid() {
		return models.NewValidationError("status", "unknown order status")
	}
	order, err := s.repo.Find(ctx, id)
	if err != nil {
		return err
	}
	if s.strict && !order.Status.CanTransitionTo(status) {
		return models.ErrInvalidTransition
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		log.WithError(err).WithField("order_id", id).Error("Error updating order status")
		return err
	}
	s.dispatch(models.OrderStatusChanged{OrderID: id, From: order.Status, To: status})
	return nil
}

func (s *orderService) SetPaymentVerified(ctx context.Context, id string, verified bool) error {
	if err := s.repo.SetPaymentVerified(ctx, id, verified); err != nil {
		log.WithError(err).WithField("order_id", id).Error("Error updating payment verification")
		return err
	}
	s.dispatch(models.PaymentVerificationChanged{OrderID: id, Verified: verified})
	return nil
}

func (s *orderService) DeleteOrder(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		log.WithError(err).WithField("order_id", id).Error("Error deleting order")
		return err
	}
	s.dispatch(models.OrderDeleted{OrderID: id})
	return nil
}

func (s *orderService) dispatch(event models.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Dispatch(event); err != nil {
		log.WithError(err).WithField("event", event.Type()).Warn("Failed to dispatch event")
	}
}
