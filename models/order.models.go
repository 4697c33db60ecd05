package models

import (
	"context"
	"time"
)

// OrderStatus is the fulfilment state of an order
type OrderStatus string

const (
	StatusProcessing     OrderStatus = "Processing"
	StatusShipped        OrderStatus = "Shipped"
	StatusOutForDelivery OrderStatus = "Out for Delivery"
	StatusDelivered      OrderStatus = "Delivered"
	StatusCancelled      OrderStatus = "Cancelled"
)

// OrderStatuses lists every status in display order
var OrderStatuses = []OrderStatus{
	StatusProcessing,
	StatusShipped,
	StatusOutForDelivery,
	StatusDelivered,
	StatusCancelled,
}

var allowedTransitions = map[OrderStatus][]OrderStatus{
	StatusProcessing:     {StatusShipped, StatusCancelled},
	StatusShipped:        {StatusOutForDelivery, StatusCancelled},
	StatusOutForDelivery: {StatusDelivered},
}

// Valid reports whether s is one of the known statuses
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// CanTransitionTo checks next against the strict transition table.
// Setting the current status again is always allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// OrderDateLayout is the display format of Order.Date
const OrderDateLayout = "Jan 2, 2006"

// OrderItem is a frozen snapshot of a product at order time
type OrderItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	Image     string `json:"image"`
}

// Subtotal returns price times quantity
func (i OrderItem) Subtotal() int64 {
	return i.Price * int64(i.Quantity)
}

// DeliveryAddress is the address snapshot attached to an order
type DeliveryAddress struct {
	Type    string `json:"type" bson:"type"`
	Line1   string `json:"line1" bson:"line1"`
	Line2   string `json:"line2" bson:"line2"`
	City    string `json:"city" bson:"city"`
	State   string `json:"state" bson:"state"`
	Pincode string `json:"pincode" bson:"pincode"`
}

// Order represents a customer's confirmed purchase request
type Order struct {
	ID                string           `json:"id"`
	Date              string           `json:"date"`
	Status            OrderStatus      `json:"status"`
	Items             []OrderItem      `json:"items"`
	Total             int64            `json:"total"`
	CustomerName      string           `json:"customer_name,omitempty"`
	CustomerPhone     string           `json:"customer_phone,omitempty"`
	DeliveryAddress   *DeliveryAddress `json:"delivery_address,omitempty"`
	PaymentScreenshot string           `json:"payment_screenshot,omitempty"`
	IsPaymentVerified bool             `json:"is_payment_verified"`
	CreatedAt         time.Time        `json:"created_at"`
}

// ItemsTotal sums the item subtotals
func ItemsTotal(items []OrderItem) int64 {
	var total int64
	for _, item := range items {
		total += item.Subtotal()
	}
	return total
}

// City returns the delivery city or an empty string
func (o Order) City() string {
	if o.DeliveryAddress == nil {
		return ""
	}
	return o.DeliveryAddress.City
}

// Pincode returns the delivery postal code or an empty string
func (o Order) Pincode() string {
	if o.DeliveryAddress == nil {
		return ""
	}
	return o.DeliveryAddress.Pincode
}

// OrderRepository persists orders
type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	Find(ctx context.Context, id string) (*Order, error)
	// List returns orders newest insertion first
	List(ctx context.Context) ([]Order, error)
	ListByPhone(ctx context.Context, phone string) ([]Order, error)
	UpdateStatus(ctx context.Context, id string, status OrderStatus) error
	SetPaymentVerified(ctx context.Context, id string, verified bool) error
	Delete(ctx context.Context, id string) error
}
