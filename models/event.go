package models

// Event is a domain event raised after a successful write
type Event interface {
	Type() string
}

// EventDispatcher delivers domain events to interested parties
type EventDispatcher interface {
	Dispatch(event Event) error
}

type OrderPlaced struct {
	Order Order `json:"order"`
}

func (e OrderPlaced) Type() string { return "OrderPlaced" }

type OrderStatusChanged struct {
	OrderID string      `json:"order_id"`
	From    OrderStatus `json:"from"`
	To      OrderStatus `json:"to"`
}

func (e OrderStatusChanged) Type() string { return "OrderStatusChanged" }

type PaymentVerificationChanged struct {
	OrderID  string `json:"order_id"`
	Verified bool   `json:"verified"`
}

func (e PaymentVerificationChanged) Type() string { return "PaymentVerificationChanged" }

type OrderDeleted struct {
	OrderID string `json:"order_id"`
}

func (e OrderDeleted) Type() string { return "OrderDeleted" }

// EventOrderID returns the order an event refers to
func EventOrderID(event Event) string {
	switch e := event.(type) {
	case OrderPlaced:
		return e.Order.ID
	case OrderStatusChanged:
		return e.OrderID
	case PaymentVerificationChanged:
		return e.OrderID
	case OrderDeleted:
		return e.OrderID
	}
	return ""
}
