package services

import (
	"context"

	log "github.com/sirupsen/logrus"

	"fuko-store/checkout"
	"fuko-store/models"
)

// fallbackCustomerName is stored on orders from profiles without a name
const fallbackCustomerName = "Customer"

// UPIConfig is the payee shown in the payment step
type UPIConfig struct {
	PayeeID   string
	PayeeName string
}

type CheckoutService interface {
	// Resume returns the flow of a signed-in customer
	Resume(ctx context.Context, phone string) (*checkout.Flow, error)
	Onboard(ctx context.Context, phone, name string, address models.DeliveryAddress) (*checkout.Flow, error)
	Payment(ctx context.Context, phone string) (models.UPIPayment, error)
	// Confirm places the order for the cart; the cart is cleared only when the order was stored
	Confirm(ctx context.Context, phone string, addressIndex int, screenshot string) (*checkout.Flow, *models.Order, error)
}

func NewCheckoutService(orders OrderService, profiles ProfileService, carts CartService, upi UPIConfig) CheckoutService {
	return &checkoutService{orders: orders, profiles: profiles, carts: carts, upi: upi}
}

type checkoutService struct {
	orders   OrderService
	profiles ProfileService
	carts    CartService
	upi      UPIConfig
}

func (s *checkoutService) Resume(ctx context.Context, phone string) (*checkout.Flow, error) {
	profile, err := s.profiles.GetProfile(ctx, phone)
	if err != nil {
		return nil, err
	}
	flow := checkout.New()
	flow.Start(phone, profile)
	return flow, nil
}

func (s *checkoutService) Onboard(ctx context.Context, phone, name string, address models.DeliveryAddress) (*checkout.Flow, error) {
	flow, err := s.Resume(ctx, phone)
	if err != nil {
		return nil, err
	}
	if flow.Step != checkout.StepOnboarding {
		return flow, checkout.ErrInvalidStep
	}
	profile, err := s.profiles.CompleteOnboarding(ctx, phone, name, address)
	if err != nil {
		return flow, err
	}
	if err := flow.CompleteOnboarding(profile); err != nil {
		return flow, err
	}
	return flow, nil
}

func (s *checkoutService) Payment(ctx context.Context, phone string) (models.UPIPayment, error) {
	cart, err := s.carts.GetCart(ctx, phone)
	if err != nil {
		return models.UPIPayment{}, err
	}
	if len(cart.Items) == 0 {
		return models.UPIPayment{}, models.ErrCartEmpty
	}
	return models.UPIPayment{
		PayeeID:   s.upi.PayeeID,
		PayeeName: s.upi.PayeeName,
		Amount:    cart.Total(),
		Note:      "Order Payment",
	}, nil
}

func (s *checkoutService) Confirm(ctx context.Context, phone string, addressIndex int, screenshot string) (*checkout.Flow, *models.Order, error) {
	cart, err := s.carts.GetCart(ctx, phone)
	if err != nil {
		return nil, nil, err
	}
	if len(cart.Items) == 0 {
		return nil, nil, models.ErrCartEmpty
	}
	flow, err := s.Resume(ctx, phone)
	if err != nil {
		return nil, nil, err
	}
	if err := flow.SelectAddress(addressIndex); err != nil {
		return flow, nil, err
	}

	name := flow.Name
	if name == "" {
		name = fallbackCustomerName
	}
	var order *models.Order
	err = flow.ConfirmPayment(func() (string, error) {
		placed, err := s.orders.PlaceOrder(ctx, PlaceOrderRequest{
			Items:             cart.OrderItems(),
			CustomerName:      name,
			CustomerPhone:     phone,
			DeliveryAddress:   flow.SelectedAddress,
			PaymentScreenshot: screenshot,
		})
		if err != nil {
			return "", err
		}
		order = placed
		return placed.ID, nil
	})
	if err != nil {
		return flow, nil, err
	}

	if err := s.carts.ClearCart(ctx, phone); err != nil {
		log.WithError(err).WithField("order_id", order.ID).Warn("Order placed but cart was not cleared")
	}
	return flow, order, nil
}
