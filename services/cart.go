package services

import (
	"context"

	log "github.com/sirupsen/logrus"

	"fuko-store/models"
)

type CartService interface {
	GetCart(ctx context.Context, phone string) (*models.Cart, error)
	AddToCart(ctx context.Context, phone, productID string, quantity int) (*models.Cart, error)
	RemoveFromCart(ctx context.Context, phone, productID string) (*models.Cart, error)
	ClearCart(ctx context.Context, phone string) error
}

func NewCartService(carts models.CartRepository, products models.ProductRepository) CartService {
	return &cartService{carts: carts, products: products}
}

type cartService struct {
	carts    models.CartRepository
	products models.ProductRepository
}

func (s *cartService) GetCart(ctx context.Context, phone string) (*models.Cart, error) {
	return s.carts.Find(ctx, phone)
}

// AddToCart snapshots the current product name, price and cover image into the line
func (s *cartService) AddToCart(ctx context.Context, phone, productID string, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		return nil, models.NewValidationError("quantity", "must be positive")
	}
	product, err := s.products.Find(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.OnStorefront() {
		return nil, models.ErrProductNotFound
	}

	cart, err := s.carts.Find(ctx, phone)
	if err != nil {
		return nil, err
	}
	cart.AddItem(models.CartItem{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  quantity,
		Image:     product.CoverImage(),
	})
	if err := s.carts.Save(ctx, cart); err != nil {
		log.WithError(err).WithField("phone", phone).Error("Error saving cart")
		return nil, err
	}
	return cart, nil
}

func (s *cartService) RemoveFromCart(ctx context.Context, phone, productID string) (*models.Cart, error) {
	cart, err := s.carts.Find(ctx, phone)
	if err != nil {
		return nil, err
	}
	cart.RemoveItem(productID)
	if err := s.carts.Save(ctx, cart); err != nil {
		log.WithError(err).WithField("phone", phone).Error("Error saving cart")
		return nil, err
	}
	return cart, nil
}

func (s *cartService) ClearCart(ctx context.Context, phone string) error {
	return s.carts.Delete(ctx, phone)
}
