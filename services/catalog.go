package services

import (
	"context"

	log "github.com/sirupsen/logrus"

	"fuko-store/models"
)

type CatalogService interface {
	ListAll(ctx context.Context) ([]models.Product, error)
	ListStorefront(ctx context.Context) ([]models.Product, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	Save(ctx context.Context, in models.ProductInput) (*models.Product, error)
	Delete(ctx context.Context, id string) error
	ToggleHidden(ctx context.Context, id string) (*models.Product, error)
	AddImage(ctx context.Context, id, image string) (*models.Product, error)
	MoveImage(ctx context.Context, id string, index int, dir models.ImageDirection) (*models.Product, error)
	RemoveImage(ctx context.Context, id string, index int) (*models.Product, error)
}

func NewCatalogService(repo models.ProductRepository) CatalogService {
	return &catalogService{repo: repo}
}

type catalogService struct {
	repo models.ProductRepository
}

func (s *catalogService) ListAll(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		log.WithError(err).Error("Error fetching products")
		return nil, err
	}
	return products, nil
}

func (s *catalogService) ListStorefront(ctx context.Context) ([]models.Product, error) {
	products, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	visible := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.OnStorefront() {
			visible = append(visible, p)
		}
	}
	return visible, nil
}

func (s *catalogService) Get(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.Find(ctx, id)
}

func (s *catalogService) Save(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	product, err := in.Normalize()
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, &product); err != nil {
		log.WithError(err).WithField("product_id", product.ID).Error("Error saving product")
		return nil, err
	}
	return &product, nil
}

func (s *catalogService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		log.WithError(err).WithField("product_id", id).Error("Error deleting product")
		return err
	}
	return nil
}

func (s *catalogService) ToggleHidden(ctx context.Context, id string) (*models.Product, error) {
	return s.modify(ctx, id, func(p *models.Product) error {
		p.IsHidden = !p.IsHidden
		return nil
	})
}

func (s *catalogService) AddImage(ctx context.Context, id, image string) (*models.Product, error) {
	return s.modify(ctx, id, func(p *models.Product) error {
		return p.AddImage(image)
	})
}

func (s *catalogService) MoveImage(ctx context.Context, id string, index int, dir models.ImageDirection) (*models.Product, error) {
	return s.modify(ctx, id, func(p *models.Product) error {
		return p.MoveImage(index, dir)
	})
}

func (s *catalogService) RemoveImage(ctx context.Context, id string, index int) (*models.Product, error) {
	return s.modify(ctx, id, func(p *models.Product) error {
		return p.RemoveImage(index)
	})
}

// modify loads the product, applies change and writes the full record back
func (s *catalogService) modify(ctx context.Context, id string, change func(*models.Product) error) (*models.Product, error) {
	product, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := change(product); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, product); err != nil {
		log.WithError(err).WithField("product_id", id).Error("Error updating product")
		return nil, err
	}
	return product, nil
}
