package store

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"fuko-store/models"
)

// LaunchProducts is the catalog the storefront opened with
func LaunchProducts() []models.Product {
	return []models.Product{
		{
			ID:          "light-soils-blend",
			Name:        "Light Soils Blend",
			Price:       550,
			Description: "The Foundation. 100% Whole-Leaf Virginia.",
			Images:      []string{"/light-soils-blend.png"},
			Weight:      models.DefaultWeight,
			Tag:         &models.Tag{Label: "Best Seller", Color: models.TagAccent},
			IsAvailable: true,
		},
		{
			ID:          "dark-soils-blend",
			Name:        "Dark Soils Blend",
			Price:       580,
			Description: "The Night Blend. Fire-Cured Dark Leaf.",
			Images:      []string{"/dark-soils-blend.jpg"},
			Weight:      models.DefaultWeight,
			IsAvailable: true,
		},
		{
			ID:          "turkish-blend",
			Name:        "Turkish Blend",
			Price:       600,
			Description: "The Purity Archives. Certified Organic.",
			Images:      []string{"/turkish-blend.png"},
			Weight:      models.DefaultWeight,
			Tag:         &models.Tag{Label: "Limited", Color: models.TagNature},
			IsAvailable: true,
		},
	}
}

// Seed saves the launch products that are not stored yet and returns how many were added
func Seed(ctx context.Context, repo models.ProductRepository) (int, error) {
	added := 0
	for _, product := range LaunchProducts() {
		_, err := repo.Find(ctx, product.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, models.ErrProductNotFound) {
			return added, err
		}
		product := product
		if err := repo.Save(ctx, &product); err != nil {
			return added, err
		}
		log.WithField("product_id", product.ID).Info("Seeded product")
		added++
	}
	return added, nil
}
