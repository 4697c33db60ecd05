package store

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"fuko-store/models"
)

const productColumns = `id, name, price, description, images, weight, tag, is_available, is_hidden`

type productRow struct {
	ID          string                 `db:"id"`
	Name        string                 `db:"name"`
	Price       int64                  `db:"price"`
	Description string                 `db:"description"`
	Images      jsonColumn[[]string]   `db:"images"`
	Weight      sql.NullString         `db:"weight"`
	Tag         jsonColumn[models.Tag] `db:"tag"`
	IsAvailable bool                   `db:"is_available"`
	IsHidden    bool                   `db:"is_hidden"`
}

func (r productRow) toModel() models.Product {
	p := models.Product{
		ID:          r.ID,
		Name:        r.Name,
		Price:       r.Price,
		Description: r.Description,
		Images:      r.Images.V,
		Weight:      r.Weight.String,
		IsAvailable: r.IsAvailable,
		IsHidden:    r.IsHidden,
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Weight == "" {
		p.Weight = models.DefaultWeight
	}
	if r.Tag.Valid {
		tag := r.Tag.V
		p.Tag = &tag
	}
	return p
}

// ProductStore is the relational ProductRepository
type ProductStore struct {
	db *DB
}

// NewProductStore creates a ProductStore
func NewProductStore(db *DB) *ProductStore {
	return &ProductStore{db: db}
}

func (s *ProductStore) List(ctx context.Context) ([]models.Product, error) {
	var rows []productRow
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at ASC, id ASC`
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		log.WithError(err).Error("Failed to list products")
		return nil, persistenceError("list products", err)
	}
	products := make([]models.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.toModel())
	}
	return products, nil
}

func (s *ProductStore) Find(ctx context.Context, id string) (*models.Product, error) {
	var row productRow
	query := s.db.Rebind(`SELECT ` + productColumns + ` FROM products WHERE id = ?`)
	if err := s.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrProductNotFound
		}
		return nil, persistenceError("find product", err)
	}
	p := row.toModel()
	return &p, nil
}

// Save inserts the product or replaces every field of the existing one
func (s *ProductStore) Save(ctx context.Context, product *models.Product) error {
	var tag jsonColumn[models.Tag]
	if product.Tag != nil {
		tag = newJSONColumn(*product.Tag)
	}
	images := product.Images
	if images == nil {
		images = []string{}
	}
	query := s.db.Rebind(`INSERT INTO products (`+productColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) `) +
		s.db.upsert("id", "name", "price", "description", "images", "weight", "tag", "is_available", "is_hidden")
	_, err := s.db.ExecContext(ctx, query,
		product.ID,
		product.Name,
		product.Price,
		product.Description,
		newJSONColumn(images),
		nullString(product.Weight),
		tag,
		product.IsAvailable,
		product.IsHidden,
	)
	if err != nil {
		log.WithError(err).WithField("product_id", product.ID).Error("Failed to save product")
		return persistenceError("save product", err)
	}
	return nil
}

func (s *ProductStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM products WHERE id = ?`), id)
	if err != nil {
		return persistenceError("delete product", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return persistenceError("delete product", err)
	}
	if affected == 0 {
		return models.ErrProductNotFound
	}
	return nil
}
