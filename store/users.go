package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"

	"fuko-store/models"
)

type userRow struct {
	Phone     string                               `db:"phone_number"`
	Name      sql.NullString                       `db:"name"`
	Addresses jsonColumn[[]models.DeliveryAddress] `db:"addresses"`
	CreatedAt time.Time                            `db:"created_at"`
}

// UserStore is the relational ProfileRepository
type UserStore struct {
	db *DB
}

// NewUserStore creates a UserStore
func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Find(ctx context.Context, phone string) (*models.UserProfile, error) {
	var row userRow
	query := s.db.Rebind(`SELECT phone_number, name, addresses, created_at FROM users WHERE phone_number = ?`)
	if err := s.db.GetContext(ctx, &row, query, phone); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrProfileNotFound
		}
		return nil, persistenceError("find profile", err)
	}
	profile := &models.UserProfile{
		Phone:     row.Phone,
		Name:      row.Name.String,
		Addresses: row.Addresses.V,
		CreatedAt: row.CreatedAt,
	}
	if profile.Addresses == nil {
		profile.Addresses = []models.DeliveryAddress{}
	}
	return profile, nil
}

// Upsert writes the name and address list, keeping the original creation time
func (s *UserStore) Upsert(ctx context.Context, profile *models.UserProfile) error {
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now().UTC()
	}
	addresses := profile.Addresses
	if addresses == nil {
		addresses = []models.DeliveryAddress{}
	}
	query := s.db.Rebind(`INSERT INTO users (phone_number, name, addresses, created_at)
		VALUES (?, ?, ?, ?) ` + s.db.upsert("phone_number", "name", "addresses"))
	_, err := s.db.ExecContext(ctx, query,
		profile.Phone,
		nullString(profile.Name),
		newJSONColumn(addresses),
		profile.CreatedAt,
	)
	if err != nil {
		return persistenceError("upsert profile", err)
	}
	return nil
}
