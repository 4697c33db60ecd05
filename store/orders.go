package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"fuko-store/models"
)

const orderColumns = `id, date, status, total, items, customer_name, customer_phone,
	delivery_address, payment_screenshot, is_payment_verified, created_at`

type orderRow struct {
	ID                string                             `db:"id"`
	Date              string                             `db:"date"`
	Status            string                             `db:"status"`
	Total             int64                              `db:"total"`
	Items             jsonColumn[[]models.OrderItem]     `db:"items"`
	CustomerName      sql.NullString                     `db:"customer_name"`
	CustomerPhone     sql.NullString                     `db:"customer_phone"`
	DeliveryAddress   jsonColumn[models.DeliveryAddress] `db:"delivery_address"`
	PaymentScreenshot sql.NullString                     `db:"payment_screenshot"`
	IsPaymentVerified sql.NullBool                       `db:"is_payment_verified"`
	CreatedAt         time.Time                          `db:"created_at"`
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r orderRow) toModel() models.Order {
	order := models.Order{
		ID:                r.ID,
		Date:              r.Date,
		Status:            models.OrderStatus(r.Status),
		Items:             r.Items.V,
		Total:             r.Total,
		CustomerName:      r.CustomerName.String,
		CustomerPhone:     r.CustomerPhone.String,
		PaymentScreenshot: r.PaymentScreenshot.String,
		IsPaymentVerified: r.IsPaymentVerified.Bool,
		CreatedAt:         r.CreatedAt,
	}
	if order.Items == nil {
		order.Items = []models.OrderItem{}
	}
	if r.DeliveryAddress.Valid {
		addr := r.DeliveryAddress.V
		order.DeliveryAddress = &addr
	}
	return order
}

// OrderStore is the relational OrderRepository
type OrderStore struct {
	db *DB
}

// NewOrderStore creates an OrderStore
func NewOrderStore(db *DB) *OrderStore {
	return &OrderStore{db: db}
}

func (s *OrderStore) Create(ctx context.Context, order *models.Order) error {
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}
	var address jsonColumn[models.DeliveryAddress]
	if order.DeliveryAddress != nil {
		address = newJSONColumn(*order.DeliveryAddress)
	}

	query := s.db.Rebind(`INSERT INTO orders (` + orderColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := s.db.ExecContext(ctx, query,
		order.ID,
		order.Date,
		string(order.Status),
		order.Total,
		newJSONColumn(order.Items),
		nullString(order.CustomerName),
		nullString(order.CustomerPhone),
		address,
		nullString(order.PaymentScreenshot),
		order.IsPaymentVerified,
		order.CreatedAt,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return models.ErrDuplicateOrder
		}
		log.WithError(err).WithField("order_id", order.ID).Error("Failed to insert order")
		return persistenceError("create order", err)
	}
	return nil
}

func (s *OrderStore) Find(ctx context.Context, id string) (*models.Order, error) {
	var row orderRow
	query := s.db.Rebind(`SELECT ` + orderColumns + ` FROM orders WHERE id = ?`)
	if err := s.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrOrderNotFound
		}
		return nil, persistenceError("find order", err)
	}
	order := row.toModel()
	return &order, nil
}

func (s *OrderStore) List(ctx context.Context) ([]models.Order, error) {
	return s.list(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
}

func (s *OrderStore) ListByPhone(ctx context.Context, phone string) ([]models.Order, error) {
	return s.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE customer_phone = ? ORDER BY created_at DESC`, phone)
}

func (s *OrderStore) list(ctx context.Context, query string, args ...any) ([]models.Order, error) {
	var rows []orderRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		log.WithError(err).Error("Failed to list orders")
		return nil, persistenceError("list orders", err)
	}
	orders := make([]models.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, row.toModel())
	}
	return orders, nil
}

func (s *OrderStore) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	return s.update(ctx, "update order status", `UPDATE orders SET status = ? WHERE id = ?`, string(status), id)
}

func (s *OrderStore) SetPaymentVerified(ctx context.Context, id string, verified bool) error {
	return s.update(ctx, "set payment verified", `UPDATE orders SET is_payment_verified = ? WHERE id = ?`, verified, id)
}

func (s *OrderStore) Delete(ctx context.Context, id string) error {
	return s.update(ctx, "delete order", `DELETE FROM orders WHERE id = ?`, id)
}

func (s *OrderStore) update(ctx context.Context, op, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		log.WithError(err).WithField("op", op).Error("Order write failed")
		return persistenceError(op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return persistenceError(op, err)
	}
	if affected == 0 {
		return models.ErrOrderNotFound
	}
	return nil
}
