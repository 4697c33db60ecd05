package store

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"fuko-store/models"
)

const (
	DriverPostgres = "pgx"
	DriverMySQL    = "mysql"
)

// DB is the relational connection shared by the order, user and product stores
type DB struct {
	*sqlx.DB
	driver string
}

// Open connects to the relational store and pings it
func Open(ctx context.Context, driverName, dsn string) (*DB, error) {
	if driverName == DriverMySQL {
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse mysql dsn")
		}
		// matched rows, not changed rows, so repeated updates are not reported as missing
		cfg.ClientFoundRows = true
		cfg.ParseTime = true
		cfg.MultiStatements = true
		dsn = cfg.FormatDSN()
	}

	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}
	return &DB{DB: db, driver: driverName}, nil
}

// Driver returns the driver name the handle was opened with
func (db *DB) Driver() string { return db.driver }

// HealthCheck performs a simple ping
func (db *DB) HealthCheck(ctx context.Context) error {
	return db.PingContext(ctx)
}

// upsert returns the dialect-specific conflict clause updating the given columns
func (db *DB) upsert(key string, columns ...string) string {
	clause := ""
	for i, col := range columns {
		if i > 0 {
			clause += ", "
		}
		if db.driver == DriverMySQL {
			clause += fmt.Sprintf("%s = VALUES(%s)", col, col)
		} else {
			clause += fmt.Sprintf("%s = EXCLUDED.%s", col, col)
		}
	}
	if db.driver == DriverMySQL {
		return "ON DUPLICATE KEY UPDATE " + clause
	}
	return fmt.Sprintf("ON CONFLICT (%s) DO UPDATE SET %s", key, clause)
}

func isDuplicateKey(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	return false
}

func persistenceError(op string, err error) error {
	return &models.PersistenceError{Op: op, Err: errors.WithStack(err)}
}

// jsonColumn stores a value as a JSON document column (JSONB on postgres, JSON on mysql)
type jsonColumn[T any] struct {
	V     T
	Valid bool
}

func newJSONColumn[T any](v T) jsonColumn[T] {
	return jsonColumn[T]{V: v, Valid: true}
}

func (j *jsonColumn[T]) Scan(src any) error {
	var raw []byte
	switch s := src.(type) {
	case nil:
		var zero T
		j.V, j.Valid = zero, false
		return nil
	case []byte:
		raw = s
	case string:
		raw = []byte(s)
	default:
		return errors.Errorf("unsupported json column type %T", src)
	}
	if string(raw) == "null" {
		var zero T
		j.V, j.Valid = zero, false
		return nil
	}
	if err := json.Unmarshal(raw, &j.V); err != nil {
		return errors.Wrap(err, "failed to decode json column")
	}
	j.Valid = true
	return nil
}

func (j jsonColumn[T]) Value() (driver.Value, error) {
	if !j.Valid {
		return nil, nil
	}
	b, err := json.Marshal(j.V)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
