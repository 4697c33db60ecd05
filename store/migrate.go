package store

import (
	"embed"

	"github.com/golang-migrate/migrate/v4"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

//go:embed migrations/postgres/*.sql migrations/mysql/*.sql
var migrationFiles embed.FS

func (db *DB) migrator() (*migrate.Migrate, error) {
	dir := "migrations/postgres"
	if db.driver == DriverMySQL {
		dir = "migrations/mysql"
	}
	source, err := iofs.New(migrationFiles, dir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open migration source")
	}

	if db.driver == DriverMySQL {
		target, err := migratemysql.WithInstance(db.DB.DB, &migratemysql.Config{})
		if err != nil {
			return nil, errors.Wrap(err, "failed to prepare mysql migration target")
		}
		return migrate.NewWithInstance("iofs", source, "mysql", target)
	}
	target, err := migratepgx.WithInstance(db.DB.DB, &migratepgx.Config{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to prepare postgres migration target")
	}
	return migrate.NewWithInstance("iofs", source, "pgx5", target)
}

// MigrateUp applies every pending migration
func (db *DB) MigrateUp() error {
	m, err := db.migrator()
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "failed to apply migrations")
	}
	version, dirty, _ := m.Version()
	log.WithFields(log.Fields{"version": version, "dirty": dirty}).Info("Migrations applied")
	return nil
}

// MigrateDown rolls back the given number of migrations
func (db *DB) MigrateDown(steps int) error {
	m, err := db.migrator()
	if err != nil {
		return err
	}
	if steps <= 0 {
		steps = 1
	}
	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "failed to roll back migrations")
	}
	log.WithField("steps", steps).Info("Migrations rolled back")
	return nil
}
