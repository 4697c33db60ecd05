package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/crypto/bcrypt"

	"fuko-store/analytics"
	"fuko-store/config"
	"fuko-store/store"
)

func openDB(c *cli.Context) (*store.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return store.Open(c.Context, cfg.DBDriver, cfg.DBDSN)
}

func migrateUp(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.MigrateUp()
}

func migrateDown(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.MigrateDown(c.Int("steps"))
}

func seed(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.MigrateUp(); err != nil {
		return err
	}

	added, err := store.Seed(c.Context, store.NewProductStore(db))
	if err != nil {
		return err
	}
	log.WithField("added", added).Info("Seed complete")
	return nil
}

func report(c *cli.Context) error {
	month, err := analytics.ParseMonth(c.String("month"))
	if err != nil {
		return err
	}
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	orders, err := store.NewOrderStore(db).List(c.Context)
	if err != nil {
		return err
	}

	out := c.String("out")
	if out == "" {
		out = analytics.ReportFilename(month)
	}
	f, err := os.Create(out)
	if err != nil {
		return errors.Wrap(err, "failed to create report file")
	}
	rows, err := analytics.ExportCSV(f, orders, month, c.String("city"))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return errors.Wrap(err, "failed to write report")
	}
	log.WithFields(log.Fields{"file": out, "rows": rows}).Info("Report written")
	return nil
}

func hashPIN(c *cli.Context) error {
	pin := c.Args().First()
	if pin == "" {
		return errors.New("a PIN is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "failed to hash PIN")
	}
	fmt.Println(string(hash))
	return nil
}
