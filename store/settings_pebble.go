package store

import (
	"context"
	"encoding/json"
	"path/filepath"

	"github.com/cockroachdb/pebble"
	"github.com/pkg/errors"

	"fuko-store/models"
)

// PebbleSettingsStore keeps the settings singleton as a JSON value in a local pebble database
type PebbleSettingsStore struct {
	db *pebble.DB
}

// NewPebbleSettingsStore opens (or creates) the pebble database at dir
func NewPebbleSettingsStore(dir string) (*PebbleSettingsStore, error) {
	db, err := pebble.Open(filepath.Clean(dir), &pebble.Options{})
	if err != nil {
		return nil, errors.Wrap(err, "pebble open")
	}
	return &PebbleSettingsStore{db: db}, nil
}

func (s *PebbleSettingsStore) Close() error { return s.db.Close() }

func (s *PebbleSettingsStore) Get(_ context.Context) (*models.SettingsDocument, error) {
	value, closer, err := s.db.Get([]byte(models.SettingsKey))
	if err == pebble.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, persistenceError("get settings", err)
	}
	defer closer.Close()

	var doc models.SettingsDocument
	if err := json.Unmarshal(value, &doc); err != nil {
		return nil, persistenceError("decode settings", err)
	}
	doc.ID = models.SettingsKey
	return &doc, nil
}

func (s *PebbleSettingsStore) Put(_ context.Context, doc models.SettingsDocument) error {
	value, err := json.Marshal(doc)
	if err != nil {
		return persistenceError("encode settings", err)
	}
	if err := s.db.Set([]byte(models.SettingsKey), value, pebble.Sync); err != nil {
		return persistenceError("put settings", err)
	}
	return nil
}
