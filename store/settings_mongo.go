package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fuko-store/models"
)

// MongoSettingsStore keeps the settings singleton in the settings collection
type MongoSettingsStore struct {
	collection *mongo.Collection
}

// NewMongoSettingsStore creates a MongoSettingsStore
func NewMongoSettingsStore(client *mongo.Client, database string) *MongoSettingsStore {
	return &MongoSettingsStore{collection: client.Database(database).Collection("settings")}
}

func (s *MongoSettingsStore) Get(ctx context.Context) (*models.SettingsDocument, error) {
	var doc models.SettingsDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": models.SettingsKey}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, persistenceError("get settings", err)
	}
	return &doc, nil
}

func (s *MongoSettingsStore) Put(ctx context.Context, doc models.SettingsDocument) error {
	doc.ID = models.SettingsKey
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": models.SettingsKey}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return persistenceError("put settings", err)
	}
	return nil
}
