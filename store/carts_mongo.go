package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fuko-store/models"
)

// MongoCartStore keeps one cart document per customer phone
type MongoCartStore struct {
	collection *mongo.Collection
}

// NewMongoCartStore creates a MongoCartStore
func NewMongoCartStore(client *mongo.Client, database string) *MongoCartStore {
	return &MongoCartStore{collection: client.Database(database).Collection("carts")}
}

func (s *MongoCartStore) Find(ctx context.Context, phone string) (*models.Cart, error) {
	var cart models.Cart
	err := s.collection.FindOne(ctx, bson.M{"_id": phone}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		return &models.Cart{Phone: phone, Items: []models.CartItem{}}, nil
	}
	if err != nil {
		return nil, persistenceError("find cart", err)
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return &cart, nil
}

func (s *MongoCartStore) Save(ctx context.Context, cart *models.Cart) error {
	cart.UpdatedAt = time.Now().UTC()
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": cart.Phone}, cart, options.Replace().SetUpsert(true))
	if err != nil {
		return persistenceError("save cart", err)
	}
	return nil
}

func (s *MongoCartStore) Delete(ctx context.Context, phone string) error {
	if _, err := s.collection.DeleteOne(ctx, bson.M{"_id": phone}); err != nil {
		return persistenceError("delete cart", err)
	}
	return nil
}
