package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ms-coupons/internal/config"
	"ms-coupons/internal/logger"
)

const (
	CollectionEvents = "events"
	CollectionGuests = "guests"
	CollectionOrders = "orders"
	CollectionUsers  = "users"
)

// Connect opens a MongoDB connection with retries and bootstraps indexes.
func Connect(ctx context.Context, conf config.Mongo, log *logger.Logger) (*mongo.Database, error) {
	clientOptions := options.Client().ApplyURI(conf.URI)
	if conf.User != "" {
		clientOptions.SetAuth(options.Credential{
			Username:   conf.User,
			Password:   conf.Password,
			AuthSource: conf.Database,
		})
	}

	var client *mongo.Client
	var err error
	maxRetries := 5

	for i := 0; i < maxRetries; i++ {
		log.Info("DATABASE", fmt.Sprintf("Attempting to connect to MongoDB (attempt %d/%d)", i+1, maxRetries))
		client, err = mongo.Connect(ctx, clientOptions)
		if err == nil {
			err = client.Ping(ctx, nil)
			if err == nil {
				break
			}
		}
		log.Error("DATABASE", fmt.Sprintf("Failed to connect to MongoDB: %v", err))
		if i < maxRetries-1 {
			time.Sleep(2 * time.Second)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("mongodb connect after %d attempts: %w", maxRetries, err)
	}

	db := client.Database(conf.Database)
	if err := ensureIndexes(ctx, db); err != nil {
		return nil, fmt.Errorf("mongodb indexes: %w", err)
	}

	log.Info("DATABASE", fmt.Sprintf("MongoDB connection successful (database: %s)", conf.Database))
	return db, nil
}

// ensureIndexes creates the indexes the workflows rely on. The unique
// (email, event_id) index on guests backs the one-guest-per-event invariant
// at the store level.
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(CollectionGuests).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}, {Key: "event_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(CollectionOrders).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "guest_id", Value: 1}},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(CollectionUsers).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
