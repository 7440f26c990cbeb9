package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ms-coupons/internal/database"
	"ms-coupons/internal/models"
)

type DB struct {
	Mongo *mongo.Database
}

func (d *DB) collection() *mongo.Collection {
	return d.Mongo.Collection(database.CollectionOrders)
}

// CreateOrder → insert new order
func (d *DB) CreateOrder(ctx context.Context, order models.Order) error {
	_, err := d.collection().InsertOne(ctx, order)
	return err
}

// GetOrderByID → fetch one order, nil when missing
func (d *DB) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := d.collection().FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrderStatus → overwrite the status field only
func (d *DB) UpdateOrderStatus(ctx context.Context, id, status string) error {
	_, err := d.collection().UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "status", Value: status}}}},
	)
	return err
}

// ListPendingOrders → the bartender queue, oldest first
func (d *DB) ListPendingOrders(ctx context.Context) ([]models.Order, error) {
	return d.find(ctx, bson.D{{Key: "status", Value: models.OrderStatusPending}})
}

// ListOrdersByGuest → one guest's orders, oldest first
func (d *DB) ListOrdersByGuest(ctx context.Context, guestID string) ([]models.Order, error) {
	return d.find(ctx, bson.D{{Key: "guest_id", Value: guestID}})
}

// ListOrdersByGuestIDs → orders belonging to any of the given guests
func (d *DB) ListOrdersByGuestIDs(ctx context.Context, guestIDs []string) ([]models.Order, error) {
	if len(guestIDs) == 0 {
		return []models.Order{}, nil
	}
	return d.find(ctx, bson.D{{Key: "guest_id", Value: bson.D{{Key: "$in", Value: guestIDs}}}})
}

// HasOrderForCocktail → used by the reject duplicate policy
func (d *DB) HasOrderForCocktail(ctx context.Context, guestID, cocktail string) (bool, error) {
	count, err := d.collection().CountDocuments(ctx, bson.D{
		{Key: "guest_id", Value: guestID},
		{Key: "cocktail", Value: cocktail},
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (d *DB) find(ctx context.Context, filter bson.D) ([]models.Order, error) {
	cursor, err := d.collection().Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
