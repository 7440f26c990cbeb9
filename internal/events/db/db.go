package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"ms-coupons/internal/database"
	"ms-coupons/internal/models"
)

type DB struct {
	Mongo *mongo.Database
}

func (d *DB) collection() *mongo.Collection {
	return d.Mongo.Collection(database.CollectionEvents)
}

// CreateEvent → insert new event
func (d *DB) CreateEvent(ctx context.Context, event models.Event) error {
	_, err := d.collection().InsertOne(ctx, event)
	return err
}

// GetEventByID → fetch one event, nil when missing
func (d *DB) GetEventByID(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	err := d.collection().FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&event)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// ListEvents → all events
func (d *DB) ListEvents(ctx context.Context) ([]models.Event, error) {
	cursor, err := d.collection().Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []models.Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// DeleteEvent → remove an event, reporting whether it existed
func (d *DB) DeleteEvent(ctx context.Context, id string) (bool, error) {
	result, err := d.collection().DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}

// AddGuestEmail → append an email to the allowlist
func (d *DB) AddGuestEmail(ctx context.Context, eventID, email string) error {
	_, err := d.collection().UpdateOne(ctx,
		bson.D{{Key: "_id", Value: eventID}},
		bson.D{{Key: "$push", Value: bson.D{{Key: "guests", Value: email}}}},
	)
	return err
}

// RemoveGuestEmail → pull an email from the allowlist
func (d *DB) RemoveGuestEmail(ctx context.Context, eventID, email string) error {
	_, err := d.collection().UpdateOne(ctx,
		bson.D{{Key: "_id", Value: eventID}},
		bson.D{{Key: "$pull", Value: bson.D{{Key: "guests", Value: email}}}},
	)
	return err
}
