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
	return d.Mongo.Collection(database.CollectionUsers)
}

// CreateUser → insert new platform user
func (d *DB) CreateUser(ctx context.Context, user models.User) error {
	_, err := d.collection().InsertOne(ctx, user)
	return err
}

// GetUserByEmail → fetch one user, nil when missing
func (d *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := d.collection().FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CountUsers → used for first-user admin promotion
func (d *DB) CountUsers(ctx context.Context) (int64, error) {
	return d.collection().CountDocuments(ctx, bson.D{})
}
