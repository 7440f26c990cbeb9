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
	return d.Mongo.Collection(database.CollectionGuests)
}

// ---------------- LOOKUPS ----------------

// GetGuestByID → fetch one guest, nil when missing
func (d *DB) GetGuestByID(ctx context.Context, id string) (*models.Guest, error) {
	var guest models.Guest
	err := d.collection().FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&guest)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &guest, nil
}

// GetGuestByEmail → fetch the guest for an (email, event) pair
func (d *DB) GetGuestByEmail(ctx context.Context, email, eventID string) (*models.Guest, error) {
	var guest models.Guest
	filter := bson.D{{Key: "email", Value: email}, {Key: "event_id", Value: eventID}}
	err := d.collection().FindOne(ctx, filter).Decode(&guest)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &guest, nil
}

// GetGuestWithPasswordByEmail → fetch a guest account that can log in.
// Scoped by event: the same email may hold accounts at several events.
func (d *DB) GetGuestWithPasswordByEmail(ctx context.Context, email, eventID string) (*models.Guest, error) {
	var guest models.Guest
	filter := bson.D{
		{Key: "email", Value: email},
		{Key: "event_id", Value: eventID},
		{Key: "password_hash", Value: bson.D{{Key: "$exists", Value: true}, {Key: "$ne", Value: ""}}},
	}
	err := d.collection().FindOne(ctx, filter).Decode(&guest)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &guest, nil
}

// ListGuestsByEvent → all guest records belonging to an event
func (d *DB) ListGuestsByEvent(ctx context.Context, eventID string) ([]models.Guest, error) {
	cursor, err := d.collection().Find(ctx, bson.D{{Key: "event_id", Value: eventID}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var guests []models.Guest
	if err := cursor.All(ctx, &guests); err != nil {
		return nil, err
	}
	return guests, nil
}

// ---------------- WRITES ----------------

// CreateGuest → insert a new guest record
func (d *DB) CreateGuest(ctx context.Context, guest models.Guest) error {
	_, err := d.collection().InsertOne(ctx, guest)
	return err
}

// InsertGuests → bulk insert, used when an event seeds its allowlist
func (d *DB) InsertGuests(ctx context.Context, guests []models.Guest) error {
	if len(guests) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(guests))
	for _, g := range guests {
		docs = append(docs, g)
	}
	_, err := d.collection().InsertMany(ctx, docs)
	return err
}

// MarkClaimed → first-time claim: set claimed, reset balance, store the
// password hash when supplied
func (d *DB) MarkClaimed(ctx context.Context, id string, coupons int, passwordHash string) error {
	set := bson.D{{Key: "claimed", Value: true}, {Key: "coupons", Value: coupons}}
	if passwordHash != "" {
		set = append(set, bson.E{Key: "password_hash", Value: passwordHash})
	}
	_, err := d.collection().UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: set}},
	)
	return err
}

// SetClaimed → flip the claimed flag only
func (d *DB) SetClaimed(ctx context.Context, id string, claimed bool) error {
	_, err := d.collection().UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "claimed", Value: claimed}}}},
	)
	return err
}

// SetCoupons → overwrite the coupon balance
func (d *DB) SetCoupons(ctx context.Context, id string, coupons int) error {
	_, err := d.collection().UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "coupons", Value: coupons}}}},
	)
	return err
}

// DisableGuest → zero the balance and clear the claimed flag, keeping the
// record and its history
func (d *DB) DisableGuest(ctx context.Context, id string) error {
	_, err := d.collection().UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "claimed", Value: false},
			{Key: "coupons", Value: 0},
		}}},
	)
	return err
}

// DecrementCoupons → atomic decrement-if-positive. Returns the updated
// guest, or nil when the balance was already zero. The coupons>0 filter is
// what keeps the balance from going negative under concurrent redemptions.
func (d *DB) DecrementCoupons(ctx context.Context, id string) (*models.Guest, error) {
	filter := bson.D{
		{Key: "_id", Value: id},
		{Key: "coupons", Value: bson.D{{Key: "$gt", Value: 0}}},
	}
	update := bson.D{{Key: "$inc", Value: bson.D{{Key: "coupons", Value: -1}}}}

	var guest models.Guest
	err := d.collection().FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&guest)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &guest, nil
}

// ClaimCocktail → single conditional update for the admin walk-up path:
// debit one coupon, record the cocktail in the claimed set, and append the
// ledger entry, but only while the balance is positive and the cocktail was
// not claimed before. Returns false when the guard filter did not match.
func (d *DB) ClaimCocktail(ctx context.Context, id, cocktail string, use models.CouponUse) (bool, error) {
	filter := bson.D{
		{Key: "_id", Value: id},
		{Key: "coupons", Value: bson.D{{Key: "$gt", Value: 0}}},
		{Key: "claimed_cocktails", Value: bson.D{{Key: "$ne", Value: cocktail}}},
	}
	update := bson.D{
		{Key: "$inc", Value: bson.D{{Key: "coupons", Value: -1}}},
		{Key: "$addToSet", Value: bson.D{{Key: "claimed_cocktails", Value: cocktail}}},
		{Key: "$push", Value: bson.D{{Key: "coupon_history", Value: use}}},
	}
	result, err := d.collection().UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount > 0, nil
}

// AppendCouponHistory → add a ledger entry, used on order completion
func (d *DB) AppendCouponHistory(ctx context.Context, id string, use models.CouponUse) error {
	_, err := d.collection().UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$push", Value: bson.D{{Key: "coupon_history", Value: use}}}},
	)
	return err
}

// ---------------- DELETES ----------------

// DeleteGuestByEmail → remove the per-event record outright (allowlist removal)
func (d *DB) DeleteGuestByEmail(ctx context.Context, email, eventID string) error {
	_, err := d.collection().DeleteOne(ctx, bson.D{
		{Key: "email", Value: email},
		{Key: "event_id", Value: eventID},
	})
	return err
}

// DeleteGuestsByEvent → cascade delete when an event is removed
func (d *DB) DeleteGuestsByEvent(ctx context.Context, eventID string) error {
	_, err := d.collection().DeleteMany(ctx, bson.D{{Key: "event_id", Value: eventID}})
	return err
}
