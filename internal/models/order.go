package models

import "time"

const (
	OrderStatusPending  = "pending"
	OrderStatusComplete = "complete"
)

// Order is one coupon redemption for one cocktail unit. Status only ever
// moves pending -> complete; orders are never deleted.
type Order struct {
	ID        string    `bson:"_id" json:"id"`
	GuestID   string    `bson:"guest_id" json:"guestId"`
	Cocktail  string    `bson:"cocktail" json:"cocktail"`
	Status    string    `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// OrderWithGuest pairs an order with its owning guest for admin views and
// notification payloads.
type OrderWithGuest struct {
	Order
	Guest *Guest `json:"guest,omitempty"`
}
