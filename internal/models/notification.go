package models

// Notification event types pushed over the SSE channel.
const (
	NotificationNewOrder       = "newOrder"
	NotificationOrderCompleted = "orderCompleted"
	NotificationCouponUpdate   = "couponUpdate"
)

// Notification is a state delta pushed to the admin cohort or a single
// guest. Delivery is fire-and-forget; the database write it follows is the
// source of truth.
type Notification struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// CouponUpdate is the payload for coupon balance changes.
type CouponUpdate struct {
	GuestID string `json:"guestId"`
	Coupons int    `json:"coupons"`
}
