package models

import "time"

// CouponUse is a single redemption ledger entry.
type CouponUse struct {
	Cocktail  string    `bson:"cocktail" json:"cocktail"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// Guest is a per-event account. (Email, EventID) is unique; Coupons never
// goes below zero. CouponHistory is the canonical redemption ledger;
// ClaimedCocktails is the at-most-once set consulted by the admin
// claim-cocktail path.
type Guest struct {
	ID               string      `bson:"_id" json:"id"`
	Email            string      `bson:"email" json:"email"`
	EventID          string      `bson:"event_id" json:"eventId"`
	PasswordHash     string      `bson:"password_hash,omitempty" json:"-"`
	Claimed          bool        `bson:"claimed" json:"claimed"`
	Coupons          int         `bson:"coupons" json:"coupons"`
	CouponHistory    []CouponUse `bson:"coupon_history" json:"couponHistory"`
	ClaimedCocktails []string    `bson:"claimed_cocktails" json:"claimedCocktails"`
}

// HasClaimedCocktail reports whether the cocktail was already claimed via
// the admin walk-up path.
func (g *Guest) HasClaimedCocktail(name string) bool {
	for _, c := range g.ClaimedCocktails {
		if c == name {
			return true
		}
	}
	return false
}
