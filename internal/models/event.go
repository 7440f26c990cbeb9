package models

import "time"

// Cocktail is a menu entry embedded in an event document.
type Cocktail struct {
	Name        string `bson:"name" json:"name"`
	Description string `bson:"description" json:"description"`
	ImageURL    string `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
}

// Event owns a guest email allowlist and a cocktail menu. The QR code is a
// data URI rendered once at creation time and immutable afterwards.
type Event struct {
	ID             string     `bson:"_id" json:"id"`
	Name           string     `bson:"name" json:"name"`
	Date           time.Time  `bson:"date" json:"date"`
	Description    string     `bson:"description" json:"description"`
	QRCode         string     `bson:"qr_code" json:"qrCode"`
	Guests         []string   `bson:"guests" json:"guests"`
	Cocktails      []Cocktail `bson:"cocktails" json:"cocktails"`
	DefaultCoupons int        `bson:"default_coupons" json:"defaultCoupons"`
}

// HasGuest reports whether an email is on the event's allowlist.
func (e *Event) HasGuest(email string) bool {
	for _, g := range e.Guests {
		if g == email {
			return true
		}
	}
	return false
}

// HasCocktail reports whether a cocktail name is on the event's menu.
func (e *Event) HasCocktail(name string) bool {
	for _, c := range e.Cocktails {
		if c.Name == name {
			return true
		}
	}
	return false
}
