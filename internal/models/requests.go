package models

import "time"

type CreateEventRequest struct {
	Name           string     `json:"name" validate:"required"`
	Date           time.Time  `json:"date" validate:"required"`
	Description    string     `json:"description" validate:"required"`
	Guests         []string   `json:"guests" validate:"dive,email"`
	Cocktails      []Cocktail `json:"cocktails"`
	DefaultCoupons int        `json:"defaultCoupons"`
}

type GuestListRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type RegisterGuestRequest struct {
	Email    string `json:"email" validate:"required,email"`
	EventID  string `json:"eventId" validate:"required"`
	Password string `json:"password,omitempty"`
}

type GuestLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	EventID  string `json:"eventId" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UserCredentialsRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=admin user"`
}

type CreateOrderRequest struct {
	GuestID  string `json:"guestId" validate:"required"`
	Cocktail string `json:"cocktail" validate:"required"`
}

type ClaimCocktailRequest struct {
	CocktailName string `json:"cocktailName" validate:"required"`
}
