package admin

import (
	"context"
	"errors"
	"fmt"

	"ms-coupons/internal/models"
)

var ErrGuestNotFound = errors.New("guest not found")

type EventStore interface {
	ListEvents(ctx context.Context) ([]models.Event, error)
}

type GuestStore interface {
	ListGuestsByEvent(ctx context.Context, eventID string) ([]models.Guest, error)
	GetGuestByID(ctx context.Context, id string) (*models.Guest, error)
	SetCoupons(ctx context.Context, id string, coupons int) error
	DisableGuest(ctx context.Context, id string) error
}

type OrderLister interface {
	OrdersForEvent(ctx context.Context, eventID string) ([]models.OrderWithGuest, error)
}

type Service struct {
	Events EventStore
	Guests GuestStore
	Orders OrderLister
}

func NewService(events EventStore, guests GuestStore, orders OrderLister) *Service {
	return &Service{Events: events, Guests: guests, Orders: orders}
}

// Overview summarizes the platform for the admin landing page.
type Overview struct {
	Events []models.Event          `json:"events"`
	Guests []models.Guest          `json:"guests"`
	Orders []models.OrderWithGuest `json:"orders"`
}

func (s *Service) GetOverview(ctx context.Context) (*Overview, error) {
	eventList, err := s.Events.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return &Overview{
		Events: eventList,
		Guests: []models.Guest{},
		Orders: []models.OrderWithGuest{},
	}, nil
}

func (s *Service) GuestsForEvent(ctx context.Context, eventID string) ([]models.Guest, error) {
	return s.Guests.ListGuestsByEvent(ctx, eventID)
}

func (s *Service) OrdersForEvent(ctx context.Context, eventID string) ([]models.OrderWithGuest, error) {
	return s.Orders.OrdersForEvent(ctx, eventID)
}

// RevokeCoupons zeroes a guest's balance.
func (s *Service) RevokeCoupons(ctx context.Context, guestID string) (*models.Guest, error) {
	guest, err := s.guest(ctx, guestID)
	if err != nil {
		return nil, err
	}
	if err := s.Guests.SetCoupons(ctx, guestID, 0); err != nil {
		return nil, fmt.Errorf("failed to revoke coupons: %w", err)
	}
	guest.Coupons = 0
	return guest, nil
}

// DisableAccount clears the claimed flag and zeroes the balance, keeping
// the record and its history intact.
func (s *Service) DisableAccount(ctx context.Context, guestID string) (*models.Guest, error) {
	guest, err := s.guest(ctx, guestID)
	if err != nil {
		return nil, err
	}
	if err := s.Guests.DisableGuest(ctx, guestID); err != nil {
		return nil, fmt.Errorf("failed to disable account: %w", err)
	}
	guest.Claimed = false
	guest.Coupons = 0
	return guest, nil
}

func (s *Service) guest(ctx context.Context, guestID string) (*models.Guest, error) {
	guest, err := s.Guests.GetGuestByID(ctx, guestID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch guest %s: %w", guestID, err)
	}
	if guest == nil {
		return nil, ErrGuestNotFound
	}
	return guest, nil
}
