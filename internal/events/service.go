package events

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"ms-coupons/internal/events/qr"
	"ms-coupons/internal/models"
)

const defaultCoupons = 5

type DBLayer interface {
	CreateEvent(ctx context.Context, event models.Event) error
	GetEventByID(ctx context.Context, id string) (*models.Event, error)
	ListEvents(ctx context.Context) ([]models.Event, error)
	DeleteEvent(ctx context.Context, id string) (bool, error)
	AddGuestEmail(ctx context.Context, eventID, email string) error
	RemoveGuestEmail(ctx context.Context, eventID, email string) error
}

type GuestStore interface {
	InsertGuests(ctx context.Context, guests []models.Guest) error
	GetGuestByEmail(ctx context.Context, email, eventID string) (*models.Guest, error)
	CreateGuest(ctx context.Context, guest models.Guest) error
	DeleteGuestByEmail(ctx context.Context, email, eventID string) error
	DeleteGuestsByEvent(ctx context.Context, eventID string) error
}

type EventService struct {
	DB            DBLayer
	Guests        GuestStore
	ClientBaseURL string
}

func NewEventService(db DBLayer, guests GuestStore, clientBaseURL string) *EventService {
	return &EventService{DB: db, Guests: guests, ClientBaseURL: clientBaseURL}
}

// CreateEvent provisions the QR code, persists the event, and seeds a guest
// record per allowlist email (claimed=false, balance = menu length).
func (s *EventService) CreateEvent(ctx context.Context, req models.CreateEventRequest) (*models.Event, error) {
	event := models.Event{
		ID:             uuid.NewString(),
		Name:           req.Name,
		Date:           req.Date,
		Description:    req.Description,
		Guests:         req.Guests,
		Cocktails:      req.Cocktails,
		DefaultCoupons: req.DefaultCoupons,
	}
	if event.DefaultCoupons <= 0 {
		event.DefaultCoupons = defaultCoupons
	}
	if event.Guests == nil {
		event.Guests = []string{}
	}
	if event.Cocktails == nil {
		event.Cocktails = []models.Cocktail{}
	}

	qrCode, err := qr.GenerateClaimQR(s.ClientBaseURL, event.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	event.QRCode = qrCode

	if err := s.DB.CreateEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	if len(event.Guests) > 0 {
		seeded := make([]models.Guest, 0, len(event.Guests))
		for _, email := range event.Guests {
			seeded = append(seeded, newGuestRecord(email, event))
		}
		if err := s.Guests.InsertGuests(ctx, seeded); err != nil {
			return nil, fmt.Errorf("failed to seed guest records: %w", err)
		}
	}

	return &event, nil
}

func (s *EventService) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	event, err := s.DB.GetEventByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch event %s: %w", id, err)
	}
	if event == nil {
		return nil, ErrNotFound
	}
	return event, nil
}

func (s *EventService) ListEvents(ctx context.Context) ([]models.Event, error) {
	return s.DB.ListEvents(ctx)
}

// DeleteEvent removes the event and cascades to its guest records.
func (s *EventService) DeleteEvent(ctx context.Context, id string) error {
	deleted, err := s.DB.DeleteEvent(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete event %s: %w", id, err)
	}
	if !deleted {
		return ErrNotFound
	}
	if err := s.Guests.DeleteGuestsByEvent(ctx, id); err != nil {
		return fmt.Errorf("failed to delete guests for event %s: %w", id, err)
	}
	return nil
}

// AddGuest appends an email to the allowlist and lazily creates the guest
// record when none exists yet.
func (s *EventService) AddGuest(ctx context.Context, eventID, email string) (*models.Event, error) {
	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.HasGuest(email) {
		return nil, ErrDuplicateGuest
	}

	if err := s.DB.AddGuestEmail(ctx, eventID, email); err != nil {
		return nil, fmt.Errorf("failed to add guest to event: %w", err)
	}
	event.Guests = append(event.Guests, email)

	existing, err := s.Guests.GetGuestByEmail(ctx, email, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to check guest record: %w", err)
	}
	if existing == nil {
		if err := s.Guests.CreateGuest(ctx, newGuestRecord(email, *event)); err != nil {
			return nil, fmt.Errorf("failed to create guest record: %w", err)
		}
	}

	return event, nil
}

// RemoveGuest removes the email from the allowlist and deletes the guest's
// per-event record outright. A later re-add creates a fresh record.
func (s *EventService) RemoveGuest(ctx context.Context, eventID, email string) (*models.Event, error) {
	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.HasGuest(email) {
		return nil, ErrGuestNotOnList
	}

	if err := s.DB.RemoveGuestEmail(ctx, eventID, email); err != nil {
		return nil, fmt.Errorf("failed to remove guest from event: %w", err)
	}
	remaining := event.Guests[:0]
	for _, g := range event.Guests {
		if g != email {
			remaining = append(remaining, g)
		}
	}
	event.Guests = remaining

	if err := s.Guests.DeleteGuestByEmail(ctx, email, eventID); err != nil {
		return nil, fmt.Errorf("failed to delete guest record: %w", err)
	}

	return event, nil
}

// newGuestRecord seeds an unclaimed guest with one coupon per menu entry.
// The claim flow later overwrites the balance with the event default.
func newGuestRecord(email string, event models.Event) models.Guest {
	return models.Guest{
		ID:               uuid.NewString(),
		Email:            email,
		EventID:          event.ID,
		Claimed:          false,
		Coupons:          len(event.Cocktails),
		CouponHistory:    []models.CouponUse{},
		ClaimedCocktails: []string{},
	}
}
