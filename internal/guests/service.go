package guests

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"ms-coupons/internal/auth"
	"ms-coupons/internal/models"
)

type DBLayer interface {
	GetGuestByID(ctx context.Context, id string) (*models.Guest, error)
	GetGuestByEmail(ctx context.Context, email, eventID string) (*models.Guest, error)
	GetGuestWithPasswordByEmail(ctx context.Context, email, eventID string) (*models.Guest, error)
	CreateGuest(ctx context.Context, guest models.Guest) error
	MarkClaimed(ctx context.Context, id string, coupons int, passwordHash string) error
	SetClaimed(ctx context.Context, id string, claimed bool) error
	ClaimCocktail(ctx context.Context, id, cocktail string, use models.CouponUse) (bool, error)
}

type EventStore interface {
	GetEventByID(ctx context.Context, id string) (*models.Event, error)
}

type OrderStore interface {
	ListOrdersByGuest(ctx context.Context, guestID string) ([]models.Order, error)
}

// GuestLock serializes read-modify-write operations per guest.
type GuestLock interface {
	AcquireGuest(guestID, opID string) (bool, error)
	ReleaseGuest(guestID, opID string) error
}

type GuestService struct {
	DB       DBLayer
	Events   EventStore
	Orders   OrderStore
	Lock     GuestLock
	Secret   []byte
	TokenTTL time.Duration
}

func NewGuestService(db DBLayer, events EventStore, orders OrderStore, lock GuestLock, secret []byte, tokenTTL time.Duration) *GuestService {
	return &GuestService{
		DB:       db,
		Events:   events,
		Orders:   orders,
		Lock:     lock,
		Secret:   secret,
		TokenTTL: tokenTTL,
	}
}

// Dashboard bundles a guest's profile with their event and order history.
type Dashboard struct {
	Guest  *models.Guest  `json:"guest"`
	Event  *models.Event  `json:"event"`
	Orders []models.Order `json:"orders"`
}

// Register is the claim flow: exactly one successful claim per
// (email, event) pair. Returns the guest and whether a new record was
// created.
func (s *GuestService) Register(ctx context.Context, req models.RegisterGuestRequest) (*models.Guest, bool, error) {
	event, err := s.Events.GetEventByID(ctx, req.EventID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to fetch event %s: %w", req.EventID, err)
	}
	if event == nil {
		return nil, false, ErrEventNotFound
	}
	if !event.HasGuest(req.Email) {
		return nil, false, ErrNotOnGuestList
	}

	passwordHash := ""
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, false, fmt.Errorf("failed to hash password: %w", err)
		}
		passwordHash = string(hashed)
	}

	guest, err := s.DB.GetGuestByEmail(ctx, req.Email, req.EventID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to fetch guest: %w", err)
	}

	if guest == nil {
		guest = &models.Guest{
			ID:               uuid.NewString(),
			Email:            req.Email,
			EventID:          req.EventID,
			PasswordHash:     passwordHash,
			Claimed:          true,
			Coupons:          event.DefaultCoupons,
			CouponHistory:    []models.CouponUse{},
			ClaimedCocktails: []string{},
		}
		if err := s.DB.CreateGuest(ctx, *guest); err != nil {
			return nil, false, fmt.Errorf("failed to create guest: %w", err)
		}
		return guest, true, nil
	}

	if guest.Claimed {
		return nil, false, ErrRequiresLogin
	}

	// First-time claim for a pre-provisioned guest: the seeded balance is
	// overwritten with the event default.
	if err := s.DB.MarkClaimed(ctx, guest.ID, event.DefaultCoupons, passwordHash); err != nil {
		return nil, false, fmt.Errorf("failed to mark guest claimed: %w", err)
	}
	guest.Claimed = true
	guest.Coupons = event.DefaultCoupons
	if passwordHash != "" {
		guest.PasswordHash = passwordHash
	}
	return guest, false, nil
}

// Login checks email+password against the per-event credential store and
// issues a guest-scoped token. Missing record and hash mismatch are
// indistinguishable to the caller.
func (s *GuestService) Login(ctx context.Context, email, eventID, password string) (*models.Guest, string, error) {
	guest, err := s.DB.GetGuestWithPasswordByEmail(ctx, email, eventID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch guest: %w", err)
	}
	if guest == nil {
		return nil, "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(guest.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	// Handles guests seeded without going through the claim flow.
	if !guest.Claimed {
		if err := s.DB.SetClaimed(ctx, guest.ID, true); err != nil {
			return nil, "", fmt.Errorf("failed to mark guest claimed: %w", err)
		}
		guest.Claimed = true
	}

	token, err := auth.IssueGuestToken(s.Secret, *guest, s.TokenTTL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue guest token: %w", err)
	}
	return guest, token, nil
}

// GetGuest fetches one guest by ID.
func (s *GuestService) GetGuest(ctx context.Context, guestID string) (*models.Guest, error) {
	guest, err := s.DB.GetGuestByID(ctx, guestID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch guest %s: %w", guestID, err)
	}
	if guest == nil {
		return nil, ErrGuestNotFound
	}
	return guest, nil
}

// Coupons returns the current coupon balance.
func (s *GuestService) Coupons(ctx context.Context, guestID string) (int, error) {
	guest, err := s.GetGuest(ctx, guestID)
	if err != nil {
		return 0, err
	}
	return guest.Coupons, nil
}

// GetDashboard returns the guest profile, their event, and order history in
// chronological order.
func (s *GuestService) GetDashboard(ctx context.Context, guestID string) (*Dashboard, error) {
	guest, err := s.GetGuest(ctx, guestID)
	if err != nil {
		return nil, err
	}

	event, err := s.Events.GetEventByID(ctx, guest.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch event %s: %w", guest.EventID, err)
	}

	orders, err := s.Orders.ListOrdersByGuest(ctx, guestID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch orders for guest %s: %w", guestID, err)
	}

	return &Dashboard{Guest: guest, Event: event, Orders: orders}, nil
}

// ToggleClaimed flips the claimed flag.
func (s *GuestService) ToggleClaimed(ctx context.Context, guestID string) (*models.Guest, error) {
	guest, err := s.GetGuest(ctx, guestID)
	if err != nil {
		return nil, err
	}
	if err := s.DB.SetClaimed(ctx, guestID, !guest.Claimed); err != nil {
		return nil, fmt.Errorf("failed to toggle claimed flag: %w", err)
	}
	guest.Claimed = !guest.Claimed
	return guest, nil
}

// ClaimCocktail is the admin walk-up path: at most once per cocktail per
// guest, one coupon debit, one ledger entry. The whole sequence runs under
// a per-guest lock, and the store update carries its own guard filter.
func (s *GuestService) ClaimCocktail(ctx context.Context, guestID, cocktail string) (*models.Guest, error) {
	opID := uuid.NewString()
	locked, err := s.Lock.AcquireGuest(guestID, opID)
	if err != nil {
		return nil, fmt.Errorf("guest lock error: %w", err)
	}
	if !locked {
		return nil, ErrGuestLocked
	}
	defer func() {
		_ = s.Lock.ReleaseGuest(guestID, opID)
	}()

	guest, err := s.GetGuest(ctx, guestID)
	if err != nil {
		return nil, err
	}
	if guest.HasClaimedCocktail(cocktail) {
		return nil, ErrAlreadyClaimed
	}
	if guest.Coupons <= 0 {
		return nil, ErrNoCoupons
	}

	use := models.CouponUse{Cocktail: cocktail, Timestamp: time.Now()}
	applied, err := s.DB.ClaimCocktail(ctx, guestID, cocktail, use)
	if err != nil {
		return nil, fmt.Errorf("failed to claim cocktail: %w", err)
	}
	if !applied {
		// Guard filter lost a race despite the lock, e.g. a concurrent
		// order draining the last coupon.
		return nil, ErrNoCoupons
	}

	guest.Coupons--
	guest.ClaimedCocktails = append(guest.ClaimedCocktails, cocktail)
	guest.CouponHistory = append(guest.CouponHistory, use)
	return guest, nil
}
