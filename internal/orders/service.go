package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ms-coupons/internal/config"
	"ms-coupons/internal/kafka"
	"ms-coupons/internal/logger"
	"ms-coupons/internal/models"
)

type DBLayer interface {
	CreateOrder(ctx context.Context, order models.Order) error
	GetOrderByID(ctx context.Context, id string) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id, status string) error
	ListPendingOrders(ctx context.Context) ([]models.Order, error)
	ListOrdersByGuestIDs(ctx context.Context, guestIDs []string) ([]models.Order, error)
	HasOrderForCocktail(ctx context.Context, guestID, cocktail string) (bool, error)
}

type GuestStore interface {
	GetGuestByID(ctx context.Context, id string) (*models.Guest, error)
	DecrementCoupons(ctx context.Context, id string) (*models.Guest, error)
	AppendCouponHistory(ctx context.Context, id string, use models.CouponUse) error
	ListGuestsByEvent(ctx context.Context, eventID string) ([]models.Guest, error)
}

// NotificationPublisher is the injected capability for pushing state deltas
// to connected clients; the service never touches the transport.
type NotificationPublisher interface {
	NotifyGuest(guestID string, notification models.Notification)
	NotifyAdmins(notification models.Notification)
}

type KafkaPublisher interface {
	Publish(topic string, key string, value []byte) error
}

type OrderService struct {
	DB              DBLayer
	Guests          GuestStore
	Notifier        NotificationPublisher
	Kafka           KafkaPublisher
	Logger          *logger.Logger
	DuplicatePolicy string
}

func NewOrderService(db DBLayer, guests GuestStore, notifier NotificationPublisher, kafkaPub KafkaPublisher, log *logger.Logger, duplicatePolicy string) *OrderService {
	return &OrderService{
		DB:              db,
		Guests:          guests,
		Notifier:        notifier,
		Kafka:           kafkaPub,
		Logger:          log,
		DuplicatePolicy: duplicatePolicy,
	}
}

// PlaceOrder redeems one cocktail unit: atomic coupon debit, pending order
// record, then notification fan-out. The database write is the source of
// truth; notification and Kafka failures are logged, never rolled back.
func (s *OrderService) PlaceOrder(ctx context.Context, guestID, cocktail string) (*models.OrderWithGuest, error) {
	guest, err := s.Guests.GetGuestByID(ctx, guestID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch guest %s: %w", guestID, err)
	}
	if guest == nil {
		return nil, ErrGuestNotFound
	}

	if s.DuplicatePolicy == config.DuplicateReject {
		if guest.HasClaimedCocktail(cocktail) {
			return nil, ErrDuplicateOrder
		}
		ordered, err := s.DB.HasOrderForCocktail(ctx, guestID, cocktail)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing orders: %w", err)
		}
		if ordered {
			return nil, ErrDuplicateOrder
		}
	}

	// Conditional decrement: only succeeds while the balance is positive,
	// so two concurrent redemptions can never drive it negative.
	guest, err = s.Guests.DecrementCoupons(ctx, guestID)
	if err != nil {
		return nil, fmt.Errorf("failed to debit coupon: %w", err)
	}
	if guest == nil {
		return nil, ErrNoCoupons
	}

	order := models.Order{
		ID:        uuid.NewString(),
		GuestID:   guestID,
		Cocktail:  cocktail,
		Status:    models.OrderStatusPending,
		CreatedAt: time.Now(),
	}
	if err := s.DB.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	withGuest := &models.OrderWithGuest{Order: order, Guest: guest}

	s.Notifier.NotifyGuest(guestID, models.Notification{
		Type:    models.NotificationCouponUpdate,
		Payload: models.CouponUpdate{GuestID: guestID, Coupons: guest.Coupons},
	})
	s.Notifier.NotifyAdmins(models.Notification{
		Type:    models.NotificationNewOrder,
		Payload: withGuest,
	})

	s.publish(kafka.TopicOrderCreated, order.ID, withGuest)
	s.publish(kafka.TopicBalanceUpdated, guestID, models.CouponUpdate{GuestID: guestID, Coupons: guest.Coupons})

	s.Logger.LogOrder("PLACED", order.ID, fmt.Sprintf("guest %s ordered %s, %d coupons left", guestID, cocktail, guest.Coupons))
	return withGuest, nil
}

// CompleteOrder transitions a pending order to complete and appends the
// redemption to the guest's coupon history.
func (s *OrderService) CompleteOrder(ctx context.Context, orderID string) (*models.OrderWithGuest, error) {
	order, err := s.DB.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order %s: %w", orderID, err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status == models.OrderStatusComplete {
		return nil, ErrAlreadyCompleted
	}

	if err := s.DB.UpdateOrderStatus(ctx, orderID, models.OrderStatusComplete); err != nil {
		return nil, fmt.Errorf("failed to complete order %s: %w", orderID, err)
	}
	order.Status = models.OrderStatusComplete

	use := models.CouponUse{Cocktail: order.Cocktail, Timestamp: time.Now()}
	if err := s.Guests.AppendCouponHistory(ctx, order.GuestID, use); err != nil {
		s.Logger.Error("ORDER", fmt.Sprintf("CompleteOrder: failed to append coupon history for guest %s: %v", order.GuestID, err))
	}

	guest, err := s.Guests.GetGuestByID(ctx, order.GuestID)
	if err != nil {
		s.Logger.Error("ORDER", fmt.Sprintf("CompleteOrder: failed to fetch guest %s: %v", order.GuestID, err))
	}
	withGuest := &models.OrderWithGuest{Order: *order, Guest: guest}

	notification := models.Notification{
		Type:    models.NotificationOrderCompleted,
		Payload: withGuest,
	}
	s.Notifier.NotifyGuest(order.GuestID, notification)
	s.Notifier.NotifyAdmins(notification)

	s.publish(kafka.TopicOrderCompleted, order.ID, withGuest)

	s.Logger.LogOrder("COMPLETED", order.ID, fmt.Sprintf("%s for guest %s", order.Cocktail, order.GuestID))
	return withGuest, nil
}

// PendingOrders returns the bartender queue with guests attached.
func (s *OrderService) PendingOrders(ctx context.Context) ([]models.OrderWithGuest, error) {
	pending, err := s.DB.ListPendingOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending orders: %w", err)
	}
	return s.attachGuests(ctx, pending)
}

// OrdersForEvent returns all orders belonging to an event's guests.
func (s *OrderService) OrdersForEvent(ctx context.Context, eventID string) ([]models.OrderWithGuest, error) {
	guestList, err := s.Guests.ListGuestsByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list guests for event %s: %w", eventID, err)
	}
	guestIDs := make([]string, 0, len(guestList))
	for _, g := range guestList {
		guestIDs = append(guestIDs, g.ID)
	}
	eventOrders, err := s.DB.ListOrdersByGuestIDs(ctx, guestIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for event %s: %w", eventID, err)
	}

	byID := make(map[string]*models.Guest, len(guestList))
	for i := range guestList {
		byID[guestList[i].ID] = &guestList[i]
	}
	result := make([]models.OrderWithGuest, 0, len(eventOrders))
	for _, o := range eventOrders {
		result = append(result, models.OrderWithGuest{Order: o, Guest: byID[o.GuestID]})
	}
	return result, nil
}

func (s *OrderService) attachGuests(ctx context.Context, orderList []models.Order) ([]models.OrderWithGuest, error) {
	cache := make(map[string]*models.Guest)
	result := make([]models.OrderWithGuest, 0, len(orderList))
	for _, o := range orderList {
		guest, ok := cache[o.GuestID]
		if !ok {
			var err error
			guest, err = s.Guests.GetGuestByID(ctx, o.GuestID)
			if err != nil {
				return nil, fmt.Errorf("failed to fetch guest %s: %w", o.GuestID, err)
			}
			cache[o.GuestID] = guest
		}
		result = append(result, models.OrderWithGuest{Order: o, Guest: guest})
	}
	return result, nil
}

func (s *OrderService) publish(topic, key string, payload interface{}) {
	if s.Kafka == nil {
		return
	}
	value, err := json.Marshal(payload)
	if err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("failed to marshal payload for %s: %v", topic, err))
		return
	}
	if err := s.Kafka.Publish(topic, key, value); err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("failed to publish to %s: %v", topic, err))
	}
}
