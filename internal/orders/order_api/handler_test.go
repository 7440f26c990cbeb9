package order_api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"ms-coupons/internal/config"
	"ms-coupons/internal/logger"
	"ms-coupons/internal/models"
	"ms-coupons/internal/orders"
	"ms-coupons/internal/orders/order_api"
	"ms-coupons/internal/utils"
)

// Mock implementations
type MockDBLayer struct {
	mock.Mock
}

func (m *MockDBLayer) CreateOrder(ctx context.Context, order models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockDBLayer) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockDBLayer) UpdateOrderStatus(ctx context.Context, id, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockDBLayer) ListPendingOrders(ctx context.Context) ([]models.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockDBLayer) ListOrdersByGuestIDs(ctx context.Context, guestIDs []string) ([]models.Order, error) {
	args := m.Called(ctx, guestIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockDBLayer) HasOrderForCocktail(ctx context.Context, guestID, cocktail string) (bool, error) {
	args := m.Called(ctx, guestID, cocktail)
	return args.Bool(0), args.Error(1)
}

type MockGuestStore struct {
	mock.Mock
}

func (m *MockGuestStore) GetGuestByID(ctx context.Context, id string) (*models.Guest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Guest), args.Error(1)
}

func (m *MockGuestStore) DecrementCoupons(ctx context.Context, id string) (*models.Guest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Guest), args.Error(1)
}

func (m *MockGuestStore) AppendCouponHistory(ctx context.Context, id string, use models.CouponUse) error {
	args := m.Called(ctx, id, use)
	return args.Error(0)
}

func (m *MockGuestStore) ListGuestsByEvent(ctx context.Context, eventID string) ([]models.Guest, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Guest), args.Error(1)
}

type noopNotifier struct{}

func (noopNotifier) NotifyGuest(guestID string, notification models.Notification) {}
func (noopNotifier) NotifyAdmins(notification models.Notification)               {}

func setupHandler(mockDB *MockDBLayer, mockGuests *MockGuestStore) (*order_api.Handler, *chi.Mux) {
	log := logger.NewLogger()
	orderSvc := orders.NewOrderService(mockDB, mockGuests, noopNotifier{}, nil, log, config.DuplicateAllow)
	handler := order_api.NewHandler(orderSvc, log)

	r := chi.NewRouter()
	r.Post("/api/orders", handler.PlaceOrder)
	r.Put("/api/orders/{orderId}/complete", handler.CompleteOrder)
	r.Get("/api/orders/pending", handler.GetPendingOrders)
	return handler, r
}

// Tests start here
func TestPlaceOrderEndpoint(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockGuests := new(MockGuestStore)
	_, router := setupHandler(mockDB, mockGuests)

	guest := &models.Guest{ID: "g1", Email: "alice@example.com", Coupons: 5}
	debited := &models.Guest{ID: "g1", Email: "alice@example.com", Coupons: 4}

	mockGuests.On("GetGuestByID", mock.Anything, "g1").Return(guest, nil)
	mockGuests.On("DecrementCoupons", mock.Anything, "g1").Return(debited, nil)
	mockDB.On("CreateOrder", mock.Anything, mock.Anything).Return(nil)

	body, _ := json.Marshal(models.CreateOrderRequest{GuestID: "g1", Cocktail: "Mojito"})
	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp utils.APIResponse
	err := json.Unmarshal(rec.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.True(t, resp.Success)
}

func TestPlaceOrderEndpointRejectsExhaustedBalance(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockGuests := new(MockGuestStore)
	_, router := setupHandler(mockDB, mockGuests)

	guest := &models.Guest{ID: "g1", Coupons: 0}
	mockGuests.On("GetGuestByID", mock.Anything, "g1").Return(guest, nil)
	mockGuests.On("DecrementCoupons", mock.Anything, "g1").Return(nil, nil)

	body, _ := json.Marshal(models.CreateOrderRequest{GuestID: "g1", Cocktail: "Mojito"})
	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp utils.APIResponse
	err := json.Unmarshal(rec.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "REJECTED", resp.Error)
}

func TestPlaceOrderEndpointValidation(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockGuests := new(MockGuestStore)
	_, router := setupHandler(mockDB, mockGuests)

	// Missing cocktail
	body, _ := json.Marshal(map[string]string{"guestId": "g1"})
	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockGuests.AssertNotCalled(t, "GetGuestByID", mock.Anything, mock.Anything)
}

func TestCompleteOrderEndpointNotFound(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockGuests := new(MockGuestStore)
	_, router := setupHandler(mockDB, mockGuests)

	mockDB.On("GetOrderByID", mock.Anything, "missing").Return(nil, nil)

	req := httptest.NewRequest(http.MethodPut, "/api/orders/missing/complete", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp utils.APIResponse
	err := json.Unmarshal(rec.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.Equal(t, "NOT_FOUND", resp.Error)
}

func TestGetPendingOrdersEndpoint(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockGuests := new(MockGuestStore)
	_, router := setupHandler(mockDB, mockGuests)

	pending := []models.Order{
		{ID: "o1", GuestID: "g1", Cocktail: "Mojito", Status: models.OrderStatusPending},
	}
	guest := &models.Guest{ID: "g1", Email: "alice@example.com"}

	mockDB.On("ListPendingOrders", mock.Anything).Return(pending, nil)
	mockGuests.On("GetGuestByID", mock.Anything, "g1").Return(guest, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/orders/pending", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp utils.APIResponse
	err := json.Unmarshal(rec.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.True(t, resp.Success)
}
