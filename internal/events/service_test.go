package events_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"ms-coupons/internal/events"
	"ms-coupons/internal/models"
)

// Mock implementations
type MockDBLayer struct {
	mock.Mock
}

func (m *MockDBLayer) CreateEvent(ctx context.Context, event models.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockDBLayer) GetEventByID(ctx context.Context, id string) (*models.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *MockDBLayer) ListEvents(ctx context.Context) ([]models.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Event), args.Error(1)
}

func (m *MockDBLayer) DeleteEvent(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockDBLayer) AddGuestEmail(ctx context.Context, eventID, email string) error {
	args := m.Called(ctx, eventID, email)
	return args.Error(0)
}

func (m *MockDBLayer) RemoveGuestEmail(ctx context.Context, eventID, email string) error {
	args := m.Called(ctx, eventID, email)
	return args.Error(0)
}

type MockGuestStore struct {
	mock.Mock
}

func (m *MockGuestStore) InsertGuests(ctx context.Context, guests []models.Guest) error {
	args := m.Called(ctx, guests)
	return args.Error(0)
}

func (m *MockGuestStore) GetGuestByEmail(ctx context.Context, email, eventID string) (*models.Guest, error) {
	args := m.Called(ctx, email, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Guest), args.Error(1)
}

func (m *MockGuestStore) CreateGuest(ctx context.Context, guest models.Guest) error {
	args := m.Called(ctx, guest)
	return args.Error(0)
}

func (m *MockGuestStore) DeleteGuestByEmail(ctx context.Context, email, eventID string) error {
	args := m.Called(ctx, email, eventID)
	return args.Error(0)
}

func (m *MockGuestStore) DeleteGuestsByEvent(ctx context.Context, eventID string) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}

func newTestService(db *MockDBLayer, guests *MockGuestStore) *events.EventService {
	return events.NewEventService(db, guests, "http://localhost:3000")
}

// Tests start here
func TestCreateEventSeedsGuests(t *testing.T) {
	// Set up mocks
	mockDB := new(MockDBLayer)
	mockGuests := new(MockGuestStore)

	eventSvc := newTestService(mockDB, mockGuests)

	req := models.CreateEventRequest{
		Name:        "Launch Party",
		Date:        time.Now().Add(48 * time.Hour),
		Description: "Product launch with open bar",
		Guests:      []string{"alice@example.com", "bob@example.com"},
		Cocktails: []models.Cocktail{
			{Name: "Mojito"},
			{Name: "Negroni"},
			{Name: "Daiquiri"},
		},
	}

	mockDB.On("CreateEvent", mock.Anything, mock.MatchedBy(func(e models.Event) bool {
		return e.Name == "Launch Party" && strings.HasPrefix(e.QRCode, "data:image/png;base64,")
	})).Return(nil)
	// One unclaimed record per allowlist email, balance = menu length
	mockGuests.On("InsertGuests", mock.Anything, mock.MatchedBy(func(seeded []models.Guest) bool {
		if len(seeded) != 2 {
			return false
		}
		for _, g := range seeded {
			if g.Claimed || g.Coupons != 3 {
				return false
			}
		}
		return true
	})).Return(nil)

	event, err := eventSvc.CreateEvent(context.Background(), req)

	assert.NoError(t, err)
	assert.NotEmpty(t, event.ID)
	assert.NotEmpty(t, event.QRCode)
	// Unset default falls back to five coupons per guest
	assert.Equal(t, 5, event.DefaultCoupons)
	mockDB.AssertExpectations(t)
	mockGuests.AssertExpectations(t)
}

func TestCreateEventWithoutGuests(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockGuests := new(MockGuestStore)

	eventSvc := newTestService(mockDB, mockGuests)

	req := models.CreateEventRequest{
		Name:           "Team Drinks",
		Date:           time.Now(),
		Description:    "Small gathering",
		DefaultCoupons: 2,
	}

	mockDB.On("CreateEvent", mock.Anything, mock.Anything).Return(nil)

	event, err := eventSvc.CreateEvent(context.Background(), req)

	assert.NoError(t, err)
	assert.Equal(t, 2, event.DefaultCoupons)
	assert.NotNil(t, event.Guests)
	assert.NotNil(t, event.Cocktails)
	mockGuests.AssertNotCalled(t, "InsertGuests", mock.Anything, mock.Anything)
}

func TestGetEventNotFound(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockGuests := new(MockGuestStore)

	eventSvc := newTestService(mockDB, mockGuests)

	mockDB.On("GetEventByID", mock.Anything, "missing").Return(nil, nil)

	event, err := eventSvc.GetEvent(context.Background(), "missing")

	assert.ErrorIs(t, err, events.ErrNotFound)
	assert.Nil(t, event)
}

func TestDeleteEventCascades(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockGuests := new(MockGuestStore)

	eventSvc := newTestService(mockDB, mockGuests)

	mockDB.On("DeleteEvent", mock.Anything, "event123").Return(true, nil)
	mockGuests.On("DeleteGuestsByEvent", mock.Anything, "event123").Return(nil)

	err := eventSvc.DeleteEvent(context.Background(), "event123")

	assert.NoError(t, err)
	mockDB.AssertExpectations(t)
	mockGuests.AssertExpectations(t)
}

func TestDeleteEventNotFound(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockGuests := new(MockGuestStore)

	eventSvc := newTestService(mockDB, mockGuests)

	mockDB.On("DeleteEvent", mock.Anything, "missing").Return(false, nil)

	err := eventSvc.DeleteEvent(context.Background(), "missing")

	assert.ErrorIs(t, err, events.ErrNotFound)
	mockGuests.AssertNotCalled(t, "DeleteGuestsByEvent", mock.Anything, mock.Anything)
}

func TestAddGuest(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockGuests := new(MockGuestStore)

	eventSvc := newTestService(mockDB, mockGuests)

	event := &models.Event{
		ID:        "event123",
		Guests:    []string{"alice@example.com"},
		Cocktails: []models.Cocktail{{Name: "Mojito"}, {Name: "Negroni"}},
	}

	mockDB.On("GetEventByID", mock.Anything, "event123").Return(event, nil)
	mockDB.On("AddGuestEmail", mock.Anything, "event123", "carol@example.com").Return(nil)
	mockGuests.On("GetGuestByEmail", mock.Anything, "carol@example.com", "event123").Return(nil, nil)
	mockGuests.On("CreateGuest", mock.Anything, mock.MatchedBy(func(g models.Guest) bool {
		return g.Email == "carol@example.com" && !g.Claimed && g.Coupons == 2
	})).Return(nil)

	result, err := eventSvc.AddGuest(context.Background(), "event123", "carol@example.com")

	assert.NoError(t, err)
	assert.Contains(t, result.Guests, "carol@example.com")
	mockGuests.AssertExpectations(t)
}

func TestAddGuestDuplicate(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockGuests := new(MockGuestStore)

	eventSvc := newTestService(mockDB, mockGuests)

	event := &models.Event{ID: "event123", Guests: []string{"alice@example.com"}}

	mockDB.On("GetEventByID", mock.Anything, "event123").Return(event, nil)

	result, err := eventSvc.AddGuest(context.Background(), "event123", "alice@example.com")

	assert.ErrorIs(t, err, events.ErrDuplicateGuest)
	assert.Nil(t, result)
	mockDB.AssertNotCalled(t, "AddGuestEmail", mock.Anything, mock.Anything, mock.Anything)
}

func TestRemoveGuestDeletesRecord(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockGuests := new(MockGuestStore)

	eventSvc := newTestService(mockDB, mockGuests)

	event := &models.Event{ID: "event123", Guests: []string{"alice@example.com", "bob@example.com"}}

	mockDB.On("GetEventByID", mock.Anything, "event123").Return(event, nil)
	mockDB.On("RemoveGuestEmail", mock.Anything, "event123", "bob@example.com").Return(nil)
	mockGuests.On("DeleteGuestByEmail", mock.Anything, "bob@example.com", "event123").Return(nil)

	result, err := eventSvc.RemoveGuest(context.Background(), "event123", "bob@example.com")

	assert.NoError(t, err)
	assert.NotContains(t, result.Guests, "bob@example.com")
	assert.Contains(t, result.Guests, "alice@example.com")
	mockGuests.AssertExpectations(t)
}

func TestRemoveGuestNotOnList(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockGuests := new(MockGuestStore)

	eventSvc := newTestService(mockDB, mockGuests)

	event := &models.Event{ID: "event123", Guests: []string{"alice@example.com"}}

	mockDB.On("GetEventByID", mock.Anything, "event123").Return(event, nil)

	result, err := eventSvc.RemoveGuest(context.Background(), "event123", "ghost@example.com")

	assert.ErrorIs(t, err, events.ErrGuestNotOnList)
	assert.Nil(t, result)
	mockGuests.AssertNotCalled(t, "DeleteGuestByEmail", mock.Anything, mock.Anything, mock.Anything)
}
