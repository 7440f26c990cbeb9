package users_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"ms-coupons/internal/models"
	"ms-coupons/internal/users"
)

// Mock implementations
type MockDBLayer struct {
	mock.Mock
}

func (m *MockDBLayer) CreateUser(ctx context.Context, user models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockDBLayer) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockDBLayer) CountUsers(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func newTestService(db *MockDBLayer) *users.UserService {
	return users.NewUserService(db, []byte("test-secret"), time.Hour)
}

// Tests start here
func TestRegisterFirstUserBecomesAdmin(t *testing.T) {
	// Set up mocks
	mockDB := new(MockDBLayer)
	userSvc := newTestService(mockDB)

	mockDB.On("GetUserByEmail", mock.Anything, "founder@example.com").Return(nil, nil)
	mockDB.On("CountUsers", mock.Anything).Return(int64(0), nil)
	mockDB.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Email == "founder@example.com" && u.Role == models.RoleAdmin
	})).Return(nil)

	user, err := userSvc.Register(context.Background(), "founder@example.com", "secret123", "", false)

	assert.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
	mockDB.AssertExpectations(t)
}

func TestRegisterDefaultsToUserRole(t *testing.T) {
	mockDB := new(MockDBLayer)
	userSvc := newTestService(mockDB)

	mockDB.On("GetUserByEmail", mock.Anything, "second@example.com").Return(nil, nil)
	mockDB.On("CountUsers", mock.Anything).Return(int64(1), nil)
	mockDB.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Role == models.RoleUser
	})).Return(nil)

	user, err := userSvc.Register(context.Background(), "second@example.com", "secret123", "", false)

	assert.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	mockDB.AssertExpectations(t)
}

func TestRegisterAdminRequiresAdminCaller(t *testing.T) {
	mockDB := new(MockDBLayer)
	userSvc := newTestService(mockDB)

	// Test case 1: non-admin caller is rejected
	mockDB.On("GetUserByEmail", mock.Anything, "newadmin@example.com").Return(nil, nil)
	mockDB.On("CountUsers", mock.Anything).Return(int64(3), nil)

	user, err := userSvc.Register(context.Background(), "newadmin@example.com", "secret123", models.RoleAdmin, false)

	assert.ErrorIs(t, err, users.ErrAdminRequired)
	assert.Nil(t, user)
	mockDB.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)

	// Test case 2: admin caller may mint another admin
	mockDB.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Role == models.RoleAdmin
	})).Return(nil)

	user, err = userSvc.Register(context.Background(), "newadmin@example.com", "secret123", models.RoleAdmin, true)

	assert.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	mockDB := new(MockDBLayer)
	userSvc := newTestService(mockDB)

	existing := &models.User{ID: "u1", Email: "taken@example.com", Role: models.RoleUser}
	mockDB.On("GetUserByEmail", mock.Anything, "taken@example.com").Return(existing, nil)

	user, err := userSvc.Register(context.Background(), "taken@example.com", "secret123", "", false)

	assert.ErrorIs(t, err, users.ErrDuplicateUser)
	assert.Nil(t, user)
}

func TestLogin(t *testing.T) {
	mockDB := new(MockDBLayer)
	userSvc := newTestService(mockDB)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	assert.NoError(t, err)

	stored := &models.User{ID: "u1", Email: "admin@example.com", PasswordHash: string(hash), Role: models.RoleAdmin}

	// Test case 1: valid credentials
	mockDB.On("GetUserByEmail", mock.Anything, "admin@example.com").Return(stored, nil)

	user, token, err := userSvc.Login(context.Background(), "admin@example.com", "secret123")

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, models.RoleAdmin, user.Role)

	// Test case 2: wrong password
	user, token, err = userSvc.Login(context.Background(), "admin@example.com", "wrong")

	assert.ErrorIs(t, err, users.ErrInvalidCredentials)
	assert.Empty(t, token)
	assert.Nil(t, user)

	// Test case 3: unknown email
	mockDB.On("GetUserByEmail", mock.Anything, "ghost@example.com").Return(nil, nil)

	user, token, err = userSvc.Login(context.Background(), "ghost@example.com", "secret123")

	assert.ErrorIs(t, err, users.ErrInvalidCredentials)
	assert.Empty(t, token)
	assert.Nil(t, user)
}
