package users

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
	CreateUser(ctx context.Context, user models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CountUsers(ctx context.Context) (int64, error)
}

type UserService struct {
	DB       DBLayer
	Secret   []byte
	TokenTTL time.Duration
}

func NewUserService(db DBLayer, secret []byte, tokenTTL time.Duration) *UserService {
	return &UserService{DB: db, Secret: secret, TokenTTL: tokenTTL}
}

// Register creates a platform user. The first-ever user is auto-promoted to
// admin; after that, minting an admin requires an admin caller.
func (s *UserService) Register(ctx context.Context, email, password, requestedRole string, callerIsAdmin bool) (*models.User, error) {
	existing, err := s.DB.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateUser
	}

	count, err := s.DB.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	role := models.RoleUser
	if count == 0 {
		role = models.RoleAdmin
	} else if requestedRole == models.RoleAdmin {
		if !callerIsAdmin {
			return nil, ErrAdminRequired
		}
		role = models.RoleAdmin
	} else if requestedRole != "" {
		role = requestedRole
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hashed),
		Role:         role,
	}
	if err := s.DB.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

// Login checks credentials and issues a signed token. Missing user and
// wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.DB.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch user: %w", err)
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := auth.IssueUserToken(s.Secret, *user, s.TokenTTL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return user, token, nil
}
