package auth

import (
	"context"
	"testing"
	"time"

	"github.com/fleetlink/fleetlink/internal/domain"
	"github.com/fleetlink/fleetlink/internal/pkg/hash"
	"github.com/fleetlink/fleetlink/internal/pkg/jwt"
	"github.com/fleetlink/fleetlink/internal/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository mocks repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func newTestService(t *testing.T) (*Service, *MockUserRepository) {
	t.Helper()
	userRepo := new(MockUserRepository)
	tokenService := jwt.NewTokenService("test-secret", time.Hour)
	return NewService(userRepo, tokenService, logger.NewNoop()), userRepo
}

func TestService_Register(t *testing.T) {
	t.Run("creates a user with the default role", func(t *testing.T) {
		svc, userRepo := newTestService(t)

		userRepo.On("GetByEmail", mock.Anything, "new@example.com").
			Return(nil, domain.ErrUserNotFound)
		userRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).
			Return(nil)

		user, err := svc.Register(context.Background(), &RegisterRequest{
			Email:    "new@example.com",
			Password: "password123",
			FullName: "New User",
		})

		assert.NoError(t, err)
		assert.Equal(t, domain.RoleUser, user.Role)
		assert.True(t, user.IsActive)
		assert.Empty(t, user.PasswordHash)

		// The stored user carries a bcrypt hash, never the plain password.
		stored := userRepo.Calls[1].Arguments.Get(1).(*domain.User)
		assert.NotEqual(t, "password123", stored.PasswordHash)
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc, userRepo := newTestService(t)

		userRepo.On("GetByEmail", mock.Anything, "taken@example.com").
			Return(&domain.User{ID: uuid.New(), Email: "taken@example.com"}, nil)

		_, err := svc.Register(context.Background(), &RegisterRequest{
			Email:    "taken@example.com",
			Password: "password123",
			FullName: "Taken User",
		})

		assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
		userRepo.AssertNotCalled(t, "Create")
	})

	t.Run("short password rejected", func(t *testing.T) {
		svc, userRepo := newTestService(t)

		_, err := svc.Register(context.Background(), &RegisterRequest{
			Email:    "new@example.com",
			Password: "short",
			FullName: "New User",
		})

		assert.ErrorIs(t, err, domain.ErrInvalidUserData)
		userRepo.AssertNotCalled(t, "GetByEmail")
	})

	t.Run("admin role accepted", func(t *testing.T) {
		svc, userRepo := newTestService(t)

		userRepo.On("GetByEmail", mock.Anything, "admin@example.com").
			Return(nil, domain.ErrUserNotFound)
		userRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).
			Return(nil)

		user, err := svc.Register(context.Background(), &RegisterRequest{
			Email:    "admin@example.com",
			Password: "password123",
			FullName: "Fleet Admin",
			Role:     domain.RoleAdmin,
		})

		assert.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, user.Role)
	})
}

func TestService_Login(t *testing.T) {
	passwordHash, err := hash.HashPassword("password123")
	assert.NoError(t, err)

	activeUser := func() *domain.User {
		return &domain.User{
			ID:           uuid.New(),
			Email:        "user@example.com",
			PasswordHash: passwordHash,
			FullName:     "Test User",
			Role:         domain.RoleUser,
			IsActive:     true,
		}
	}

	t.Run("issues a token for valid credentials", func(t *testing.T) {
		svc, userRepo := newTestService(t)
		user := activeUser()

		userRepo.On("GetByEmail", mock.Anything, "user@example.com").Return(user, nil)

		resp, err := svc.Login(context.Background(), &LoginRequest{
			Email:    "user@example.com",
			Password: "password123",
		})

		assert.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Empty(t, resp.User.PasswordHash)

		// The issued token round-trips through validation.
		tokenService := jwt.NewTokenService("test-secret", time.Hour)
		claims, err := tokenService.Validate(resp.AccessToken)
		assert.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, domain.RoleUser, claims.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, userRepo := newTestService(t)

		userRepo.On("GetByEmail", mock.Anything, "user@example.com").Return(activeUser(), nil)

		_, err := svc.Login(context.Background(), &LoginRequest{
			Email:    "user@example.com",
			Password: "wrong-password",
		})

		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		svc, userRepo := newTestService(t)

		userRepo.On("GetByEmail", mock.Anything, "nobody@example.com").
			Return(nil, domain.ErrUserNotFound)

		_, err := svc.Login(context.Background(), &LoginRequest{
			Email:    "nobody@example.com",
			Password: "password123",
		})

		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("inactive account", func(t *testing.T) {
		svc, userRepo := newTestService(t)
		user := activeUser()
		user.IsActive = false

		userRepo.On("GetByEmail", mock.Anything, "user@example.com").Return(user, nil)

		_, err := svc.Login(context.Background(), &LoginRequest{
			Email:    "user@example.com",
			Password: "password123",
		})

		assert.ErrorIs(t, err, domain.ErrUserInactive)
	})
}
