package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/fleetlink/fleetlink/internal/domain"
	"github.com/fleetlink/fleetlink/internal/pkg/hash"
	"github.com/fleetlink/fleetlink/internal/pkg/jwt"
	"github.com/fleetlink/fleetlink/internal/pkg/logger"
	"github.com/fleetlink/fleetlink/internal/pkg/validate"
	"github.com/fleetlink/fleetlink/internal/repository"
	"github.com/google/uuid"
)

// RegisterRequest is a signup request.
type RegisterRequest struct {
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=8"`
	FullName string          `json:"full_name" validate:"required"`
	Role     domain.UserRole `json:"role,omitempty"`
}

// LoginRequest is a login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the user and an access token.
type LoginResponse struct {
	User        *domain.User `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresAt   string       `json:"expires_at"`
}

// Service contains registration and login logic.
type Service struct {
	userRepo     repository.UserRepository
	tokenService *jwt.TokenService
	logger       logger.Logger
}

// NewService creates an auth service.
func NewService(
	userRepo repository.UserRepository,
	tokenService *jwt.TokenService,
	logger logger.Logger,
) *Service {
	return &Service{
		userRepo:     userRepo,
		tokenService: tokenService,
		logger:       logger,
	}
}

// Register creates a new user account. The role defaults to "user".
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*domain.User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidUserData, err)
	}

	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrUserAlreadyExists
	}

	passwordHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:        req.Email,
		PasswordHash: passwordHash,
		FullName:     req.FullName,
		Role:         req.Role,
		IsActive:     true,
	}
	if user.Role == "" {
		user.Role = domain.RoleUser
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("Failed to create user", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered", map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	})

	user.PasswordHash = ""
	return user, nil
}

// Login verifies credentials and issues an access token.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidUserData, err)
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	token, err := s.tokenService.Generate(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("User logged in", map[string]interface{}{
		"user_id": user.ID,
	})

	user.PasswordHash = ""
	return &LoginResponse{
		User:        user,
		AccessToken: token.AccessToken,
		ExpiresAt:   token.ExpiresAt.Format("2006-01-02T15:04:05Z07:00"),
	}, nil
}

// GetUserByID returns a user by ID with the password hash stripped.
func (s *Service) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}
