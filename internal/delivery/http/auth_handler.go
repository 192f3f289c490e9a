package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fleetlink/fleetlink/internal/delivery/http/middleware"
	"github.com/fleetlink/fleetlink/internal/domain"
	"github.com/fleetlink/fleetlink/internal/pkg/logger"
	"github.com/fleetlink/fleetlink/internal/usecase/auth"
	"github.com/google/uuid"
)

// AuthService defines the auth operations the handler depends on.
type AuthService interface {
	Register(ctx context.Context, req *auth.RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, req *auth.LoginRequest) (*auth.LoginResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// AuthHandler handles signup and login.
type AuthHandler struct {
	authService AuthService
	logger      logger.Logger
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(authService AuthService, logger logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register creates a new account.
// POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserAlreadyExists):
			respondError(w, http.StatusConflict, "User already exists")
		case errors.Is(err, domain.ErrInvalidUserData), errors.Is(err, domain.ErrInvalidRole):
			respondError(w, http.StatusBadRequest, "Invalid user data")
		default:
			h.logger.Error("Failed to register user", map[string]interface{}{
				"error": err.Error(),
			})
			respondError(w, http.StatusInternalServerError, "Failed to register user")
		}
		return
	}

	respondData(w, http.StatusCreated, user)
}

// Login verifies credentials and returns an access token.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	response, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			respondError(w, http.StatusUnauthorized, "Invalid credentials")
		case errors.Is(err, domain.ErrUserInactive):
			respondError(w, http.StatusForbidden, "User account is inactive")
		case errors.Is(err, domain.ErrInvalidUserData):
			respondError(w, http.StatusBadRequest, "Invalid login data")
		default:
			h.logger.Error("Failed to login user", map[string]interface{}{
				"error": err.Error(),
			})
			respondError(w, http.StatusInternalServerError, "Failed to login")
		}
		return
	}

	respondData(w, http.StatusOK, response)
}

// GetMe returns the calling user.
// GET /api/v1/auth/me
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.authService.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error("Failed to get user", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to get user")
		return
	}

	respondData(w, http.StatusOK, user)
}
