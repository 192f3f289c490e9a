package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fleetlink/fleetlink/internal/delivery/http/middleware"
	"github.com/fleetlink/fleetlink/internal/domain"
	"github.com/fleetlink/fleetlink/internal/pkg/logger"
	"github.com/fleetlink/fleetlink/internal/usecase/booking"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// BookingService defines the booking operations the handler depends on.
type BookingService interface {
	CreateBooking(ctx context.Context, caller domain.Identity, req *booking.CreateBookingRequest) (*domain.Booking, error)
	ListBookings(ctx context.Context, caller domain.Identity) ([]*domain.Booking, error)
	CancelBooking(ctx context.Context, caller domain.Identity, bookingID uuid.UUID) error
}

// BookingHandler handles booking requests.
type BookingHandler struct {
	bookingService BookingService
	logger         logger.Logger
}

// NewBookingHandler creates a booking handler.
func NewBookingHandler(bookingService BookingService, logger logger.Logger) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		logger:         logger,
	}
}

// CreateBooking reserves a vehicle for the requested route and start time.
// POST /api/v1/bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req booking.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	b, err := h.bookingService.CreateBooking(r.Context(), claims.Identity(), &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidBookingData), errors.Is(err, domain.ErrInvalidPincode):
			respondError(w, http.StatusBadRequest, "All fields are required")
		case errors.Is(err, domain.ErrVehicleNotFound):
			respondError(w, http.StatusNotFound, "Vehicle not found")
		case errors.Is(err, domain.ErrBookingConflict):
			respondError(w, http.StatusConflict, "Vehicle is already booked for this time slot")
		default:
			h.logger.Error("Failed to create booking", map[string]interface{}{
				"error": err.Error(),
			})
			respondError(w, http.StatusInternalServerError, "Failed to create booking")
		}
		return
	}

	respondData(w, http.StatusCreated, b)
}

// GetMyBookings returns the caller's bookings, scoped by role.
// GET /api/v1/bookings/me
func (h *BookingHandler) GetMyBookings(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	bookings, err := h.bookingService.ListBookings(r.Context(), claims.Identity())
	if err != nil {
		h.logger.Error("Failed to list bookings", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to list bookings")
		return
	}

	if bookings == nil {
		bookings = []*domain.Booking{}
	}
	respondData(w, http.StatusOK, bookings)
}

// CancelBooking removes a booking.
// DELETE /api/v1/bookings/{id}
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	bookingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid booking ID")
		return
	}

	if err := h.bookingService.CancelBooking(r.Context(), claims.Identity(), bookingID); err != nil {
		switch {
		case errors.Is(err, domain.ErrBookingNotFound):
			respondError(w, http.StatusNotFound, "Booking not found")
		case errors.Is(err, domain.ErrVehicleNotFound):
			respondError(w, http.StatusNotFound, "Vehicle not found for booking")
		case errors.Is(err, domain.ErrForbidden):
			respondError(w, http.StatusForbidden, "Access denied")
		default:
			h.logger.Error("Failed to cancel booking", map[string]interface{}{
				"error": err.Error(),
			})
			respondError(w, http.StatusInternalServerError, "Failed to cancel booking")
		}
		return
	}

	respondData(w, http.StatusOK, map[string]string{"message": "Booking cancelled"})
}
