package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fleetlink/fleetlink/internal/domain"
	"github.com/fleetlink/fleetlink/internal/pkg/logger"
	"github.com/fleetlink/fleetlink/internal/pkg/validate"
	"github.com/fleetlink/fleetlink/internal/repository"
	"github.com/google/uuid"
)

// CreateBookingRequest is a request to reserve a vehicle.
type CreateBookingRequest struct {
	VehicleID   uuid.UUID `json:"vehicle_id" validate:"required"`
	FromPincode string    `json:"from_pincode" validate:"required"`
	ToPincode   string    `json:"to_pincode" validate:"required"`
	StartTime   time.Time `json:"start_time" validate:"required"`
}

// Service contains the booking lifecycle logic: creation with conflict
// detection, role-scoped listing and authorized cancellation.
type Service struct {
	bookingRepo repository.BookingRepository
	vehicleRepo repository.VehicleRepository
	logger      logger.Logger
}

// NewService creates a booking service.
func NewService(
	bookingRepo repository.BookingRepository,
	vehicleRepo repository.VehicleRepository,
	logger logger.Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		vehicleRepo: vehicleRepo,
		logger:      logger,
	}
}

// CreateBooking reserves a vehicle for the window derived from the request.
// The window end is start + |to-from| mod 24 hours. Creation fails with
// domain.ErrBookingConflict when any live booking for the vehicle overlaps
// the window; the check and the insert are atomic per vehicle.
func (s *Service) CreateBooking(ctx context.Context, caller domain.Identity, req *CreateBookingRequest) (*domain.Booking, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidBookingData, err)
	}

	if _, err := s.vehicleRepo.GetByID(ctx, req.VehicleID); err != nil {
		if errors.Is(err, domain.ErrVehicleNotFound) {
			return nil, domain.ErrVehicleNotFound
		}
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}

	durationHours, err := domain.EstimateRideDurationHours(req.FromPincode, req.ToPincode)
	if err != nil {
		return nil, err
	}

	window := domain.ComputeWindow(req.StartTime, durationHours)

	booking := &domain.Booking{
		VehicleID:   req.VehicleID,
		FromPincode: req.FromPincode,
		ToPincode:   req.ToPincode,
		StartTime:   window.Start,
		EndTime:     window.End,
		CustomerID:  caller.UserID,
	}

	if err := s.bookingRepo.CreateIfAvailable(ctx, booking); err != nil {
		if errors.Is(err, domain.ErrBookingConflict) {
			s.logger.Warn("Booking slot conflict", map[string]interface{}{
				"vehicle_id": req.VehicleID,
				"start_time": window.Start,
				"end_time":   window.End,
			})
			return nil, domain.ErrBookingConflict
		}
		s.logger.Error("Failed to create booking", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.logger.Info("Booking created", map[string]interface{}{
		"booking_id": booking.ID,
		"vehicle_id": booking.VehicleID,
		"customer":   booking.CustomerID,
	})

	return booking, nil
}

// ListBookings returns the caller's bookings. Administrators see bookings on
// the vehicles they own; customers see the bookings they created. Records are
// enriched with the referenced vehicle and customer.
func (s *Service) ListBookings(ctx context.Context, caller domain.Identity) ([]*domain.Booking, error) {
	if caller.IsAdmin() {
		return s.bookingRepo.ListByVehicleOwner(ctx, caller.UserID)
	}
	return s.bookingRepo.ListByCustomer(ctx, caller.UserID)
}

// CancelBooking permanently removes a booking. A customer may cancel only
// their own booking; an administrator may cancel only bookings referencing a
// vehicle they own.
func (s *Service) CancelBooking(ctx context.Context, caller domain.Identity, bookingID uuid.UUID) error {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, domain.ErrBookingNotFound) {
			return domain.ErrBookingNotFound
		}
		return fmt.Errorf("failed to get booking: %w", err)
	}

	if caller.IsAdmin() {
		vehicle, err := s.vehicleRepo.GetByID(ctx, booking.VehicleID)
		if err != nil {
			if errors.Is(err, domain.ErrVehicleNotFound) {
				return domain.ErrVehicleNotFound
			}
			return fmt.Errorf("failed to get vehicle for booking: %w", err)
		}
		if vehicle.OwnerID != caller.UserID {
			return domain.ErrForbidden
		}
	} else if booking.CustomerID != caller.UserID {
		return domain.ErrForbidden
	}

	if err := s.bookingRepo.Delete(ctx, bookingID); err != nil {
		if errors.Is(err, domain.ErrBookingNotFound) {
			return domain.ErrBookingNotFound
		}
		return fmt.Errorf("failed to delete booking: %w", err)
	}

	s.logger.Info("Booking cancelled", map[string]interface{}{
		"booking_id": bookingID,
		"caller":     caller.UserID,
		"role":       caller.Role,
	})

	return nil
}
