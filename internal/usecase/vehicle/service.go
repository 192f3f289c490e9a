package vehicle

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

// VehicleRequest carries the mutable vehicle fields for create and update.
type VehicleRequest struct {
	Name       string `json:"name" validate:"required"`
	CapacityKG int    `json:"capacity_kg" validate:"required,gt=0"`
	Tyres      int    `json:"tyres" validate:"required,gt=0"`
}

// SearchAvailableRequest asks for vehicles free for a route and start time.
type SearchAvailableRequest struct {
	CapacityRequired int       `json:"capacity_required" validate:"required,gt=0"`
	FromPincode      string    `json:"from_pincode" validate:"required"`
	ToPincode        string    `json:"to_pincode" validate:"required"`
	StartTime        time.Time `json:"start_time" validate:"required"`
}

// SearchAvailableResult is the availability search response.
type SearchAvailableResult struct {
	Vehicles                   []*domain.Vehicle `json:"vehicles"`
	EstimatedRideDurationHours int               `json:"estimated_ride_duration_hours"`
}

// Service contains vehicle registry logic and the availability search.
type Service struct {
	vehicleRepo repository.VehicleRepository
	bookingRepo repository.BookingRepository
	logger      logger.Logger
}

// NewService creates a vehicle service.
func NewService(
	vehicleRepo repository.VehicleRepository,
	bookingRepo repository.BookingRepository,
	logger logger.Logger,
) *Service {
	return &Service{
		vehicleRepo: vehicleRepo,
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// CreateVehicle registers a vehicle owned by the calling administrator.
func (s *Service) CreateVehicle(ctx context.Context, caller domain.Identity, req *VehicleRequest) (*domain.Vehicle, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidVehicleData, err)
	}

	vehicle := &domain.Vehicle{
		OwnerID:    caller.UserID,
		Name:       req.Name,
		CapacityKG: req.CapacityKG,
		Tyres:      req.Tyres,
	}

	if err := vehicle.Validate(); err != nil {
		return nil, err
	}

	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		s.logger.Error("Failed to create vehicle", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to create vehicle: %w", err)
	}

	s.logger.Info("Vehicle created", map[string]interface{}{
		"vehicle_id": vehicle.ID,
		"owner_id":   vehicle.OwnerID,
	})

	return vehicle, nil
}

// GetMyVehicles returns all vehicles registered by the calling administrator.
func (s *Service) GetMyVehicles(ctx context.Context, caller domain.Identity) ([]*domain.Vehicle, error) {
	return s.vehicleRepo.GetByOwnerID(ctx, caller.UserID)
}

// UpdateVehicle updates a vehicle owned by the caller. Fails with
// domain.ErrVehicleNotFound when the vehicle is absent or owned by another
// administrator.
func (s *Service) UpdateVehicle(ctx context.Context, caller domain.Identity, vehicleID uuid.UUID, req *VehicleRequest) (*domain.Vehicle, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidVehicleData, err)
	}

	vehicle := &domain.Vehicle{
		ID:         vehicleID,
		OwnerID:    caller.UserID,
		Name:       req.Name,
		CapacityKG: req.CapacityKG,
		Tyres:      req.Tyres,
	}

	if err := vehicle.Validate(); err != nil {
		return nil, err
	}

	if err := s.vehicleRepo.UpdateOwned(ctx, vehicle, caller.UserID); err != nil {
		return nil, err
	}

	return s.vehicleRepo.GetByID(ctx, vehicleID)
}

// DeleteVehicle deletes a vehicle owned by the caller.
func (s *Service) DeleteVehicle(ctx context.Context, caller domain.Identity, vehicleID uuid.UUID) error {
	if err := s.vehicleRepo.DeleteOwned(ctx, vehicleID, caller.UserID); err != nil {
		return err
	}

	s.logger.Info("Vehicle deleted", map[string]interface{}{
		"vehicle_id": vehicleID,
		"owner_id":   caller.UserID,
	})

	return nil
}

// SearchAvailable returns the vehicles with sufficient capacity that have no
// live booking overlapping the window derived from the route and start time,
// together with the estimated ride duration. The result is the capacity-
// filtered candidate set minus the vehicles with a conflicting booking.
func (s *Service) SearchAvailable(ctx context.Context, req *SearchAvailableRequest) (*SearchAvailableResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidVehicleData, err)
	}

	durationHours, err := domain.EstimateRideDurationHours(req.FromPincode, req.ToPincode)
	if err != nil {
		return nil, err
	}

	window := domain.ComputeWindow(req.StartTime, durationHours)

	candidates, err := s.vehicleRepo.GetByMinCapacity(ctx, req.CapacityRequired)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate vehicles: %w", err)
	}

	result := &SearchAvailableResult{
		Vehicles:                   []*domain.Vehicle{},
		EstimatedRideDurationHours: durationHours,
	}

	if len(candidates) == 0 {
		return result, nil
	}

	candidateIDs := make([]uuid.UUID, len(candidates))
	for i, v := range candidates {
		candidateIDs[i] = v.ID
	}

	conflicting, err := s.bookingRepo.FindConflictingVehicleIDs(ctx, candidateIDs, window)
	if err != nil {
		return nil, fmt.Errorf("failed to check booking conflicts: %w", err)
	}

	booked := make(map[uuid.UUID]bool, len(conflicting))
	for _, id := range conflicting {
		booked[id] = true
	}

	for _, v := range candidates {
		if !booked[v.ID] {
			result.Vehicles = append(result.Vehicles, v)
		}
	}

	return result, nil
}

// GetVehicleByID returns a vehicle by ID.
func (s *Service) GetVehicleByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrVehicleNotFound) {
			return nil, domain.ErrVehicleNotFound
		}
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}
	return vehicle, nil
}
