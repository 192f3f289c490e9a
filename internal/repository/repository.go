package repository

import (
	"context"

	"github.com/fleetlink/fleetlink/internal/domain"
	"github.com/google/uuid"
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	// Create persists a new user.
	Create(ctx context.Context, user *domain.User) error

	// GetByID returns a user by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail returns a user by email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// VehicleRepository defines vehicle persistence operations.
type VehicleRepository interface {
	// Create persists a new vehicle.
	Create(ctx context.Context, vehicle *domain.Vehicle) error

	// GetByID returns a vehicle by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error)

	// GetByOwnerID returns all vehicles registered by an administrator.
	GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*domain.Vehicle, error)

	// GetByMinCapacity returns all vehicles with capacity_kg >= capacityKG.
	GetByMinCapacity(ctx context.Context, capacityKG int) ([]*domain.Vehicle, error)

	// UpdateOwned updates a vehicle if and only if it is owned by ownerID.
	// Returns domain.ErrVehicleNotFound when the vehicle is absent or owned
	// by someone else.
	UpdateOwned(ctx context.Context, vehicle *domain.Vehicle, ownerID uuid.UUID) error

	// DeleteOwned deletes a vehicle if and only if it is owned by ownerID.
	// Returns domain.ErrVehicleNotFound when the vehicle is absent or owned
	// by someone else.
	DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) error
}

// BookingRepository defines booking persistence operations.
type BookingRepository interface {
	// CreateIfAvailable atomically checks the vehicle's live bookings against
	// booking.Window() and inserts the booking when no conflict exists.
	// Returns domain.ErrBookingConflict when the slot is taken. The
	// check-then-insert sequence is serialized per vehicle so that two
	// concurrent creations for overlapping windows cannot both succeed.
	CreateIfAvailable(ctx context.Context, booking *domain.Booking) error

	// GetByID returns a booking by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)

	// ListByCustomer returns the bookings created by a customer, enriched
	// with the referenced vehicle and customer.
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*domain.Booking, error)

	// ListByVehicleOwner returns the bookings referencing any vehicle owned
	// by an administrator, enriched with the referenced vehicle and customer.
	ListByVehicleOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Booking, error)

	// FindConflictingVehicleIDs returns the subset of vehicleIDs that have at
	// least one live booking overlapping the window.
	FindConflictingVehicleIDs(ctx context.Context, vehicleIDs []uuid.UUID, window domain.Window) ([]uuid.UUID, error)

	// Delete permanently removes a booking.
	// Returns domain.ErrBookingNotFound when the booking is absent.
	Delete(ctx context.Context, id uuid.UUID) error
}
