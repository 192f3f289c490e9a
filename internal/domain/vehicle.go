package domain

import (
	"time"

	"github.com/google/uuid"
)

// Vehicle is a fleet vehicle registered by an administrator.
// A vehicle is mutated and deleted only by its owning administrator.
type Vehicle struct {
	ID         uuid.UUID `json:"id"`
	OwnerID    uuid.UUID `json:"owner_id"` // administrator that registered the vehicle
	Name       string    `json:"name"`
	CapacityKG int       `json:"capacity_kg"`
	Tyres      int       `json:"tyres"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Validate checks vehicle data consistency.
// Capacity and tyre count must be positive.
func (v *Vehicle) Validate() error {
	if v.OwnerID == uuid.Nil {
		return ErrInvalidVehicleData
	}
	if v.Name == "" {
		return ErrInvalidVehicleData
	}
	if v.CapacityKG <= 0 || v.Tyres <= 0 {
		return ErrInvalidVehicleData
	}
	return nil
}
