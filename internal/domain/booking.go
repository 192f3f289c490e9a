package domain

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Booking reserves a vehicle for a time window on a pincode-to-pincode route.
// Lifecycle ownership is shared: the customer that created the booking and the
// administrator that owns the vehicle may both cancel it.
type Booking struct {
	ID          uuid.UUID `json:"id"`
	VehicleID   uuid.UUID `json:"vehicle_id"`
	FromPincode string    `json:"from_pincode"`
	ToPincode   string    `json:"to_pincode"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	CustomerID  uuid.UUID `json:"customer_id"`
	CreatedAt   time.Time `json:"created_at"`

	// Joined data, populated by enriched listing queries.
	Vehicle  *Vehicle `json:"vehicle,omitempty"`
	Customer *User    `json:"customer,omitempty"`
}

// Window is a reservation interval [Start, End].
type Window struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two windows conflict.
//
// The test is inclusive on both boundaries: windows that merely touch
// (one ends exactly when the other starts) count as conflicting, so
// back-to-back bookings on the same vehicle are rejected.
func (w Window) Overlaps(other Window) bool {
	return !w.Start.After(other.End) && !w.End.Before(other.Start)
}

// EstimateRideDurationHours derives the ride duration in whole hours from the
// origin and destination pincodes: |to - from| mod 24. A placeholder for a real
// routing distance; equal pincodes yield a zero-length window, which is allowed.
func EstimateRideDurationHours(fromPincode, toPincode string) (int, error) {
	from, err := strconv.Atoi(fromPincode)
	if err != nil {
		return 0, ErrInvalidPincode
	}
	to, err := strconv.Atoi(toPincode)
	if err != nil {
		return 0, ErrInvalidPincode
	}

	diff := to - from
	if diff < 0 {
		diff = -diff
	}
	return diff % 24, nil
}

// ComputeWindow builds the reservation window for a ride starting at start
// and lasting durationHours.
func ComputeWindow(start time.Time, durationHours int) Window {
	return Window{
		Start: start,
		End:   start.Add(time.Duration(durationHours) * time.Hour),
	}
}

// Window returns the booking's reservation window.
func (b *Booking) Window() Window {
	return Window{Start: b.StartTime, End: b.EndTime}
}
