package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fleetlink/fleetlink/internal/domain"
	"github.com/fleetlink/fleetlink/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// A live booking conflicts with a requested window [S, E] when it starts
// before E and ends after S, or starts inside [S, E]. Boundaries are
// inclusive, so windows that merely touch also conflict.
const overlapPredicate = `
	((start_time <= $2 AND end_time >= $1) OR (start_time >= $1 AND start_time <= $2))
`

type bookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) repository.BookingRepository {
	return &bookingRepository{db: db}
}

// CreateIfAvailable serializes concurrent creations for the same vehicle with
// a transaction-scoped advisory lock, then re-checks the conflict predicate
// and inserts. The lock is released at commit/rollback.
func (r *bookingRepository) CreateIfAvailable(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin booking transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, booking.VehicleID.String())
	if err != nil {
		return fmt.Errorf("acquire vehicle lock: %w", err)
	}

	window := booking.Window()

	var conflict bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE vehicle_id = $3 AND `+overlapPredicate+`
		)
	`, window.Start, window.End, booking.VehicleID).Scan(&conflict)
	if err != nil {
		return fmt.Errorf("check booking conflict: %w", err)
	}

	if conflict {
		return domain.ErrBookingConflict
	}

	booking.ID = uuid.New()
	booking.CreatedAt = time.Now()

	_, err = tx.Exec(ctx, `
		INSERT INTO bookings (id, vehicle_id, from_pincode, to_pincode, start_time, end_time, customer_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		booking.ID,
		booking.VehicleID,
		booking.FromPincode,
		booking.ToPincode,
		booking.StartTime,
		booking.EndTime,
		booking.CustomerID,
		booking.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *bookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	query := `
		SELECT id, vehicle_id, from_pincode, to_pincode, start_time, end_time, customer_id, created_at
		FROM bookings
		WHERE id = $1
	`

	booking := &domain.Booking{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.VehicleID,
		&booking.FromPincode,
		&booking.ToPincode,
		&booking.StartTime,
		&booking.EndTime,
		&booking.CustomerID,
		&booking.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}

	return booking, nil
}

// enrichedBookingQuery joins the referenced vehicle and customer so listings
// return complete records in a single round trip.
const enrichedBookingQuery = `
	SELECT b.id, b.vehicle_id, b.from_pincode, b.to_pincode, b.start_time, b.end_time, b.customer_id, b.created_at,
	       v.id, v.owner_id, v.name, v.capacity_kg, v.tyres, v.created_at, v.updated_at,
	       u.id, u.email, u.full_name, u.role, u.is_active, u.created_at, u.updated_at
	FROM bookings b
	JOIN vehicles v ON v.id = b.vehicle_id
	JOIN users u ON u.id = b.customer_id
`

func (r *bookingRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*domain.Booking, error) {
	rows, err := r.db.Query(ctx, enrichedBookingQuery+`
		WHERE b.customer_id = $1
		ORDER BY b.start_time DESC
	`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEnrichedBookings(rows)
}

func (r *bookingRepository) ListByVehicleOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Booking, error) {
	rows, err := r.db.Query(ctx, enrichedBookingQuery+`
		WHERE v.owner_id = $1
		ORDER BY b.start_time DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEnrichedBookings(rows)
}

func (r *bookingRepository) FindConflictingVehicleIDs(ctx context.Context, vehicleIDs []uuid.UUID, window domain.Window) ([]uuid.UUID, error) {
	if len(vehicleIDs) == 0 {
		return nil, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT vehicle_id FROM bookings
		WHERE vehicle_id = ANY($3) AND `+overlapPredicate+`
	`, window.Start, window.End, vehicleIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func (r *bookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrBookingNotFound
	}

	return nil
}

func scanEnrichedBookings(rows pgx.Rows) ([]*domain.Booking, error) {
	var bookings []*domain.Booking
	for rows.Next() {
		booking := &domain.Booking{
			Vehicle:  &domain.Vehicle{},
			Customer: &domain.User{},
		}
		err := rows.Scan(
			&booking.ID,
			&booking.VehicleID,
			&booking.FromPincode,
			&booking.ToPincode,
			&booking.StartTime,
			&booking.EndTime,
			&booking.CustomerID,
			&booking.CreatedAt,
			&booking.Vehicle.ID,
			&booking.Vehicle.OwnerID,
			&booking.Vehicle.Name,
			&booking.Vehicle.CapacityKG,
			&booking.Vehicle.Tyres,
			&booking.Vehicle.CreatedAt,
			&booking.Vehicle.UpdatedAt,
			&booking.Customer.ID,
			&booking.Customer.Email,
			&booking.Customer.FullName,
			&booking.Customer.Role,
			&booking.Customer.IsActive,
			&booking.Customer.CreatedAt,
			&booking.Customer.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}
