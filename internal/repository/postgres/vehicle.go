package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/fleetlink/fleetlink/internal/domain"
	"github.com/fleetlink/fleetlink/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type vehicleRepository struct {
	db *pgxpool.Pool
}

func NewVehicleRepository(db *pgxpool.Pool) repository.VehicleRepository {
	return &vehicleRepository{db: db}
}

func (r *vehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	query := `
		INSERT INTO vehicles (id, owner_id, name, capacity_kg, tyres, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	vehicle.ID = uuid.New()
	vehicle.CreatedAt = time.Now()
	vehicle.UpdatedAt = time.Now()

	_, err := r.db.Exec(ctx, query,
		vehicle.ID,
		vehicle.OwnerID,
		vehicle.Name,
		vehicle.CapacityKG,
		vehicle.Tyres,
		vehicle.CreatedAt,
		vehicle.UpdatedAt,
	)

	return err
}

func (r *vehicleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error) {
	query := `
		SELECT id, owner_id, name, capacity_kg, tyres, created_at, updated_at
		FROM vehicles
		WHERE id = $1
	`

	vehicle := &domain.Vehicle{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&vehicle.ID,
		&vehicle.OwnerID,
		&vehicle.Name,
		&vehicle.CapacityKG,
		&vehicle.Tyres,
		&vehicle.CreatedAt,
		&vehicle.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVehicleNotFound
		}
		return nil, err
	}

	return vehicle, nil
}

func (r *vehicleRepository) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*domain.Vehicle, error) {
	query := `
		SELECT id, owner_id, name, capacity_kg, tyres, created_at, updated_at
		FROM vehicles
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanVehicles(rows)
}

func (r *vehicleRepository) GetByMinCapacity(ctx context.Context, capacityKG int) ([]*domain.Vehicle, error) {
	query := `
		SELECT id, owner_id, name, capacity_kg, tyres, created_at, updated_at
		FROM vehicles
		WHERE capacity_kg >= $1
		ORDER BY capacity_kg ASC
	`

	rows, err := r.db.Query(ctx, query, capacityKG)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanVehicles(rows)
}

func (r *vehicleRepository) UpdateOwned(ctx context.Context, vehicle *domain.Vehicle, ownerID uuid.UUID) error {
	query := `
		UPDATE vehicles
		SET name = $3, capacity_kg = $4, tyres = $5, updated_at = $6
		WHERE id = $1 AND owner_id = $2
	`

	vehicle.UpdatedAt = time.Now()

	result, err := r.db.Exec(ctx, query,
		vehicle.ID,
		ownerID,
		vehicle.Name,
		vehicle.CapacityKG,
		vehicle.Tyres,
		vehicle.UpdatedAt,
	)

	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrVehicleNotFound
	}

	return nil
}

func (r *vehicleRepository) DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) error {
	query := `
		DELETE FROM vehicles
		WHERE id = $1 AND owner_id = $2
	`

	result, err := r.db.Exec(ctx, query, id, ownerID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrVehicleNotFound
	}

	return nil
}

func scanVehicles(rows pgx.Rows) ([]*domain.Vehicle, error) {
	var vehicles []*domain.Vehicle
	for rows.Next() {
		vehicle := &domain.Vehicle{}
		err := rows.Scan(
			&vehicle.ID,
			&vehicle.OwnerID,
			&vehicle.Name,
			&vehicle.CapacityKG,
			&vehicle.Tyres,
			&vehicle.CreatedAt,
			&vehicle.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, vehicle)
	}

	return vehicles, rows.Err()
}
