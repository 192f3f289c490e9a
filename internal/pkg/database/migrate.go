package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate ensures the required tables exist. Statements are idempotent,
// so running it on every startup is safe.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			full_name TEXT NOT NULL,
			role TEXT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS vehicles (
			id UUID PRIMARY KEY,
			owner_id UUID NOT NULL REFERENCES users(id),
			name TEXT NOT NULL,
			capacity_kg INTEGER NOT NULL CHECK (capacity_kg > 0),
			tyres INTEGER NOT NULL CHECK (tyres > 0),
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS bookings (
			id UUID PRIMARY KEY,
			vehicle_id UUID NOT NULL REFERENCES vehicles(id) ON DELETE CASCADE,
			from_pincode TEXT NOT NULL,
			to_pincode TEXT NOT NULL,
			start_time TIMESTAMPTZ NOT NULL,
			end_time TIMESTAMPTZ NOT NULL,
			customer_id UUID NOT NULL REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL,
			CHECK (end_time >= start_time)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_vehicles_capacity ON vehicles (capacity_kg)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_vehicle_window ON bookings (vehicle_id, start_time, end_time)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_customer ON bookings (customer_id)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement: %w", err)
		}
	}

	return nil
}
