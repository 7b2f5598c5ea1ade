package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"rapidpark/internal/db"
)

type ReservationRepository struct {
	DB *sql.DB
}

func NewReservationRepository(database *sql.DB) *ReservationRepository {
	return &ReservationRepository{DB: database}
}

const schema = `
CREATE TABLE IF NOT EXISTS reservations (
	id SERIAL PRIMARY KEY,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	customer_name TEXT NOT NULL,
	email TEXT,
	phone TEXT,
	vehicle_reg TEXT NOT NULL,
	vehicle_type TEXT NOT NULL DEFAULT 'car',
	lot_name TEXT NOT NULL,
	spot_number INT NOT NULL,
	start_time TIMESTAMPTZ NOT NULL,
	end_time TIMESTAMPTZ NOT NULL,
	price_cents INT NOT NULL,
	confirmation_code TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'confirmed',
	CHECK (end_time > start_time)
);
CREATE INDEX IF NOT EXISTS idx_reservations_lot_status ON reservations (lot_name, status);
CREATE INDEX IF NOT EXISTS idx_reservations_code ON reservations (confirmation_code);

CREATE TABLE IF NOT EXISTS admins (
	id SERIAL PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL
);
`

// EnsureSchema creates the tables on startup. Simple demo bootstrap; a real
// deployment would run versioned migrations instead.
func (r *ReservationRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("error creating schema: %w", err)
	}
	return nil
}

// CreateReservation inserts the reservation and fills in its ID and
// creation timestamp.
func (r *ReservationRepository) CreateReservation(ctx context.Context, res *db.Reservation) error {
	query := `
		INSERT INTO reservations
		(customer_name, email, phone, vehicle_reg, vehicle_type, lot_name, spot_number, start_time, end_time, price_cents, confirmation_code, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at`
	err := r.DB.QueryRowContext(ctx, query,
		res.CustomerName,
		res.Email,
		res.Phone,
		res.VehicleReg,
		res.VehicleType,
		res.LotName,
		res.SpotNumber,
		res.StartTime,
		res.EndTime,
		res.PriceCents,
		res.ConfirmationCode,
		res.Status,
	).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting reservation: %w", err)
	}
	return nil
}

// ConfirmedIntervals returns (spot, start, end) for every confirmed
// reservation in the lot. The allocator groups these by spot.
func (r *ReservationRepository) ConfirmedIntervals(ctx context.Context, lotName string) ([]db.SpotInterval, error) {
	query := `
		SELECT spot_number, start_time, end_time
		FROM reservations
		WHERE lot_name = $1 AND status = $2`
	rows, err := r.DB.QueryContext(ctx, query, lotName, db.StatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("error querying confirmed intervals: %w", err)
	}
	defer rows.Close()

	var intervals []db.SpotInterval
	for rows.Next() {
		var iv db.SpotInterval
		if err := rows.Scan(&iv.SpotNumber, &iv.StartTime, &iv.EndTime); err != nil {
			return nil, fmt.Errorf("error scanning interval: %w", err)
		}
		intervals = append(intervals, iv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating intervals: %w", err)
	}
	return intervals, nil
}

// ListReservations returns the most recent reservations first, bounded by limit.
func (r *ReservationRepository) ListReservations(ctx context.Context, limit int) ([]db.Reservation, error) {
	query := `
		SELECT id, created_at, customer_name, email, phone, vehicle_reg, vehicle_type,
		       lot_name, spot_number, start_time, end_time, price_cents, confirmation_code, status
		FROM reservations
		ORDER BY id DESC
		LIMIT $1`
	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying reservations: %w", err)
	}
	defer rows.Close()

	var out []db.Reservation
	for rows.Next() {
		var res db.Reservation
		if err := rows.Scan(
			&res.ID, &res.CreatedAt, &res.CustomerName, &res.Email, &res.Phone,
			&res.VehicleReg, &res.VehicleType, &res.LotName, &res.SpotNumber,
			&res.StartTime, &res.EndTime, &res.PriceCents, &res.ConfirmationCode, &res.Status,
		); err != nil {
			return nil, fmt.Errorf("error scanning reservation: %w", err)
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating reservations: %w", err)
	}
	return out, nil
}

// GetReservationByCode looks a reservation up by its confirmation code.
func (r *ReservationRepository) GetReservationByCode(ctx context.Context, code string) (*db.Reservation, error) {
	query := `
		SELECT id, created_at, customer_name, email, phone, vehicle_reg, vehicle_type,
		       lot_name, spot_number, start_time, end_time, price_cents, confirmation_code, status
		FROM reservations
		WHERE confirmation_code = $1
		ORDER BY id DESC
		LIMIT 1`
	var res db.Reservation
	err := r.DB.QueryRowContext(ctx, query, code).Scan(
		&res.ID, &res.CreatedAt, &res.CustomerName, &res.Email, &res.Phone,
		&res.VehicleReg, &res.VehicleType, &res.LotName, &res.SpotNumber,
		&res.StartTime, &res.EndTime, &res.PriceCents, &res.ConfirmationCode, &res.Status,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("reservation with code '%s' not found: %w", code, err)
		}
		return nil, fmt.Errorf("error querying reservation: %w", err)
	}
	return &res, nil
}

// DeleteReservation removes a reservation. Administrative action only;
// there is no user-facing cancel.
func (r *ReservationRepository) DeleteReservation(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting reservation %d: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
