package db

import (
	"database/sql"
	"time"
)

// Reservation statuses.
const (
	StatusConfirmed = "confirmed"
	StatusFinished  = "finished"
)

// Vehicle types accepted by the lot.
const (
	VehicleCar        = "car"
	VehicleMotorcycle = "motorcycle"
	VehicleTruck      = "truck"
)

// Reservation is a row in the reservations table. Rows are immutable after
// creation except for the status sweep that marks them finished.
type Reservation struct {
	ID               int
	CreatedAt        time.Time
	CustomerName     string
	Email            sql.NullString
	Phone            sql.NullString
	VehicleReg       string
	VehicleType      string
	LotName          string
	SpotNumber       int
	StartTime        time.Time
	EndTime          time.Time
	PriceCents       int
	ConfirmationCode string
	Status           string
}

// Admin is a row in the admins table.
type Admin struct {
	ID           int
	Email        string
	PasswordHash string
}

// SpotInterval is the slice of a reservation the allocator cares about:
// which spot it holds and for which half-open interval.
type SpotInterval struct {
	SpotNumber int
	StartTime  time.Time
	EndTime    time.Time
}
