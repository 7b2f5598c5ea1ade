package entities

import "time"

// ReservationResponse is the API shape of a persisted reservation.
type ReservationResponse struct {
	ID               int       `json:"id"`
	ConfirmationCode string    `json:"confirmation_code"`
	CustomerName     string    `json:"customer_name"`
	Email            string    `json:"email,omitempty"`
	Phone            string    `json:"phone,omitempty"`
	VehicleReg       string    `json:"vehicle_reg"`
	VehicleType      string    `json:"vehicle_type"`
	LotName          string    `json:"lot_name"`
	SpotNumber       int       `json:"spot_number"`
	SpotLabel        string    `json:"spot_label"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	DurationMinutes  int       `json:"duration_minutes"`
	PriceCents       int       `json:"price_cents"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}

// ReservationsList wraps a bounded listing, most recent first.
type ReservationsList struct {
	Total        int                   `json:"total"`
	Limit        int                   `json:"limit"`
	Reservations []ReservationResponse `json:"reservations"`
}
