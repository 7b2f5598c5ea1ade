package entities

import "time"

// Quote is a non-persisting preview of a reservation: same pricing and spot
// suggestion as a real booking, minus identifiers. Computed fresh on every
// request; the conversation layer may cache one between the quote and
// confirmation turns.
type Quote struct {
	LotName         string    `json:"lot_name"`
	VehicleReg      string    `json:"vehicle_reg"`
	VehicleType     string    `json:"vehicle_type"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
	DurationHours   float64   `json:"duration_hours"`
	PriceCents      int       `json:"price_cents"`
	Available       bool      `json:"available"`
	SuggestedSpot   int       `json:"suggested_spot,omitempty"`
	SuggestedLabel  string    `json:"suggested_label,omitempty"`
}
