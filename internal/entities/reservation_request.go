package entities

// ReservationRequest is the payload for creating a reservation. Timestamps
// are ISO-8601 strings, with or without a zone (naive means UTC). The caller
// provides either an explicit end_time or one of the duration fields; price
// and spot are always computed server-side.
type ReservationRequest struct {
	CustomerName    string   `json:"customer_name"`
	Email           string   `json:"email,omitempty"`
	Phone           string   `json:"phone,omitempty"`
	VehicleReg      string   `json:"vehicle_reg"`
	VehicleType     string   `json:"vehicle_type,omitempty"`
	StartTime       string   `json:"start_time,omitempty"`
	EndTime         string   `json:"end_time,omitempty"`
	DurationHours   *float64 `json:"duration_hours,omitempty"`
	DurationMinutes *int     `json:"duration_minutes,omitempty"`
}

// QuoteRequest asks for a non-persisting price and availability preview.
type QuoteRequest struct {
	VehicleReg      string   `json:"vehicle_reg"`
	VehicleType     string   `json:"vehicle_type,omitempty"`
	StartTime       string   `json:"start_time,omitempty"`
	EndTime         string   `json:"end_time,omitempty"`
	DurationHours   *float64 `json:"duration_hours,omitempty"`
	DurationMinutes *int     `json:"duration_minutes,omitempty"`
}
