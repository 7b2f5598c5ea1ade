package entities

// ReservationEmailData feeds the confirmation ticket email.
type ReservationEmailData struct {
	CustomerName       string
	ConfirmationCode   string
	LotName            string
	SpotLabel          string
	VehicleReg         string
	StartTimeFormatted string
	EndTimeFormatted   string
	PriceDisplay       string
}
