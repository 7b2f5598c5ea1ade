package service

import (
	"bytes"
	"fmt"
	"html/template"
	"log"

	"rapidpark/internal/entities"
)

const ticketTimeLayout = "02 Jan 2006 15:04 MST"

var ticketTemplate = template.Must(template.New("ticket").Parse(`<html>
<body>
  <p>Hello {{.CustomerName}},</p>
  <p>Your RapidPark reservation is confirmed.</p>
  <ul>
    <li>Confirmation: <strong>{{.ConfirmationCode}}</strong></li>
    <li>Lot: {{.LotName}}</li>
    <li>Spot: {{.SpotLabel}}</li>
    <li>Vehicle: {{.VehicleReg}}</li>
    <li>Start: {{.StartTimeFormatted}}</li>
    <li>End: {{.EndTimeFormatted}}</li>
    <li>Price: {{.PriceDisplay}}</li>
  </ul>
  <p>Show this email upon arrival. Thank you for choosing RapidPark!</p>
</body>
</html>`))

// NotifyService sends confirmation tickets. Primary transport is SendGrid
// with a plain-SMTP fallback; SMS goes through Twilio. Every failure is
// logged and swallowed.
type NotifyService struct{}

func NewNotifyService() *NotifyService {
	return &NotifyService{}
}

func (s *NotifyService) SendReservationEmail(res entities.ReservationResponse) {
	data := entities.ReservationEmailData{
		CustomerName:       res.CustomerName,
		ConfirmationCode:   res.ConfirmationCode,
		LotName:            res.LotName,
		SpotLabel:          res.SpotLabel,
		VehicleReg:         res.VehicleReg,
		StartTimeFormatted: res.StartTime.Format(ticketTimeLayout),
		EndTimeFormatted:   res.EndTime.Format(ticketTimeLayout),
		PriceDisplay:       fmt.Sprintf("$%.2f", float64(res.PriceCents)/100),
	}

	subject := fmt.Sprintf("Your RapidPark Ticket %s", data.ConfirmationCode)
	plainBody := fmt.Sprintf(
		"Hello %s,\n\nYour RapidPark reservation is confirmed.\n"+
			"Confirmation: %s\nLot: %s\nSpot: %s\nVehicle: %s\nStart: %s\nEnd: %s\nPrice: %s\n\n"+
			"Show this email upon arrival.\nThank you for choosing RapidPark!\n",
		data.CustomerName, data.ConfirmationCode, data.LotName, data.SpotLabel,
		data.VehicleReg, data.StartTimeFormatted, data.EndTimeFormatted, data.PriceDisplay,
	)

	var htmlBody bytes.Buffer
	if err := ticketTemplate.Execute(&htmlBody, data); err != nil {
		log.Printf("Error rendering ticket email for %s: %v", data.ConfirmationCode, err)
	}

	if err := SendEmailWithSendGrid(res.Email, res.CustomerName, subject, plainBody, htmlBody.String()); err != nil {
		log.Printf("SendGrid delivery failed for %s, trying SMTP: %v", data.ConfirmationCode, err)
		if err := SendSMTPEmail(res.Email, subject, plainBody); err != nil {
			log.Printf("Ticket email for %s could not be delivered: %v", data.ConfirmationCode, err)
		}
	}
}

func (s *NotifyService) SendReservationSMS(res entities.ReservationResponse) {
	message := fmt.Sprintf("RapidPark: reservation %s confirmed! Spot %s in %s, check-in %s.",
		res.ConfirmationCode, res.SpotLabel, res.LotName,
		res.StartTime.Format("02/01 15:04"),
	)
	if err := SendSMS(res.Phone, message); err != nil {
		log.Printf("Reservation %s created, but the confirmation SMS to %s failed: %v",
			res.ConfirmationCode, res.Phone, err)
	}
}
