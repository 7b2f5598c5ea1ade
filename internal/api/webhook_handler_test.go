package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rapidpark/internal/conversation"
	"rapidpark/internal/entities"
)

type stubBooker struct{}

func (stubBooker) Quote(_ context.Context, req *entities.QuoteRequest) (*entities.Quote, error) {
	return &entities.Quote{
		LotName:        "RapidPark-A",
		VehicleReg:     req.VehicleReg,
		PriceCents:     800,
		Available:      true,
		SuggestedSpot:  1,
		SuggestedLabel: "A1",
		EndTime:        time.Now().Add(2 * time.Hour),
	}, nil
}

func (stubBooker) CreateReservation(_ context.Context, req *entities.ReservationRequest) (*entities.ReservationResponse, error) {
	return &entities.ReservationResponse{
		ConfirmationCode: "RP-KA01AB1234-11071500",
		CustomerName:     req.CustomerName,
		LotName:          "RapidPark-A",
		SpotNumber:       1,
		SpotLabel:        "A1",
	}, nil
}

func newWebhookHandler() *VoiceWebhookHandler {
	machine := conversation.NewMachine(conversation.NewRegistry(), stubBooker{}, 3)
	return NewVoiceWebhookHandler(machine)
}

func TestWebhookCallStarted(t *testing.T) {
	h := newWebhookHandler()

	rec := postJSON(t, h.HandleWebhook, `{"call_id": "call-1", "event_type": "call_started"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Contains(t, body["message"], "May I have your name")
}

func TestWebhookMessageAdvancesDialog(t *testing.T) {
	h := newWebhookHandler()

	postJSON(t, h.HandleWebhook, `{"call_id": "call-1", "event_type": "call_started"}`)
	rec := postJSON(t, h.HandleWebhook, `{"call_id": "call-1", "event_type": "message", "user_message": "John Doe"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["message"], "Thank you, John Doe")
}

func TestWebhookCallEnded(t *testing.T) {
	h := newWebhookHandler()

	postJSON(t, h.HandleWebhook, `{"call_id": "call-1", "event_type": "call_started"}`)
	rec := postJSON(t, h.HandleWebhook, `{"call_id": "call-1", "event_type": "call_ended"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])
}

func TestWebhookRequiresCallID(t *testing.T) {
	h := newWebhookHandler()

	rec := postJSON(t, h.HandleWebhook, `{"event_type": "message", "user_message": "hi"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, h.HandleWebhook, `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
