package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"rapidpark/internal/conversation"
	"rapidpark/internal/entities"
	apperrors "rapidpark/internal/errors"
)

// VoiceWebhookHandler receives conversation events from the voice platform
// and relays the state machine's reply.
type VoiceWebhookHandler struct {
	Machine *conversation.Machine
}

func NewVoiceWebhookHandler(machine *conversation.Machine) *VoiceWebhookHandler {
	return &VoiceWebhookHandler{Machine: machine}
}

func (h *VoiceWebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	var req entities.WebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ErrBadRequest("invalid request body"))
		return
	}
	if req.CallID == "" {
		writeError(w, apperrors.ErrBadRequest("call_id is required"))
		return
	}

	resp := h.Machine.HandleEvent(r.Context(), &req)
	if req.EventType == entities.EventCallEnded {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleTwiML is the telephony entrypoint: it answers an incoming Twilio
// call with TwiML that bridges the caller to the voice agent's SIP
// endpoint.
func (h *VoiceWebhookHandler) HandleTwiML(w http.ResponseWriter, r *http.Request) {
	agentID := os.Getenv("VOICE_AGENT_ID")
	if agentID == "" {
		http.Error(w, "VOICE_AGENT_ID not configured", http.StatusInternalServerError)
		return
	}

	twiml := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<Response>
    <Say voice="Polly.Joanna">Connecting you to our parking reservation system...</Say>
    <Dial>
        <Sip>sip:%s@cartesia.ai</Sip>
    </Dial>
</Response>`, agentID)

	w.Header().Set("Content-Type", "application/xml")
	w.Write([]byte(twiml))
}
