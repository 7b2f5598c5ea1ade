package entities

// Webhook event types sent by the voice platform.
const (
	EventCallStarted = "call_started"
	EventCallEnded   = "call_ended"
	EventMessage     = "message"
)

// WebhookRequest is one inbound conversation event from the voice platform.
type WebhookRequest struct {
	CallID      string `json:"call_id"`
	EventType   string `json:"event_type"`
	UserMessage string `json:"user_message"`
}

// WebhookResponse tells the voice platform what to say next and whether the
// call is over.
type WebhookResponse struct {
	Message string `json:"message"`
	EndCall bool   `json:"end_call"`
}
