package conversation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"rapidpark/internal/entities"
	"rapidpark/internal/parse"
	"rapidpark/internal/service"
)

const greeting = "Hello! Welcome to RapidPark automated reservation system. " +
	"I can help you reserve a parking spot. May I have your name please?"

const spokenTimeLayout = "January 2 at 3:04 PM"

// Booker is the slice of the reservation service the dialog needs.
type Booker interface {
	Quote(ctx context.Context, req *entities.QuoteRequest) (*entities.Quote, error)
	CreateReservation(ctx context.Context, req *entities.ReservationRequest) (*entities.ReservationResponse, error)
}

// Machine advances one session per inbound utterance: extract the expected
// field and move on, or re-prompt in place. Clarification retries are
// capped so a caller can never loop forever.
type Machine struct {
	registry   *Registry
	booker     Booker
	maxRetries int
	now        func() time.Time
}

func NewMachine(registry *Registry, booker Booker, maxRetries int) *Machine {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &Machine{
		registry:   registry,
		booker:     booker,
		maxRetries: maxRetries,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Registry exposes the session registry for diagnostics and eviction.
func (m *Machine) Registry() *Registry {
	return m.registry
}

// HandleEvent processes one webhook event and returns what to say next.
func (m *Machine) HandleEvent(ctx context.Context, req *entities.WebhookRequest) entities.WebhookResponse {
	switch req.EventType {
	case entities.EventCallStarted:
		m.registry.GetOrCreate(req.CallID)
		return entities.WebhookResponse{Message: greeting}
	case entities.EventCallEnded:
		m.registry.Remove(req.CallID)
		return entities.WebhookResponse{}
	}

	sess := m.registry.GetOrCreate(req.CallID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.LastSeen = m.now()
	return m.advance(ctx, sess, strings.TrimSpace(req.UserMessage))
}

func (m *Machine) advance(ctx context.Context, sess *Session, utterance string) entities.WebhookResponse {
	switch sess.Step {
	case StepName:
		return m.collectName(sess, utterance)
	case StepVehicle:
		return m.collectVehicle(sess, utterance)
	case StepArrival:
		return m.collectArrival(sess, utterance)
	case StepDuration:
		return m.collectDuration(ctx, sess, utterance)
	case StepEmail:
		return m.collectEmail(sess, utterance)
	case StepConfirm:
		return m.confirm(ctx, sess, utterance)
	default:
		return entities.WebhookResponse{
			Message: "This reservation call is already complete. Thank you for choosing RapidPark. Goodbye!",
			EndCall: true,
		}
	}
}

func (m *Machine) collectName(sess *Session, utterance string) entities.WebhookResponse {
	if len(utterance) <= 2 {
		return m.clarify(sess, "I didn't catch that. Could you please tell me your full name?")
	}
	sess.CustomerName = utterance
	m.progress(sess, StepVehicle)
	return say("Thank you, %s. Please tell me your vehicle registration number and type. "+
		"For example, you can say 'KA01AB1234, car' or 'ABC-1234, motorcycle'.", sess.CustomerName)
}

func (m *Machine) collectVehicle(sess *Session, utterance string) entities.WebhookResponse {
	reg, vehicleType, err := parse.Vehicle(utterance)
	if err != nil {
		return m.clarify(sess, "I couldn't understand the vehicle registration. "+
			"Please say your vehicle registration number clearly, like 'KA 01 AB 1234'.")
	}
	sess.VehicleReg = reg
	sess.VehicleType = vehicleType
	m.progress(sess, StepArrival)
	return say("Got it, %s with registration %s. When do you plan to arrive? "+
		"You can say something like 'today at 3 PM' or 'tomorrow at 10 AM'.", vehicleType, reg)
}

func (m *Machine) collectArrival(sess *Session, utterance string) entities.WebhookResponse {
	arrival, err := parse.Arrival(utterance, m.now())
	if err != nil {
		return m.clarify(sess, "I couldn't understand that time. "+
			"Please try again, like 'today at 3 PM' or 'tomorrow at 10 AM'.")
	}
	sess.Arrival = arrival
	m.progress(sess, StepDuration)
	return say("Perfect, arriving on %s. How long do you need the parking spot? "+
		"For example, '2 hours' or '3 hours 30 minutes'.", arrival.Format(spokenTimeLayout))
}

func (m *Machine) collectDuration(ctx context.Context, sess *Session, utterance string) entities.WebhookResponse {
	minutes, err := parse.Duration(utterance)
	if err != nil {
		return m.clarify(sess, "I couldn't understand the duration. "+
			"Please say how long you need parking, like '2 hours' or '90 minutes'.")
	}

	quote, err := m.booker.Quote(ctx, &entities.QuoteRequest{
		VehicleReg:      sess.VehicleReg,
		VehicleType:     sess.VehicleType,
		StartTime:       sess.Arrival.Format("2006-01-02T15:04:05"),
		DurationMinutes: &minutes,
	})
	if err != nil {
		log.Printf("conversation %s: quote failed: %v", sess.CallID, err)
		return say("I'm sorry, I'm having trouble checking availability right now. " +
			"Could you say the duration again?")
	}
	if !quote.Available {
		sess.Step = StepArrival
		sess.Retries = 0
		return say("I'm sorry, the lot is fully booked around that time. " +
			"Could you try a different arrival time?")
	}

	sess.DurationMin = minutes
	sess.Quote = quote
	m.progress(sess, StepEmail)
	return say("Great! For %s of parking, the price will be %s. We have spot %s in %s. "+
		"Would you like to provide an email address for your confirmation ticket? "+
		"You can say your email or say 'skip'.",
		spokenDuration(minutes), dollars(quote.PriceCents), quote.SuggestedLabel, quote.LotName)
}

func (m *Machine) collectEmail(sess *Session, utterance string) entities.WebhookResponse {
	if parse.IsSkip(utterance) {
		sess.Email = ""
		sess.EmailSkipped = true
	} else {
		email, err := parse.Email(utterance)
		if err != nil {
			return m.clarify(sess, "I couldn't understand that email. "+
				"Please say it clearly, like 'john dot doe at gmail dot com', or say 'skip'.")
		}
		sess.Email = email
	}
	m.progress(sess, StepConfirm)
	return say("%s", m.recap(sess))
}

func (m *Machine) recap(sess *Session) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Let me confirm your reservation. Name: %s. Vehicle: %s, registration %s. "+
		"Arriving: %s. Duration: %s. Price: %s. ",
		sess.CustomerName, sess.VehicleType, sess.VehicleReg,
		sess.Arrival.Format(spokenTimeLayout), spokenDuration(sess.DurationMin),
		dollars(sess.Quote.PriceCents))
	if sess.Email != "" {
		fmt.Fprintf(&b, "Email: %s. ", sess.Email)
	}
	b.WriteString("Should I confirm this reservation? Say 'yes' to confirm or 'no' to cancel.")
	return b.String()
}

func (m *Machine) confirm(ctx context.Context, sess *Session, utterance string) entities.WebhookResponse {
	switch {
	case hasWord(utterance, "yes", "yeah", "yep", "confirm", "correct", "proceed", "book"):
		return m.createReservation(ctx, sess)
	case hasWord(utterance, "no", "nope", "cancel", "decline"):
		sess.Step = StepCancelled
		return entities.WebhookResponse{
			Message: "No problem, I've cancelled this reservation. If you'd like to try again, please call back. Goodbye!",
			EndCall: true,
		}
	default:
		return m.clarify(sess, "Sorry, should I confirm this reservation? Say 'yes' to confirm or 'no' to cancel.")
	}
}

func (m *Machine) createReservation(ctx context.Context, sess *Session) entities.WebhookResponse {
	res, err := m.booker.CreateReservation(ctx, &entities.ReservationRequest{
		CustomerName:    sess.CustomerName,
		Email:           sess.Email,
		VehicleReg:      sess.VehicleReg,
		VehicleType:     sess.VehicleType,
		StartTime:       sess.Arrival.Format("2006-01-02T15:04:05"),
		DurationMinutes: &sess.DurationMin,
	})
	if errors.Is(err, service.ErrNoAvailability) {
		sess.Step = StepArrival
		sess.Retries = 0
		sess.Quote = nil
		return say("I'm sorry, that spot was just taken and the lot is now full around that time. " +
			"Could you try a different arrival time?")
	}
	if err != nil {
		// Transient storage failure: keep every collected field and the
		// confirmation step so the caller can simply try again.
		log.Printf("conversation %s: create reservation failed: %v", sess.CallID, err)
		return say("I'm sorry, I couldn't save your reservation just now. " +
			"Please say 'yes' to try again, or 'no' to cancel.")
	}

	sess.Step = StepDone
	var b strings.Builder
	fmt.Fprintf(&b, "Perfect! Your reservation is confirmed. Your confirmation code is %s. "+
		"Your spot is %s in %s. ", res.ConfirmationCode, res.SpotLabel, res.LotName)
	if sess.Email != "" {
		fmt.Fprintf(&b, "A confirmation email has been sent to %s. ", sess.Email)
	}
	b.WriteString("Thank you for choosing RapidPark. Have a great day!")
	return entities.WebhookResponse{Message: b.String(), EndCall: true}
}

// clarify re-prompts for the current step. After maxRetries misses in a
// row the call is cancelled gracefully instead of looping forever.
func (m *Machine) clarify(sess *Session, prompt string) entities.WebhookResponse {
	sess.Retries++
	if sess.Retries >= m.maxRetries {
		sess.Step = StepCancelled
		return entities.WebhookResponse{
			Message: "I'm sorry, I'm having trouble understanding. Please call back and try again, " +
				"or reach our customer service for help. Goodbye!",
			EndCall: true,
		}
	}
	return say("%s", prompt)
}

// progress moves to the next step and resets the clarification counter.
func (m *Machine) progress(sess *Session, next Step) {
	sess.Step = next
	sess.Retries = 0
}

func say(format string, args ...any) entities.WebhookResponse {
	return entities.WebhookResponse{Message: fmt.Sprintf(format, args...)}
}

var wordSplitRe = regexp.MustCompile(`[^a-z0-9']+`)

// hasWord reports whether any of the given words appears as a whole word
// in the utterance, so "no" never matches inside "now".
func hasWord(utterance string, words ...string) bool {
	tokens := wordSplitRe.Split(strings.ToLower(utterance), -1)
	for _, tok := range tokens {
		for _, w := range words {
			if tok == w {
				return true
			}
		}
	}
	return false
}

// spokenDuration renders minutes the way a voice would say them.
func spokenDuration(minutes int) string {
	h, m := minutes/60, minutes%60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%d %s %d minutes", h, hourWord(h), m)
	case h > 0:
		return fmt.Sprintf("%d %s", h, hourWord(h))
	default:
		return fmt.Sprintf("%d minutes", m)
	}
}

func hourWord(h int) string {
	if h == 1 {
		return "hour"
	}
	return "hours"
}

func dollars(cents int) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100)
}
