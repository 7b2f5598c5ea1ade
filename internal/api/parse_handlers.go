package api

import (
	"encoding/json"
	"math"
	"net/http"
	"time"

	apperrors "rapidpark/internal/errors"
	"rapidpark/internal/parse"
	"rapidpark/internal/service"
)

const isoLayout = "2006-01-02T15:04:05"

// ParseHandler exposes the utterance extractors over HTTP so the voice
// platform's tooling can call them directly.
type ParseHandler struct {
	// Now is swappable in tests.
	Now func() time.Time
}

func NewParseHandler() *ParseHandler {
	return &ParseHandler{Now: func() time.Time { return time.Now().UTC() }}
}

type utteranceRequest struct {
	Utterance string `json:"utterance"`
	StartTime string `json:"start_time,omitempty"`
}

func (h *ParseHandler) ParseArrival(w http.ResponseWriter, r *http.Request) {
	var req utteranceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Utterance == "" {
		writeError(w, apperrors.ErrBadRequest("utterance is required"))
		return
	}
	start, err := parse.Arrival(req.Utterance, h.Now())
	if err != nil {
		writeError(w, apperrors.ErrBadRequest("could not parse arrival time"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"start_time": start.Format(isoLayout)})
}

func (h *ParseHandler) ParseDuration(w http.ResponseWriter, r *http.Request) {
	var req utteranceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Utterance == "" {
		writeError(w, apperrors.ErrBadRequest("utterance is required"))
		return
	}
	minutes, err := parse.Duration(req.Utterance)
	if err != nil {
		writeError(w, apperrors.ErrBadRequest("could not parse duration"))
		return
	}

	resp := map[string]any{
		"duration_minutes": minutes,
		"duration_hours":   math.Round(float64(minutes)/60*100) / 100,
	}
	if req.StartTime != "" {
		start, err := service.ParseTimestamp(req.StartTime)
		if err != nil {
			writeError(w, apperrors.ErrBadRequest("start_time must be ISO-8601"))
			return
		}
		resp["end_time"] = start.Add(time.Duration(minutes) * time.Minute).Format(isoLayout)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ParseHandler) ParseEmail(w http.ResponseWriter, r *http.Request) {
	var req utteranceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Utterance == "" {
		writeError(w, apperrors.ErrBadRequest("utterance is required"))
		return
	}
	email, err := parse.Email(req.Utterance)
	if err != nil {
		writeError(w, apperrors.ErrBadRequest("could not parse email"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"email": email, "valid": true})
}
