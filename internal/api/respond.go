package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	apperrors "rapidpark/internal/errors"
	"rapidpark/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// writeError maps domain errors onto HTTP statuses: validation and bad
// intervals are the client's fault, a full lot is a conflict, anything
// else is a retryable server error.
func writeError(w http.ResponseWriter, err error) {
	var httpErr *apperrors.HTTPError
	switch {
	case errors.As(err, &httpErr):
		writeJSON(w, httpErr.Code, map[string]string{"error": httpErr.Message})
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrInvalidInterval):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrNoAvailability):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		log.Printf("Internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error, please try again"})
	}
}
