package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"rapidpark/internal/conversation"
	apperrors "rapidpark/internal/errors"
	"rapidpark/internal/repository"
	"rapidpark/internal/service"
)

// AdminHandler serves the protected operational surface: session
// diagnostics, manual eviction and administrative reservation removal.
type AdminHandler struct {
	Registry *conversation.Registry
	Service  *service.ReservationService
	Repo     *repository.ReservationRepository
}

func NewAdminHandler(registry *conversation.Registry, svc *service.ReservationService, repo *repository.ReservationRepository) *AdminHandler {
	return &AdminHandler{Registry: registry, Service: svc, Repo: repo}
}

func (h *AdminHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	snaps := h.Registry.List()
	writeJSON(w, http.StatusOK, map[string]any{
		"active_sessions": len(snaps),
		"sessions":        snaps,
	})
}

func (h *AdminHandler) EvictSession(w http.ResponseWriter, r *http.Request) {
	callID := mux.Vars(r)["call_id"]
	h.Registry.Remove(callID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (h *AdminHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, apperrors.ErrBadRequest("limit must be an integer"))
			return
		}
		limit = n
	}
	list, err := h.Service.ListReservations(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *AdminHandler) DeleteReservation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, apperrors.ErrBadRequest("id must be an integer"))
		return
	}
	if err := h.Repo.DeleteReservation(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, apperrors.ErrNotFound("reservation not found"))
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "reservation deleted"})
}
