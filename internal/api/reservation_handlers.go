package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"rapidpark/internal/entities"
	apperrors "rapidpark/internal/errors"
	"rapidpark/internal/service"
)

type ReservationHandler struct {
	Service *service.ReservationService
}

func NewReservationHandler(svc *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{Service: svc}
}

func (h *ReservationHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var req entities.ReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ErrBadRequest("invalid request body"))
		return
	}
	res, err := h.Service.CreateReservation(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *ReservationHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
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

func (h *ReservationHandler) GetReservation(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	res, err := h.Service.GetReservationByCode(r.Context(), code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, apperrors.ErrNotFound("reservation not found"))
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *ReservationHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req entities.QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ErrBadRequest("invalid request body"))
		return
	}
	quote, err := h.Service.Quote(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}
