package service

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"math"
	"regexp"
	"strings"
	"sync"
	"time"

	"rapidpark/internal/db"
	"rapidpark/internal/entities"
)

var emailFormatRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ReservationStore is the persistence contract the service needs.
// Satisfied by repository.ReservationRepository.
type ReservationStore interface {
	IntervalSource
	CreateReservation(ctx context.Context, res *db.Reservation) error
	ListReservations(ctx context.Context, limit int) ([]db.Reservation, error)
	GetReservationByCode(ctx context.Context, code string) (*db.Reservation, error)
}

// Notifier delivers confirmation tickets. Failures are the notifier's to
// log; they never propagate to the caller.
type Notifier interface {
	SendReservationEmail(res entities.ReservationResponse)
	SendReservationSMS(res entities.ReservationResponse)
}

// ReservationService owns quoting, spot assignment and reservation
// creation for a single lot.
type ReservationService struct {
	store     ReservationStore
	allocator *SpotAllocator
	pricing   *PriceCalculator
	notifier  Notifier
	lotName   string

	// allocMu makes check-overlap-then-insert atomic across concurrent
	// confirmations, so two callers can never race onto the same spot.
	allocMu sync.Mutex

	// now is swappable in tests.
	now func() time.Time
}

func NewReservationService(store ReservationStore, allocator *SpotAllocator, pricing *PriceCalculator, notifier Notifier, lotName string) *ReservationService {
	return &ReservationService{
		store:     store,
		allocator: allocator,
		pricing:   pricing,
		notifier:  notifier,
		lotName:   lotName,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateReservation validates the request, prices it, assigns the lowest
// free spot and persists the reservation. On success the confirmation
// email/SMS go out on a detached goroutine.
func (s *ReservationService) CreateReservation(ctx context.Context, req *entities.ReservationRequest) (*entities.ReservationResponse, error) {
	if strings.TrimSpace(req.CustomerName) == "" || strings.TrimSpace(req.VehicleReg) == "" {
		return nil, validationError("customer_name and vehicle_reg are required")
	}
	vehicleType, err := normalizeVehicleType(req.VehicleType)
	if err != nil {
		return nil, err
	}
	if req.Email != "" && !emailFormatRe.MatchString(req.Email) {
		return nil, validationError("invalid email format")
	}

	start, end, err := s.resolveWindow(req.StartTime, req.EndTime, req.DurationHours, req.DurationMinutes)
	if err != nil {
		return nil, err
	}

	price, err := s.pricing.Price(vehicleType, start, end)
	if err != nil {
		return nil, err
	}

	reg := NormalizeReg(req.VehicleReg)
	reservation := &db.Reservation{
		CustomerName:     strings.TrimSpace(req.CustomerName),
		Email:            nullString(req.Email),
		Phone:            nullString(req.Phone),
		VehicleReg:       reg,
		VehicleType:      vehicleType,
		LotName:          s.lotName,
		StartTime:        start,
		EndTime:          end,
		PriceCents:       price,
		ConfirmationCode: ConfirmationCode(s.lotName, reg, start),
		Status:           db.StatusConfirmed,
	}

	// Allocation and insert must not interleave with another creation,
	// or both could observe the same spot as free.
	s.allocMu.Lock()
	spot, err := s.allocator.Assign(ctx, s.lotName, start, end)
	if err == nil {
		reservation.SpotNumber = spot
		err = s.store.CreateReservation(ctx, reservation)
	}
	s.allocMu.Unlock()
	if err != nil {
		return nil, err
	}

	resp := s.toResponse(reservation)
	go s.sendNotifications(resp)
	return &resp, nil
}

// Quote prices and probes availability for a request without persisting
// anything.
func (s *ReservationService) Quote(ctx context.Context, req *entities.QuoteRequest) (*entities.Quote, error) {
	if strings.TrimSpace(req.VehicleReg) == "" {
		return nil, validationError("vehicle_reg is required")
	}
	vehicleType, err := normalizeVehicleType(req.VehicleType)
	if err != nil {
		return nil, err
	}
	start, end, err := s.resolveWindow(req.StartTime, req.EndTime, req.DurationHours, req.DurationMinutes)
	if err != nil {
		return nil, err
	}
	price, err := s.pricing.Price(vehicleType, start, end)
	if err != nil {
		return nil, err
	}

	minutes := int(end.Sub(start) / time.Minute)
	quote := &entities.Quote{
		LotName:         s.lotName,
		VehicleReg:      NormalizeReg(req.VehicleReg),
		VehicleType:     vehicleType,
		StartTime:       start,
		EndTime:         end,
		DurationMinutes: minutes,
		DurationHours:   math.Round(float64(minutes)/60*100) / 100,
		PriceCents:      price,
	}

	spot, err := s.allocator.Assign(ctx, s.lotName, start, end)
	switch err {
	case nil:
		quote.Available = true
		quote.SuggestedSpot = spot
		quote.SuggestedLabel = SpotLabel(s.lotName, spot)
	case ErrNoAvailability:
		quote.Available = false
	default:
		return nil, err
	}
	return quote, nil
}

// ListReservations returns the most recent reservations first. The limit
// is clamped to [1, 200] and defaults to 50.
func (s *ReservationService) ListReservations(ctx context.Context, limit int) (*entities.ReservationsList, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	rows, err := s.store.ListReservations(ctx, limit)
	if err != nil {
		return nil, err
	}
	list := &entities.ReservationsList{
		Total:        len(rows),
		Limit:        limit,
		Reservations: make([]entities.ReservationResponse, 0, len(rows)),
	}
	for _, row := range rows {
		list.Reservations = append(list.Reservations, s.toResponse(&row))
	}
	return list, nil
}

// GetReservationByCode fetches one reservation by confirmation code.
func (s *ReservationService) GetReservationByCode(ctx context.Context, code string) (*entities.ReservationResponse, error) {
	row, err := s.store.GetReservationByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	resp := s.toResponse(row)
	return &resp, nil
}

// resolveWindow turns the caller's start/end/duration fields into a
// concrete half-open interval. Start defaults to now.
func (s *ReservationService) resolveWindow(startStr, endStr string, durationHours *float64, durationMinutes *int) (start, end time.Time, err error) {
	start = s.now().Truncate(time.Minute)
	if startStr != "" {
		start, err = ParseTimestamp(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, validationError("start_time must be ISO-8601")
		}
	}

	switch {
	case endStr != "":
		end, err = ParseTimestamp(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, validationError("end_time must be ISO-8601")
		}
	case durationHours != nil:
		end = start.Add(time.Duration(*durationHours * float64(time.Hour)))
	case durationMinutes != nil:
		end = start.Add(time.Duration(*durationMinutes) * time.Minute)
	default:
		return time.Time{}, time.Time{}, validationError("provide end_time, duration_hours, or duration_minutes")
	}

	if !end.After(start) {
		return time.Time{}, time.Time{}, ErrInvalidInterval
	}
	return start, end, nil
}

func (s *ReservationService) toResponse(res *db.Reservation) entities.ReservationResponse {
	return entities.ReservationResponse{
		ID:               res.ID,
		ConfirmationCode: res.ConfirmationCode,
		CustomerName:     res.CustomerName,
		Email:            res.Email.String,
		Phone:            res.Phone.String,
		VehicleReg:       res.VehicleReg,
		VehicleType:      res.VehicleType,
		LotName:          res.LotName,
		SpotNumber:       res.SpotNumber,
		SpotLabel:        SpotLabel(res.LotName, res.SpotNumber),
		StartTime:        res.StartTime,
		EndTime:          res.EndTime,
		DurationMinutes:  int(res.EndTime.Sub(res.StartTime) / time.Minute),
		PriceCents:       res.PriceCents,
		Status:           res.Status,
		CreatedAt:        res.CreatedAt,
	}
}

// sendNotifications is fire and forget: a failed ticket never fails the
// reservation.
func (s *ReservationService) sendNotifications(resp entities.ReservationResponse) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("notification panic for reservation %s: %v", resp.ConfirmationCode, r)
		}
	}()
	if resp.Email != "" {
		s.notifier.SendReservationEmail(resp)
	}
	if resp.Phone != "" {
		s.notifier.SendReservationSMS(resp)
	}
}

// ConfirmationCode derives the human-presentable booking proof:
// lot prefix, normalized plate, and MMddHHmm of the start time
// ("RP-ABC1234-01011000").
func ConfirmationCode(lotName, vehicleReg string, start time.Time) string {
	return fmt.Sprintf("%s-%s-%s", lotPrefix(lotName), NormalizeReg(vehicleReg), start.Format("01021504"))
}

// lotPrefix collapses a lot name to its initials: "RapidPark-A" -> "RP".
func lotPrefix(lotName string) string {
	var b strings.Builder
	for _, r := range lotName {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
			if b.Len() == 2 {
				break
			}
		}
	}
	if b.Len() == 0 && lotName != "" {
		return strings.ToUpper(lotName[:1])
	}
	return b.String()
}

// NormalizeReg uppercases a plate and strips spaces.
func NormalizeReg(reg string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(reg), " ", ""))
}

// ParseTimestamp accepts RFC 3339 or zone-less ISO timestamps; naive
// values are taken as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func normalizeVehicleType(vt string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(vt))
	switch v {
	case "":
		return db.VehicleCar, nil
	case db.VehicleCar, db.VehicleMotorcycle, db.VehicleTruck:
		return v, nil
	default:
		return "", validationError("vehicle_type must be one of: car, motorcycle, truck")
	}
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
