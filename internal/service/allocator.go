package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"rapidpark/internal/db"
)

// IntervalSource yields the confirmed reservation intervals for a lot.
// Satisfied by repository.ReservationRepository.
type IntervalSource interface {
	ConfirmedIntervals(ctx context.Context, lotName string) ([]db.SpotInterval, error)
}

// SpotAllocator finds the lowest-numbered free spot for a requested
// interval. The scan is linear in capacity, which is fine at lot scale;
// a larger deployment would index intervals per spot.
type SpotAllocator struct {
	Source   IntervalSource
	Capacity int
}

func NewSpotAllocator(source IntervalSource, capacity int) *SpotAllocator {
	return &SpotAllocator{Source: source, Capacity: capacity}
}

// Assign returns the lowest spot in [1, capacity] whose existing
// reservations do not overlap [start, end), or ErrNoAvailability.
// Lowest-numbered wins, so repeated queries are deterministic.
func (a *SpotAllocator) Assign(ctx context.Context, lotName string, start, end time.Time) (int, error) {
	if !end.After(start) {
		return 0, ErrInvalidInterval
	}
	intervals, err := a.Source.ConfirmedIntervals(ctx, lotName)
	if err != nil {
		return 0, fmt.Errorf("error loading reservations for allocation: %w", err)
	}

	bySpot := make(map[int][]db.SpotInterval, len(intervals))
	for _, iv := range intervals {
		bySpot[iv.SpotNumber] = append(bySpot[iv.SpotNumber], iv)
	}

	for spot := 1; spot <= a.Capacity; spot++ {
		free := true
		for _, iv := range bySpot[spot] {
			if Overlaps(start, end, iv.StartTime, iv.EndTime) {
				free = false
				break
			}
		}
		if free {
			return spot, nil
		}
	}
	return 0, ErrNoAvailability
}

// Overlaps reports whether the half-open intervals [s1,e1) and [s2,e2)
// share any instant. A reservation ending exactly when another starts does
// not overlap.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// SpotLabel builds the human-presentable spot identifier: the lot's zone
// letter plus the spot number ("RapidPark-A", 7 -> "A7").
func SpotLabel(lotName string, spot int) string {
	if spot <= 0 {
		return ""
	}
	zone := ""
	if idx := strings.LastIndex(lotName, "-"); idx >= 0 {
		tail := strings.TrimSpace(lotName[idx+1:])
		if tail != "" {
			zone = strings.ToUpper(tail[:1])
		}
	}
	if zone == "" && lotName != "" {
		zone = strings.ToUpper(lotName[:1])
	}
	if zone == "" {
		return strconv.Itoa(spot)
	}
	return zone + strconv.Itoa(spot)
}
