package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rapidpark/internal/db"
)

type stubIntervals struct {
	intervals []db.SpotInterval
	err       error
}

func (s stubIntervals) ConfirmedIntervals(_ context.Context, _ string) ([]db.SpotInterval, error) {
	return s.intervals, s.err
}

func at(hour int) time.Time {
	return time.Date(2025, 11, 7, hour, 0, 0, 0, time.UTC)
}

func TestAssignPicksLowestFreeSpot(t *testing.T) {
	a := NewSpotAllocator(stubIntervals{intervals: []db.SpotInterval{
		{SpotNumber: 1, StartTime: at(10), EndTime: at(12)},
		{SpotNumber: 3, StartTime: at(10), EndTime: at(12)},
	}}, 5)

	spot, err := a.Assign(context.Background(), "RapidPark-A", at(11), at(13))
	require.NoError(t, err)
	assert.Equal(t, 2, spot)

	// Repeating the same query without new reservations yields the same answer.
	again, err := a.Assign(context.Background(), "RapidPark-A", at(11), at(13))
	require.NoError(t, err)
	assert.Equal(t, spot, again)
}

func TestAssignBackToBackDoesNotOverlap(t *testing.T) {
	a := NewSpotAllocator(stubIntervals{intervals: []db.SpotInterval{
		{SpotNumber: 1, StartTime: at(10), EndTime: at(12)},
	}}, 1)

	// Half-open semantics: a reservation ending at noon does not block one
	// starting at noon.
	spot, err := a.Assign(context.Background(), "RapidPark-A", at(12), at(14))
	require.NoError(t, err)
	assert.Equal(t, 1, spot)
}

func TestAssignNoAvailability(t *testing.T) {
	a := NewSpotAllocator(stubIntervals{intervals: []db.SpotInterval{
		{SpotNumber: 1, StartTime: at(10), EndTime: at(12)},
		{SpotNumber: 2, StartTime: at(9), EndTime: at(14)},
	}}, 2)

	_, err := a.Assign(context.Background(), "RapidPark-A", at(11), at(13))
	assert.ErrorIs(t, err, ErrNoAvailability)
}

func TestAssignRejectsInvalidInterval(t *testing.T) {
	a := NewSpotAllocator(stubIntervals{}, 5)
	_, err := a.Assign(context.Background(), "RapidPark-A", at(12), at(12))
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name           string
		s1, e1, s2, e2 time.Time
		want           bool
	}{
		{"disjoint", at(10), at(11), at(12), at(13), false},
		{"touching boundary", at(10), at(12), at(12), at(14), false},
		{"partial", at(10), at(12), at(11), at(13), true},
		{"contained", at(10), at(14), at(11), at(12), true},
		{"identical", at(10), at(12), at(10), at(12), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Overlaps(tc.s1, tc.e1, tc.s2, tc.e2))
			assert.Equal(t, tc.want, Overlaps(tc.s2, tc.e2, tc.s1, tc.e1), "overlap must be symmetric")
		})
	}
}

func TestSpotLabel(t *testing.T) {
	assert.Equal(t, "A7", SpotLabel("RapidPark-A", 7))
	assert.Equal(t, "B12", SpotLabel("Downtown-B", 12))
	assert.Equal(t, "L3", SpotLabel("Lot", 3))
	assert.Equal(t, "", SpotLabel("RapidPark-A", 0))
}
