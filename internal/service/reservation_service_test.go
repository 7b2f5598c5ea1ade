package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rapidpark/internal/db"
	"rapidpark/internal/entities"
)

type fakeStore struct {
	mu        sync.Mutex
	rows      []db.Reservation
	createErr error
}

func (f *fakeStore) ConfirmedIntervals(_ context.Context, lotName string) ([]db.SpotInterval, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.SpotInterval
	for _, row := range f.rows {
		if row.LotName == lotName && row.Status == db.StatusConfirmed {
			out = append(out, db.SpotInterval{
				SpotNumber: row.SpotNumber,
				StartTime:  row.StartTime,
				EndTime:    row.EndTime,
			})
		}
	}
	return out, nil
}

func (f *fakeStore) CreateReservation(_ context.Context, res *db.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	res.ID = len(f.rows) + 1
	res.CreatedAt = time.Now().UTC()
	f.rows = append(f.rows, *res)
	return nil
}

func (f *fakeStore) ListReservations(_ context.Context, limit int) ([]db.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.Reservation
	for i := len(f.rows) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.rows[i])
	}
	return out, nil
}

func (f *fakeStore) GetReservationByCode(_ context.Context, code string) (*db.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].ConfirmationCode == code {
			row := f.rows[i]
			return &row, nil
		}
	}
	return nil, fmt.Errorf("reservation with code '%s' not found", code)
}

type fakeNotifier struct {
	emails chan entities.ReservationResponse
	sms    chan entities.ReservationResponse
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{
		emails: make(chan entities.ReservationResponse, 8),
		sms:    make(chan entities.ReservationResponse, 8),
	}
}

func (n *fakeNotifier) SendReservationEmail(res entities.ReservationResponse) { n.emails <- res }
func (n *fakeNotifier) SendReservationSMS(res entities.ReservationResponse)  { n.sms <- res }

func newTestService(store *fakeStore, capacity int) (*ReservationService, *fakeNotifier) {
	notifier := newFakeNotifier()
	svc := NewReservationService(
		store,
		NewSpotAllocator(store, capacity),
		testCalculator(),
		notifier,
		"RapidPark-A",
	)
	svc.now = func() time.Time { return time.Date(2025, 11, 7, 12, 0, 0, 0, time.UTC) }
	return svc, notifier
}

func durationHours(h float64) *float64 { return &h }

func TestQuoteScenario(t *testing.T) {
	svc, _ := newTestService(&fakeStore{}, 50)

	quote, err := svc.Quote(context.Background(), &entities.QuoteRequest{
		VehicleReg:    "KA01AB1234",
		VehicleType:   "car",
		StartTime:     "2025-11-07T15:00:00",
		DurationHours: durationHours(2.5),
	})
	require.NoError(t, err)

	assert.Equal(t, 150, quote.DurationMinutes)
	assert.Equal(t, 2.5, quote.DurationHours)
	// 2.5 hours bills as 3 hours at 400 cents.
	assert.Equal(t, 1200, quote.PriceCents)
	assert.Equal(t, time.Date(2025, 11, 7, 17, 30, 0, 0, time.UTC), quote.EndTime)
	assert.True(t, quote.Available)
	assert.Equal(t, 1, quote.SuggestedSpot)
	assert.Equal(t, "A1", quote.SuggestedLabel)
}

func TestQuoteWhenLotFull(t *testing.T) {
	store := &fakeStore{rows: []db.Reservation{{
		LotName:    "RapidPark-A",
		SpotNumber: 1,
		StartTime:  time.Date(2025, 11, 7, 14, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2025, 11, 7, 18, 0, 0, 0, time.UTC),
		Status:     db.StatusConfirmed,
	}}}
	svc, _ := newTestService(store, 1)

	quote, err := svc.Quote(context.Background(), &entities.QuoteRequest{
		VehicleReg:    "KA01AB1234",
		StartTime:     "2025-11-07T15:00:00",
		DurationHours: durationHours(2),
	})
	require.NoError(t, err)
	assert.False(t, quote.Available)
	assert.Zero(t, quote.SuggestedSpot)
	assert.Empty(t, quote.SuggestedLabel)
}

func TestCreateReservationAssignsDistinctSpots(t *testing.T) {
	store := &fakeStore{}
	svc, _ := newTestService(store, 2)

	req := func(reg string) *entities.ReservationRequest {
		return &entities.ReservationRequest{
			CustomerName:  "John Doe",
			VehicleReg:    reg,
			VehicleType:   "car",
			StartTime:     "2025-11-07T15:00:00",
			DurationHours: durationHours(2),
		}
	}

	first, err := svc.CreateReservation(context.Background(), req("KA01AB1234"))
	require.NoError(t, err)
	second, err := svc.CreateReservation(context.Background(), req("MH02CD5678"))
	require.NoError(t, err)

	assert.Equal(t, 1, first.SpotNumber)
	assert.Equal(t, 2, second.SpotNumber)
	assert.Equal(t, "A1", first.SpotLabel)
	assert.Equal(t, "A2", second.SpotLabel)

	// A third identical request finds the lot full.
	_, err = svc.CreateReservation(context.Background(), req("DL03EF9012"))
	assert.ErrorIs(t, err, ErrNoAvailability)
	assert.Len(t, store.rows, 2)
}

func TestCreateReservationNeverDoubleBooks(t *testing.T) {
	store := &fakeStore{}
	svc, _ := newTestService(store, 5)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			svc.CreateReservation(context.Background(), &entities.ReservationRequest{
				CustomerName:  "Caller",
				VehicleReg:    fmt.Sprintf("KA01AB%04d", i),
				StartTime:     "2025-11-07T15:00:00",
				DurationHours: durationHours(2),
			})
		}(i)
	}
	wg.Wait()

	require.Len(t, store.rows, 5)
	for i, r1 := range store.rows {
		for _, r2 := range store.rows[i+1:] {
			if r1.SpotNumber == r2.SpotNumber {
				assert.False(t, Overlaps(r1.StartTime, r1.EndTime, r2.StartTime, r2.EndTime),
					"reservations %d and %d share spot %d with overlapping intervals", r1.ID, r2.ID, r1.SpotNumber)
			}
		}
	}
}

func TestCreateReservationValidation(t *testing.T) {
	svc, _ := newTestService(&fakeStore{}, 5)

	cases := []struct {
		name string
		req  entities.ReservationRequest
		want error
	}{
		{
			"missing name",
			entities.ReservationRequest{VehicleReg: "KA01AB1234", DurationHours: durationHours(1)},
			ErrValidation,
		},
		{
			"missing vehicle reg",
			entities.ReservationRequest{CustomerName: "John", DurationHours: durationHours(1)},
			ErrValidation,
		},
		{
			"bad vehicle type",
			entities.ReservationRequest{CustomerName: "John", VehicleReg: "KA01AB1234", VehicleType: "boat", DurationHours: durationHours(1)},
			ErrValidation,
		},
		{
			"bad email",
			entities.ReservationRequest{CustomerName: "John", VehicleReg: "KA01AB1234", Email: "nope", DurationHours: durationHours(1)},
			ErrValidation,
		},
		{
			"no end or duration",
			entities.ReservationRequest{CustomerName: "John", VehicleReg: "KA01AB1234"},
			ErrValidation,
		},
		{
			"end before start",
			entities.ReservationRequest{
				CustomerName: "John", VehicleReg: "KA01AB1234",
				StartTime: "2025-11-07T15:00:00", EndTime: "2025-11-07T14:00:00",
			},
			ErrInvalidInterval,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateReservation(context.Background(), &tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCreateReservationStorageFailure(t *testing.T) {
	store := &fakeStore{createErr: errors.New("connection reset")}
	svc, notifier := newTestService(store, 5)

	_, err := svc.CreateReservation(context.Background(), &entities.ReservationRequest{
		CustomerName:  "John",
		VehicleReg:    "KA01AB1234",
		Email:         "john@example.com",
		DurationHours: durationHours(1),
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoAvailability)
	assert.Empty(t, store.rows)

	select {
	case <-notifier.emails:
		t.Fatal("no notification should be sent for a failed creation")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCreateReservationNotifies(t *testing.T) {
	svc, notifier := newTestService(&fakeStore{}, 5)

	res, err := svc.CreateReservation(context.Background(), &entities.ReservationRequest{
		CustomerName:  "John Doe",
		VehicleReg:    "ka 01 ab 1234",
		Email:         "john@example.com",
		Phone:         "+15550100",
		DurationHours: durationHours(1),
	})
	require.NoError(t, err)
	assert.Equal(t, "KA01AB1234", res.VehicleReg, "plate is normalized")

	select {
	case sent := <-notifier.emails:
		assert.Equal(t, res.ConfirmationCode, sent.ConfirmationCode)
	case <-time.After(time.Second):
		t.Fatal("expected a confirmation email")
	}
	select {
	case <-notifier.sms:
	case <-time.After(time.Second):
		t.Fatal("expected a confirmation SMS")
	}
}

func TestConfirmationCodeFormat(t *testing.T) {
	start := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "RP-ABC1234-01011000", ConfirmationCode("RapidPark-A", "abc 1234", start))
}

func TestListReservationsMostRecentFirst(t *testing.T) {
	store := &fakeStore{}
	svc, _ := newTestService(store, 10)

	for i := 0; i < 3; i++ {
		_, err := svc.CreateReservation(context.Background(), &entities.ReservationRequest{
			CustomerName:  fmt.Sprintf("Caller %d", i),
			VehicleReg:    fmt.Sprintf("KA01AB%04d", i),
			StartTime:     fmt.Sprintf("2025-11-0%dT10:00:00", i+1),
			DurationHours: durationHours(1),
		})
		require.NoError(t, err)
	}

	list, err := svc.ListReservations(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, list.Limit)
	require.Len(t, list.Reservations, 2)
	assert.Equal(t, "Caller 2", list.Reservations[0].CustomerName)
	assert.Equal(t, "Caller 1", list.Reservations[1].CustomerName)
}

func TestParseTimestamp(t *testing.T) {
	naive, err := ParseTimestamp("2025-11-07T15:00:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 11, 7, 15, 0, 0, 0, time.UTC), naive)

	zoned, err := ParseTimestamp("2025-11-07T15:00:00Z")
	require.NoError(t, err)
	assert.True(t, naive.Equal(zoned))

	_, err = ParseTimestamp("next thursday")
	assert.Error(t, err)
}
