package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"cinema-booking/reservation/domain"
	"cinema-booking/reservation/infra"

	"github.com/stretchr/testify/require"
)

const testInterval = 50 * time.Millisecond

type fixture struct {
	svc      *BookingService
	schedule *infra.Schedule
	stats    *infra.MemoryStatsStore
	sink     *collectSink
}

// newFixture monta uma sala "hall_a" com a sessão "m1" daqui a uma hora.
func newFixture(t *testing.T, capacity, admissionLimit int) fixture {
	t.Helper()

	schedule, err := infra.NewSchedule(
		[]domain.HallDef{{ID: "hall_a", Capacity: capacity}},
		[]domain.ShowDef{{ID: "m1", Title: "Interstellar", HallID: "hall_a", StartsAt: time.Now().Add(time.Hour)}},
	)
	require.NoError(t, err)

	stats := infra.NewMemoryStatsStore()
	sink := &collectSink{}
	svc := &BookingService{
		Schedule:       schedule,
		Admission:      ConcurrencyService{Pool: infra.NewChanPool(admissionLimit), Limit: admissionLimit},
		Stats:          stats,
		Sink:           sink,
		RetryInterval:  testInterval,
		DefaultMaxWait: 300 * time.Millisecond,
	}
	return fixture{svc: svc, schedule: schedule, stats: stats, sink: sink}
}

func (f fixture) seats(t *testing.T) domain.SeatMap {
	t.Helper()
	_, hall, err := f.schedule.Resolve("m1")
	require.NoError(t, err)
	return hall.Seats
}

func (f fixture) book(holder string, seats []int, maxWait time.Duration) (domain.Reservation, error) {
	return f.svc.Book(context.Background(), domain.BookingRequest{
		ShowID:   "m1",
		HolderID: domain.HolderID(holder),
		Seats:    seats,
		MaxWait:  maxWait,
	})
}

type collectSink struct {
	mu  sync.Mutex
	got []domain.Reservation
}

func (s *collectSink) Publish(_ context.Context, r domain.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, r)
	return nil
}

func (s *collectSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.got)
}
