package infra

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"cinema-booking/reservation/domain"
)

// slowStats demora delay por evento e ignora o contexto.
type slowStats struct {
	delay time.Duration
	n     atomic.Int64
}

func (s *slowStats) Record(context.Context, domain.StatsEvent) error {
	time.Sleep(s.delay)
	s.n.Add(1)
	return nil
}

func TestAsyncStatsStore_RecordNeverWaitsForSlowStore(t *testing.T) {
	next := &slowStats{delay: 200 * time.Millisecond}
	s := NewAsyncStatsStore(next, WithAsyncBuffer(2))

	start := time.Now()
	var dropped int
	for i := 0; i < 5; i++ {
		if err := s.Record(context.Background(), domain.StatsEvent{Outcome: domain.OutcomeCommitted}); errors.Is(err, ErrQueueFull) {
			dropped++
		}
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Fatalf("expected Record to return immediately, took %s", elapsed)
	}
	if dropped == 0 {
		t.Fatalf("expected events beyond the buffer to be dropped")
	}

	s.Close()
	s.Close()

	got := s.Counts()
	if got.Delivered != next.n.Load() || got.Delivered+got.Dropped != 5 {
		t.Fatalf("expected every event delivered or dropped, got %+v (store saw %d)", got, next.n.Load())
	}
	if err := s.Record(context.Background(), domain.StatsEvent{}); !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("expected ErrQueueClosed after close, got %v", err)
	}
}
