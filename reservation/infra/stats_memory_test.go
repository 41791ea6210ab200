package infra

import (
	"context"
	"errors"
	"testing"

	"cinema-booking/reservation/domain"
)

func TestMemoryStatsStore_CountsByOutcomeShowAndHolder(t *testing.T) {
	s := NewMemoryStatsStore(WithTrackHolders(true))
	ctx := context.Background()

	_ = s.Record(ctx, domain.StatsEvent{ShowID: "m1", HolderID: "u1", Outcome: domain.OutcomeCommitted})
	_ = s.Record(ctx, domain.StatsEvent{ShowID: "m1", HolderID: "u2", Outcome: domain.OutcomeSeatsUnavailable})
	_ = s.Record(ctx, domain.StatsEvent{ShowID: "m2", HolderID: "u1", Outcome: domain.OutcomeCommitted})

	total := s.Total()
	if total[domain.OutcomeCommitted] != 2 || total[domain.OutcomeSeatsUnavailable] != 1 {
		t.Fatalf("unexpected totals %v", total)
	}
	if got := s.ByShow()["m1"][domain.OutcomeCommitted]; got != 1 {
		t.Fatalf("expected 1 commit for m1, got %d", got)
	}
	if got := s.ByHolder()["u1"][domain.OutcomeCommitted]; got != 2 {
		t.Fatalf("expected 2 commits for u1, got %d", got)
	}

	total[domain.OutcomeCommitted] = 100
	if s.Total()[domain.OutcomeCommitted] != 2 {
		t.Fatalf("Total must return a copy")
	}
}

func TestMemoryStatsStore_HoldersNotTrackedByDefault(t *testing.T) {
	s := NewMemoryStatsStore()
	_ = s.Record(context.Background(), domain.StatsEvent{ShowID: "m1", HolderID: "u1", Outcome: domain.OutcomeCommitted})

	if len(s.ByHolder()) != 0 {
		t.Fatalf("expected no holder tracking by default")
	}
}

type failingStats struct{ err error }

func (f failingStats) Record(context.Context, domain.StatsEvent) error { return f.err }

func TestMultiStatsStore_RecordsEverywhereAndJoinsErrors(t *testing.T) {
	a, b := NewMemoryStatsStore(), NewMemoryStatsStore()
	boom := errors.New("boom")
	m := MultiStatsStore{a, failingStats{err: boom}, nil, b}

	err := m.Record(context.Background(), domain.StatsEvent{ShowID: "m1", Outcome: domain.OutcomeReleased})
	if !errors.Is(err, boom) {
		t.Fatalf("expected joined error to contain boom, got %v", err)
	}
	if a.Total()[domain.OutcomeReleased] != 1 || b.Total()[domain.OutcomeReleased] != 1 {
		t.Fatalf("expected both memory stores to record despite failure")
	}
}
