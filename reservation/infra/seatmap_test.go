package infra

import (
	"errors"
	"sync"
	"testing"
	"time"

	"cinema-booking/reservation/domain"
)

func assertInvariant(t *testing.T, m *SeatMap) {
	t.Helper()
	free, occupied := m.Snapshot()
	if len(free)+len(occupied) != m.Capacity() {
		t.Fatalf("expected free+occupied == %d, got %d+%d", m.Capacity(), len(free), len(occupied))
	}
	seen := make(map[int]bool, m.Capacity())
	for _, s := range append(free, occupied...) {
		if seen[s] {
			t.Fatalf("seat %d appears both free and occupied", s)
		}
		seen[s] = true
	}
}

func TestSeatMap_CommitThenReleaseRestoresFreeSet(t *testing.T) {
	m := NewSeatMap("hall_a", 5)
	before, _ := m.Snapshot()

	if _, err := m.TryCommit([]int{4, 5}); err != nil {
		t.Fatalf("expected commit to succeed, got %v", err)
	}
	if m.FreeCount() != 3 {
		t.Fatalf("expected 3 free seats, got %d", m.FreeCount())
	}
	assertInvariant(t, m)

	if !m.Release([]int{4, 5}) {
		t.Fatalf("expected release to be accepted")
	}
	after, _ := m.Snapshot()
	if len(after) != len(before) {
		t.Fatalf("expected free set restored to %v, got %v", before, after)
	}
	assertInvariant(t, m)
}

func TestSeatMap_TryCommitConflictReturnsChangeChannel(t *testing.T) {
	m := NewSeatMap("hall_a", 5)
	if _, err := m.TryCommit([]int{1, 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	changed, err := m.TryCommit([]int{1, 3})
	if !errors.Is(err, domain.ErrSeatsUnavailable) {
		t.Fatalf("expected ErrSeatsUnavailable, got %v", err)
	}
	if changed == nil {
		t.Fatalf("expected a change channel on conflict")
	}
	if m.FreeCount() != 3 {
		t.Fatalf("failed commit must not mutate state, free=%d", m.FreeCount())
	}

	select {
	case <-changed:
		t.Fatalf("channel closed before any state change")
	default:
	}

	m.Release([]int{1, 2})

	select {
	case <-changed:
	case <-time.After(time.Second):
		t.Fatalf("expected release to close the change channel")
	}
}

func TestSeatMap_RejectsInvalidSeats(t *testing.T) {
	m := NewSeatMap("hall_a", 5)

	for _, seats := range [][]int{nil, {0}, {6}, {1, 1}} {
		if _, err := m.TryCommit(seats); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("TryCommit(%v): expected invalid input, got %v", seats, err)
		}
	}
	if m.FreeCount() != 5 {
		t.Fatalf("invalid commits must not mutate state")
	}
	if m.ValidRange([]int{0, 3}) {
		t.Fatalf("expected seat 0 to be out of range")
	}
	if m.Available([]int{6}) {
		t.Fatalf("out of range seat cannot be available")
	}
}

func TestSeatMap_ReleaseRejectsFreeOrPartiallyFreeSets(t *testing.T) {
	m := NewSeatMap("hall_a", 5)
	if _, err := m.TryCommit([]int{1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if m.Release([]int{2}) {
		t.Fatalf("expected release of free seat to be rejected")
	}
	if m.Release([]int{1, 2}) {
		t.Fatalf("expected release of partially free set to be rejected")
	}
	if m.Release([]int{9}) {
		t.Fatalf("expected release out of range to be rejected")
	}
	if m.FreeCount() != 4 {
		t.Fatalf("rejected releases must not mutate state, free=%d", m.FreeCount())
	}

	if !m.Release([]int{1}) {
		t.Fatalf("expected release of held seat to be accepted")
	}
	if m.Release([]int{1}) {
		t.Fatalf("expected double release to be rejected")
	}
	assertInvariant(t, m)
}

func TestSeatMap_ConcurrentOverlappingCommitsNeverDoubleBook(t *testing.T) {
	m := NewSeatMap("hall_a", 10)

	requests := [][]int{{1, 2}, {2, 3}, {3, 4}, {1, 4}, {5}, {5, 6}, {6, 7}, {7, 1}}

	var mu sync.Mutex
	owners := make(map[int]int)

	var wg sync.WaitGroup
	for round := 0; round < 50; round++ {
		for i, seats := range requests {
			wg.Add(1)
			go func(id int, seats []int) {
				defer wg.Done()
				if _, err := m.TryCommit(seats); err != nil {
					return
				}
				mu.Lock()
				defer mu.Unlock()
				for _, s := range seats {
					if prev, taken := owners[s]; taken {
						t.Errorf("seat %d committed twice (%d and %d)", s, prev, id)
					}
					owners[s] = id
				}
			}(round*len(requests)+i, seats)
		}
	}
	wg.Wait()

	assertInvariant(t, m)
	_, occupied := m.Snapshot()
	if len(occupied) != len(owners) {
		t.Fatalf("expected %d occupied seats, got %d", len(owners), len(occupied))
	}
}
