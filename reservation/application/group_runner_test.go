package application

import (
	"context"
	"testing"
	"time"

	"cinema-booking/reservation/domain"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupRunner_ReportsPerBatchOutcome(t *testing.T) {
	f := newFixture(t, 10, 10)
	_, err := f.book("someone", []int{4, 5}, 0)
	require.NoError(t, err)

	g := GroupRunner{Booker: f.svc, MaxWait: 100 * time.Millisecond}
	res := g.Run(context.Background(), "m1", "g1", [][]int{{1, 2}, {4, 5}, {6}})

	require.Len(t, res.Successes, 2)
	require.Len(t, res.Failures, 1)

	holders := []domain.HolderID{res.Successes[0].HolderID, res.Successes[1].HolderID, res.Failures[0].HolderID}
	if diff := cmp.Diff([]domain.HolderID{"g1-1", "g1-3", "g1-2"}, holders); diff != "" {
		t.Fatalf("holder ids mismatch (-want +got):\n%s", diff)
	}

	fail := res.Failures[0]
	assert.ErrorIs(t, fail.Err, domain.ErrSeatsUnavailable)
	assert.Contains(t, fail.Message, "[4 5]")
	assert.Equal(t, []int{4, 5}, fail.Seats)

	assert.Equal(t, "g1", res.GroupID)
	assert.Equal(t, domain.ShowID("m1"), res.ShowID)
	assert.Equal(t, res.Successes[0].Reservation.Summary(), res.Successes[0].Message)
	assert.GreaterOrEqual(t, res.Elapsed, 100*time.Millisecond-testInterval)
}

type scriptedBooker struct {
	calls []domain.BookingRequest
}

func (b *scriptedBooker) Book(_ context.Context, req domain.BookingRequest) (domain.Reservation, error) {
	b.calls = append(b.calls, req)
	return domain.Reservation{HolderID: req.HolderID, Seats: req.Seats}, nil
}

func TestGroupRunner_IsSequentialAndPassesMaxWait(t *testing.T) {
	b := &scriptedBooker{}
	g := GroupRunner{Booker: b, MaxWait: 750 * time.Millisecond}

	res := g.Run(context.Background(), "m2", "team", [][]int{{1}, {2}, {3}})

	require.Len(t, b.calls, 3)
	for i, c := range b.calls {
		assert.Equal(t, HolderFor("team", i), c.HolderID)
		assert.Equal(t, 750*time.Millisecond, c.MaxWait)
		assert.Equal(t, domain.ShowID("m2"), c.ShowID)
	}
	assert.Len(t, res.Successes, 3)
	assert.Empty(t, res.Failures)
}
