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

func TestInspector_HallStatsCountsLogSeparatelyFromSeats(t *testing.T) {
	f := newFixture(t, 6, 10)
	in := Inspector{Schedule: f.schedule}

	_, err := f.book("u1", []int{1, 2}, 0)
	require.NoError(t, err)
	_, err = f.book("u2", []int{3}, 0)
	require.NoError(t, err)
	require.NoError(t, f.svc.Release(context.Background(), "m1", []int{1, 2}))

	st, err := in.HallStats("hall_a")
	require.NoError(t, err)
	want := domain.HallStats{HallID: "hall_a", Capacity: 6, FreeSeats: 5, OccupiedSeats: 1, TotalBookings: 2}
	if diff := cmp.Diff(want, st); diff != "" {
		t.Fatalf("hall stats mismatch (-want +got):\n%s", diff)
	}

	_, err = in.HallStats("nope")
	assert.ErrorIs(t, err, domain.ErrUnknownHall)
}

func TestInspector_ShowAvailabilityAndCheck(t *testing.T) {
	f := newFixture(t, 4, 10)
	in := Inspector{Schedule: f.schedule}

	_, err := f.book("u1", []int{2}, 0)
	require.NoError(t, err)

	av, err := in.ShowAvailability("m1", time.Now())
	require.NoError(t, err)
	assert.True(t, av.Bookable)
	assert.Equal(t, []int{1, 3, 4}, av.FreeSeats)

	av, err = in.ShowAvailability("m1", time.Now().Add(2*time.Hour))
	require.NoError(t, err)
	assert.False(t, av.Bookable)

	ok, err := in.CheckAvailability("m1", []int{1, 3})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = in.CheckAvailability("m1", []int{1, 2})
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = in.CheckAvailability("m1", []int{5})
	assert.ErrorIs(t, err, domain.ErrSeatOutOfRange)

	list := in.ListBookable(time.Now())
	require.Len(t, list, 1)
	assert.Equal(t, 3, list[0].FreeSeats)
	assert.Equal(t, 4, list[0].Capacity)
}
