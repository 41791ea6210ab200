package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestOutcomeOf_ClassifiesWrappedErrors(t *testing.T) {
	cases := []struct {
		err  error
		want Outcome
	}{
		{nil, OutcomeCommitted},
		{ErrUnknownShow, OutcomeInvalidInput},
		{fmt.Errorf("%w: seat 9", ErrSeatOutOfRange), OutcomeInvalidInput},
		{fmt.Errorf("%w: m1", ErrAlreadyStarted), OutcomeAlreadyStarted},
		{ErrAdmissionTimeout, OutcomeAdmissionTimeout},
		{fmt.Errorf("%w: seats [1 2]", ErrSeatsUnavailable), OutcomeSeatsUnavailable},
		{ErrReleaseRejected, OutcomeReleaseRejected},
		{ErrRateLimited, OutcomeRateLimited},
		{fmt.Errorf("%w: %w", ErrCanceled, context.Canceled), OutcomeCanceled},
		{errors.New("boom"), OutcomeInternal},
	}

	for _, c := range cases {
		if got := OutcomeOf(c.err); got != c.want {
			t.Fatalf("OutcomeOf(%v): expected %q, got %q", c.err, c.want, got)
		}
	}
}

func TestValidateSeats(t *testing.T) {
	cases := []struct {
		name  string
		seats []int
		want  error
	}{
		{"valid", []int{1, 5, 3}, nil},
		{"empty", nil, ErrNoSeats},
		{"zero", []int{0}, ErrSeatOutOfRange},
		{"above capacity", []int{1, 6}, ErrSeatOutOfRange},
		{"duplicate", []int{2, 2}, ErrDuplicateSeat},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := ValidateSeats(c.seats, 5)
			if c.want == nil {
				if err != nil {
					t.Fatalf("expected nil, got %v", err)
				}
				return
			}
			if !errors.Is(err, c.want) {
				t.Fatalf("expected %v, got %v", c.want, err)
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected error to be invalid input, got %v", err)
			}
		})
	}
}

func TestShow_BookableIsStrictlyBeforeStart(t *testing.T) {
	start := time.Date(2026, 1, 1, 20, 0, 0, 0, time.UTC)
	s := Show{StartsAt: start}

	if !s.Bookable(start.Add(-time.Nanosecond)) {
		t.Fatalf("expected bookable just before start")
	}
	if s.Bookable(start) {
		t.Fatalf("expected not bookable at start time")
	}
}
