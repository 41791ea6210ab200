package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnknownShow    = fmt.Errorf("%w: unknown show", ErrInvalidInput)
	ErrUnknownHall    = fmt.Errorf("%w: unknown hall", ErrInvalidInput)
	ErrSeatOutOfRange = fmt.Errorf("%w: seat number out of range", ErrInvalidInput)
	ErrNoSeats        = fmt.Errorf("%w: no seats requested", ErrInvalidInput)
	ErrDuplicateSeat  = fmt.Errorf("%w: duplicate seat number", ErrInvalidInput)

	ErrAlreadyStarted   = errors.New("show already started")
	ErrAdmissionTimeout = errors.New("admission timeout")
	ErrSeatsUnavailable = errors.New("seats unavailable")
	ErrReleaseRejected  = errors.New("release rejected")
	ErrRateLimited      = errors.New("rate limited")
	ErrCanceled         = errors.New("booking canceled")
)

// Outcome classifica o resultado de uma operação para estatísticas e logs.
type Outcome string

const (
	OutcomeCommitted        Outcome = "committed"
	OutcomeReleased         Outcome = "released"
	OutcomeInvalidInput     Outcome = "invalid_input"
	OutcomeAlreadyStarted   Outcome = "already_started"
	OutcomeAdmissionTimeout Outcome = "admission_timeout"
	OutcomeSeatsUnavailable Outcome = "seats_unavailable"
	OutcomeReleaseRejected  Outcome = "release_rejected"
	OutcomeRateLimited      Outcome = "rate_limited"
	OutcomeCanceled         Outcome = "canceled"
	OutcomeInternal         Outcome = "internal"
)

// OutcomeOf mapeia o erro de uma reserva para o seu Outcome.
// nil significa OutcomeCommitted.
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeCommitted
	case errors.Is(err, ErrInvalidInput):
		return OutcomeInvalidInput
	case errors.Is(err, ErrAlreadyStarted):
		return OutcomeAlreadyStarted
	case errors.Is(err, ErrAdmissionTimeout):
		return OutcomeAdmissionTimeout
	case errors.Is(err, ErrSeatsUnavailable):
		return OutcomeSeatsUnavailable
	case errors.Is(err, ErrReleaseRejected):
		return OutcomeReleaseRejected
	case errors.Is(err, ErrRateLimited):
		return OutcomeRateLimited
	case errors.Is(err, ErrCanceled):
		return OutcomeCanceled
	default:
		return OutcomeInternal
	}
}

// ValidateSeats verifica um pedido contra a capacidade da sala:
// não vazio, sem números repetidos e todos em [1, capacity].
func ValidateSeats(seats []int, capacity int) error {
	if len(seats) == 0 {
		return ErrNoSeats
	}
	seen := make(map[int]struct{}, len(seats))
	for _, s := range seats {
		if s < 1 || s > capacity {
			return fmt.Errorf("%w: seat %d, hall has %d seats", ErrSeatOutOfRange, s, capacity)
		}
		if _, dup := seen[s]; dup {
			return fmt.Errorf("%w: seat %d", ErrDuplicateSeat, s)
		}
		seen[s] = struct{}{}
	}
	return nil
}
