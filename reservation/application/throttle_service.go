package application

import (
	"time"

	"cinema-booking/reservation/domain"
)

// ThrottleService decide se um pedido de reserva cabe no orçamento do titular.
//
// A cobrança é por assento: Decide pede len(req.Seats) fichas ao Budget.
type ThrottleService struct {
	Budget domain.SeatBudget
	// RetryAfter é usado quando o Budget recusa sem dizer quanto esperar.
	RetryAfter time.Duration
}

func (s ThrottleService) Decide(req domain.BookingRequest, now time.Time) domain.Decision {
	if s.Budget == nil || len(req.Seats) == 0 {
		return domain.Decision{Allowed: true}
	}

	ok, wait := s.Budget.Take(req.HolderID, len(req.Seats), now)
	if ok {
		return domain.Decision{Allowed: true}
	}
	if wait <= 0 {
		wait = s.RetryAfter
	}
	if wait <= 0 {
		wait = time.Second
	}
	return domain.Decision{RetryAfter: wait}
}
