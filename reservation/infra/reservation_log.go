package infra

import (
	"slices"
	"sync"

	"cinema-booking/reservation/domain"
)

// ReservationLog é o histórico append-only de uma sala, com lock próprio.
//
// Liberações não removem entradas: a ocupação atual vem só do SeatMap.
type ReservationLog struct {
	mu      sync.Mutex
	entries []domain.Reservation
}

var _ domain.ReservationLog = (*ReservationLog)(nil)

func NewReservationLog() *ReservationLog {
	return &ReservationLog{}
}

func (l *ReservationLog) Append(r domain.Reservation) {
	r.Seats = slices.Clone(r.Seats)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, r)
}

func (l *ReservationLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Entries e ByHolder devolvem cópias profundas: alterar o resultado não
// altera o histórico.
func (l *ReservationLog) Entries() []domain.Reservation {
	return l.collect(func(domain.Reservation) bool { return true })
}

func (l *ReservationLog) ByHolder(holder domain.HolderID) []domain.Reservation {
	return l.collect(func(r domain.Reservation) bool { return r.HolderID == holder })
}

func (l *ReservationLog) collect(keep func(domain.Reservation) bool) []domain.Reservation {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []domain.Reservation
	for _, r := range l.entries {
		if keep(r) {
			r.Seats = slices.Clone(r.Seats)
			out = append(out, r)
		}
	}
	return out
}
