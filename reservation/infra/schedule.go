package infra

import (
	"fmt"
	"sort"
	"time"

	"cinema-booking/reservation/domain"
)

// Schedule é o registro de sessões e salas. Não tem lock: o mapeamento é
// imutável depois de NewSchedule; só o estado das salas muda (com os locks delas).
type Schedule struct {
	halls map[domain.HallID]domain.Hall
	shows map[domain.ShowID]domain.Show
	// order mantém as sessões por horário de início e depois por id.
	order []domain.ShowID
}

var _ domain.Schedule = (*Schedule)(nil)

func NewSchedule(halls []domain.HallDef, shows []domain.ShowDef) (*Schedule, error) {
	s := &Schedule{
		halls: make(map[domain.HallID]domain.Hall, len(halls)),
		shows: make(map[domain.ShowID]domain.Show, len(shows)),
	}

	for _, h := range halls {
		if h.ID == "" {
			return nil, fmt.Errorf("hall id is required")
		}
		if h.Capacity < 1 {
			return nil, fmt.Errorf("hall %q: capacity must be >= 1, got %d", h.ID, h.Capacity)
		}
		if _, dup := s.halls[h.ID]; dup {
			return nil, fmt.Errorf("duplicate hall %q", h.ID)
		}
		s.halls[h.ID] = domain.Hall{
			Seats: NewSeatMap(h.ID, h.Capacity),
			Log:   NewReservationLog(),
		}
	}

	for _, d := range shows {
		if d.ID == "" {
			return nil, fmt.Errorf("show id is required")
		}
		if _, dup := s.shows[d.ID]; dup {
			return nil, fmt.Errorf("duplicate show %q", d.ID)
		}
		hall, ok := s.halls[d.HallID]
		if !ok {
			return nil, fmt.Errorf("show %q: %w %q", d.ID, domain.ErrUnknownHall, d.HallID)
		}
		s.shows[d.ID] = domain.Show{
			ID:       d.ID,
			Title:    d.Title,
			StartsAt: d.StartsAt,
			HallID:   d.HallID,
			Capacity: hall.Seats.Capacity(),
		}
		s.order = append(s.order, d.ID)
	}

	sort.Slice(s.order, func(i, j int) bool {
		a, b := s.shows[s.order[i]], s.shows[s.order[j]]
		if !a.StartsAt.Equal(b.StartsAt) {
			return a.StartsAt.Before(b.StartsAt)
		}
		return a.ID < b.ID
	})

	return s, nil
}

func (s *Schedule) Resolve(id domain.ShowID) (domain.Show, domain.Hall, error) {
	show, ok := s.shows[id]
	if !ok {
		return domain.Show{}, domain.Hall{}, fmt.Errorf("%w %q", domain.ErrUnknownShow, id)
	}
	return show, s.halls[show.HallID], nil
}

func (s *Schedule) Hall(id domain.HallID) (domain.Hall, error) {
	h, ok := s.halls[id]
	if !ok {
		return domain.Hall{}, fmt.Errorf("%w %q", domain.ErrUnknownHall, id)
	}
	return h, nil
}

// ListBookable lista as sessões com now < início. FreeSeats é lido com o lock da sala.
func (s *Schedule) ListBookable(now time.Time) []domain.ShowListing {
	out := make([]domain.ShowListing, 0, len(s.order))
	for _, id := range s.order {
		show := s.shows[id]
		if !show.Bookable(now) {
			continue
		}
		out = append(out, domain.ShowListing{
			Show:      show,
			FreeSeats: s.halls[show.HallID].Seats.FreeCount(),
		})
	}
	return out
}

// Shows retorna todas as sessões, inclusive as já iniciadas, na ordem de início.
func (s *Schedule) Shows() []domain.Show {
	out := make([]domain.Show, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.shows[id])
	}
	return out
}

// HallIDs retorna os ids das salas em ordem alfabética.
func (s *Schedule) HallIDs() []domain.HallID {
	out := make([]domain.HallID, 0, len(s.halls))
	for id := range s.halls {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
