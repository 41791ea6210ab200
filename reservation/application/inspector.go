package application

import (
	"time"

	"cinema-booking/reservation/domain"
)

// Inspector faz leituras pontuais de ocupação. Nada aqui bloqueia além
// do lock curto de cada sala.
type Inspector struct {
	Schedule domain.Schedule
}

func (i Inspector) HallStats(id domain.HallID) (domain.HallStats, error) {
	hall, err := i.Schedule.Hall(id)
	if err != nil {
		return domain.HallStats{}, err
	}
	capacity := hall.Seats.Capacity()
	free := hall.Seats.FreeCount()
	return domain.HallStats{
		HallID:        id,
		Capacity:      capacity,
		FreeSeats:     free,
		OccupiedSeats: capacity - free,
		TotalBookings: hall.Log.Len(),
	}, nil
}

func (i Inspector) ShowAvailability(id domain.ShowID, now time.Time) (domain.ShowAvailability, error) {
	show, hall, err := i.Schedule.Resolve(id)
	if err != nil {
		return domain.ShowAvailability{}, err
	}
	free, _ := hall.Seats.Snapshot()
	return domain.ShowAvailability{
		Show:      show,
		Bookable:  show.Bookable(now),
		FreeSeats: free,
	}, nil
}

func (i Inspector) ListBookable(now time.Time) []domain.ShowListing {
	return i.Schedule.ListBookable(now)
}

// CheckAvailability informa se todos os assentos estão livres agora.
// O resultado é apenas indicativo: outra chamada pode ocupá-los logo em seguida.
func (i Inspector) CheckAvailability(id domain.ShowID, seats []int) (bool, error) {
	show, hall, err := i.Schedule.Resolve(id)
	if err != nil {
		return false, err
	}
	if err := domain.ValidateSeats(seats, show.Capacity); err != nil {
		return false, err
	}
	return hall.Seats.Available(seats), nil
}
