package application

import (
	"context"
	"fmt"
	"time"

	"cinema-booking/reservation/domain"
)

// Booker é o que o GroupRunner precisa do coordenador.
type Booker interface {
	Book(ctx context.Context, req domain.BookingRequest) (domain.Reservation, error)
}

type GroupItem struct {
	HolderID domain.HolderID
	Seats    []int
	Message  string

	// Reservation só é preenchida em sucessos; Err só em falhas.
	Reservation domain.Reservation
	Err         error
}

type GroupResult struct {
	GroupID   string
	ShowID    domain.ShowID
	Successes []GroupItem
	Failures  []GroupItem
	Elapsed   time.Duration
}

// GroupRunner executa os lotes de um grupo em sequência, um Book por lote.
// Não adiciona sincronização própria.
type GroupRunner struct {
	Booker Booker
	// MaxWait por lote; <= 0 usa o padrão do Booker.
	MaxWait time.Duration
}

// HolderFor devolve o titular derivado do lote i (base zero) do grupo.
func HolderFor(groupID string, i int) domain.HolderID {
	return domain.HolderID(fmt.Sprintf("%s-%d", groupID, i+1))
}

func (g GroupRunner) Run(ctx context.Context, showID domain.ShowID, groupID string, batches [][]int) GroupResult {
	start := time.Now()
	res := GroupResult{GroupID: groupID, ShowID: showID}

	for i, seats := range batches {
		holder := HolderFor(groupID, i)
		r, err := g.Booker.Book(ctx, domain.BookingRequest{
			ShowID:   showID,
			HolderID: holder,
			Seats:    seats,
			MaxWait:  g.MaxWait,
		})

		item := GroupItem{HolderID: holder, Seats: seats}
		if err != nil {
			item.Err = err
			item.Message = err.Error()
			res.Failures = append(res.Failures, item)
			continue
		}
		item.Reservation = r
		item.Message = r.Summary()
		res.Successes = append(res.Successes, item)
	}

	res.Elapsed = time.Since(start)
	return res
}
