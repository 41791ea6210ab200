package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BookingRequest é um pedido de reserva atômica de um conjunto de assentos.
//
// MaxWait limita a espera pela vaga de admissão e, separadamente, o laço de
// retentativas pelos assentos. Se <= 0, vale o padrão do serviço.
type BookingRequest struct {
	ShowID   ShowID
	HolderID HolderID
	Seats    []int
	MaxWait  time.Duration
}

// Reservation é o registro de uma reserva confirmada. Nunca é alterado.
type Reservation struct {
	ID          uuid.UUID
	HolderID    HolderID
	ShowID      ShowID
	HallID      HallID
	Title       string
	StartsAt    time.Time
	Seats       []int
	CommittedAt time.Time
	// Wait é o tempo decorrido desde a entrada em Book até o commit.
	Wait time.Duration
}

func (r Reservation) Summary() string {
	return fmt.Sprintf("holder %s booked seats %v for %q at %s",
		r.HolderID, r.Seats, r.Title, r.StartsAt.Format("15:04"))
}

// ReservationSink recebe reservas confirmadas para auditoria externa (fila, log, etc.).
// O serviço trata erro como best-effort (nunca desfaz a reserva).
type ReservationSink interface {
	Publish(ctx context.Context, r Reservation) error
}
