package domain

import "time"

type (
	HallID   string
	ShowID   string
	HolderID string
)

// HallDef descreve uma sala na inicialização: identificador e capacidade.
// Os assentos são numerados de 1 até Capacity.
type HallDef struct {
	ID       HallID
	Capacity int
}

// ShowDef descreve uma sessão agendada na inicialização.
type ShowDef struct {
	ID       ShowID
	Title    string
	StartsAt time.Time
	HallID   HallID
}

// Show é uma sessão registrada. É imutável depois da inicialização.
//
// Capacity é uma cópia da capacidade da sala no momento do agendamento.
type Show struct {
	ID       ShowID
	Title    string
	StartsAt time.Time
	HallID   HallID
	Capacity int
}

// Bookable informa se a sessão ainda aceita reservas (now estritamente antes do início).
func (s Show) Bookable(now time.Time) bool {
	return now.Before(s.StartsAt)
}

// ShowListing é uma linha da listagem de sessões reserváveis.
type ShowListing struct {
	Show
	FreeSeats int
}

// Hall agrupa o inventário de assentos de uma sala e o seu log de reservas.
// Os dois têm locks independentes.
type Hall struct {
	Seats SeatMap
	Log   ReservationLog
}

// SeatMap é o conjunto de assentos livres de uma sala e o monitor que o protege.
//
// TryCommit valida os assentos, verifica a disponibilidade e remove os assentos
// numa única aquisição do lock. Em conflito retorna ErrSeatsUnavailable junto do
// canal que será fechado na próxima mudança de estado da sala; o canal é capturado
// sob o mesmo lock da verificação, então nenhuma notificação se perde.
type SeatMap interface {
	HallID() HallID
	Capacity() int
	ValidRange(seats []int) bool
	Available(seats []int) bool
	TryCommit(seats []int) (changed <-chan struct{}, err error)
	// Release devolve os assentos ao conjunto livre. Só aceita se todos estiverem ocupados.
	Release(seats []int) bool
	FreeCount() int
	Snapshot() (free, occupied []int)
}

// ReservationLog é a trilha de auditoria (append-only) das reservas confirmadas.
// Nunca é usada para derivar a ocupação atual.
type ReservationLog interface {
	Append(r Reservation)
	Len() int
	Entries() []Reservation
}

// Schedule resolve sessões para salas. O mapeamento é imutável depois da inicialização.
type Schedule interface {
	Resolve(id ShowID) (Show, Hall, error)
	Hall(id HallID) (Hall, error)
	ListBookable(now time.Time) []ShowListing
}
