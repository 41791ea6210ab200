package domain

import (
	"context"
	"time"
)

// StatsEvent representa o resultado de uma operação de reserva ou liberação.
//
// Observação: cuidado com cardinalidade (ex.: salvar HolderID sem controle pode
// explodir o número de chaves em uma base como Redis).
type StatsEvent struct {
	ShowID   ShowID
	HallID   HallID
	HolderID HolderID
	Outcome  Outcome
	Seats    int
	Wait     time.Duration

	At time.Time
}

// StatsStore é a estratégia de persistência para estatísticas de reserva.
//
// Implementações podem armazenar em Redis, OpenTelemetry, memória, etc.
// O serviço trata erro como best-effort (não derruba a reserva).
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
}

// HallStats é a leitura pontual de ocupação de uma sala.
type HallStats struct {
	HallID        HallID
	Capacity      int
	FreeSeats     int
	OccupiedSeats int
	// TotalBookings conta entradas do log, inclusive de assentos já liberados.
	TotalBookings int
}

// ShowAvailability é a disponibilidade de uma sessão num instante.
type ShowAvailability struct {
	Show      Show
	Bookable  bool
	FreeSeats []int
}
