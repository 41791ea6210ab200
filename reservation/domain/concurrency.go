package domain

import "context"

// SlotPool representa o pool global de vagas de admissão (semáforo contador).
//
// A semântica é: Acquire bloqueia até conseguir uma vaga ou até o ctx encerrar.
// Ao adquirir, retorna uma função de release que deve ser chamada exatamente uma vez.
// Uma tentativa de reserva segura a vaga durante todo o laço de retentativas.
type SlotPool interface {
	Acquire(ctx context.Context) (release func(), ok bool)
}

// AdmissionStats é uma leitura instantânea das tentativas dentro do laço de retentativas.
type AdmissionStats struct {
	Limit    int
	InFlight int64
	// Peak é o maior InFlight observado desde a criação.
	Peak int64
}
