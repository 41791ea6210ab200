package domain

// Throttle opcional por titular da reserva. Cada assento pedido consome uma
// ficha do orçamento do titular, então um pedido de quatro assentos pesa
// quatro vezes um pedido de um.

import "time"

// SeatBudget cobra assentos do orçamento de um titular.
//
// Take devolve ok=false quando o titular não tem fichas para seats agora; nesse
// caso retryAfter é quanto falta para a cobrança caber (0 se desconhecido) e
// nada é descontado. A infra usa golang.org/x/time/rate.
type SeatBudget interface {
	Take(holder HolderID, seats int, now time.Time) (ok bool, retryAfter time.Duration)
}

type Decision struct {
	Allowed bool
	// RetryAfter é a recomendação de espera devolvida ao chamador quando bloquear.
	// Se 0, não há recomendação.
	RetryAfter time.Duration
}
