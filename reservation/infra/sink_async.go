package infra

import (
	"context"

	"cinema-booking/reservation/domain"
)

// AsyncSink desacopla a publicação de reservas do caminho de reserva.
//
// Publish nunca bloqueia: enfileira num buffer e descarta quando ele está cheio.
// Um único worker repassa para o sink de destino com timeout por mensagem.
type AsyncSink struct {
	q *asyncQueue[domain.Reservation]
}

var _ domain.ReservationSink = (*AsyncSink)(nil)

// NewAsyncSink inicia o worker. Chame Close para drenar e parar.
func NewAsyncSink(next domain.ReservationSink, opts ...AsyncOption) *AsyncSink {
	c := newAsyncConfig(opts)
	onFail := func(r domain.Reservation, err error) {
		c.logger.Warn("reservation publish failed",
			"reservation_id", r.ID.String(), "show_id", r.ShowID, "error", err)
	}
	return &AsyncSink{q: startAsyncQueue(c, next.Publish, onFail)}
}

// Publish devolve ErrQueueFull ou ErrQueueClosed quando descarta.
func (s *AsyncSink) Publish(_ context.Context, r domain.Reservation) error {
	return s.q.offer(r)
}

// Close drena o buffer e espera o worker. Idempotente.
func (s *AsyncSink) Close() { s.q.close() }

func (s *AsyncSink) Counts() DeliveryCounts { return s.q.counts() }
