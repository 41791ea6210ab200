package infra

import (
	"context"

	"cinema-booking/reservation/domain"
)

// AsyncStatsStore tira stores lentos (Redis, exportadores) do caminho de
// reserva. Record só enfileira; o worker grava com timeout por evento e
// eventos que não cabem no buffer são descartados e contados.
type AsyncStatsStore struct {
	q *asyncQueue[domain.StatsEvent]
}

var _ domain.StatsStore = (*AsyncStatsStore)(nil)

func NewAsyncStatsStore(next domain.StatsStore, opts ...AsyncOption) *AsyncStatsStore {
	c := newAsyncConfig(opts)
	onFail := func(ev domain.StatsEvent, err error) {
		c.logger.Warn("stats record failed",
			"show_id", ev.ShowID, "outcome", ev.Outcome, "error", err)
	}
	return &AsyncStatsStore{q: startAsyncQueue(c, next.Record, onFail)}
}

func (s *AsyncStatsStore) Record(_ context.Context, ev domain.StatsEvent) error {
	return s.q.offer(ev)
}

// Close grava o que está no buffer e espera o worker. Idempotente.
func (s *AsyncStatsStore) Close() { s.q.close() }

func (s *AsyncStatsStore) Counts() DeliveryCounts { return s.q.counts() }
