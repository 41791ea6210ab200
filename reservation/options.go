package reservation

import (
	"log/slog"
	"time"

	"cinema-booking/reservation/domain"
)

type Option func(*options)

type options struct {
	logger *slog.Logger
	stats  []domain.StatsStore
	sink   domain.ReservationSink
	now    func() time.Time

	deliveryBuffer  int
	deliveryTimeout time.Duration
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithStats adiciona stores além do contador em memória (Redis, OpenTelemetry...).
// Eles ficam atrás de um infra.AsyncStatsStore e nunca atrasam uma reserva.
func WithStats(stores ...domain.StatsStore) Option {
	return func(o *options) { o.stats = append(o.stats, stores...) }
}

// WithSink recebe as reservas confirmadas, entregues por um infra.AsyncSink.
func WithSink(sink domain.ReservationSink) Option {
	return func(o *options) { o.sink = sink }
}

// WithDelivery ajusta as filas assíncronas do sink e dos stats externos:
// capacidade do buffer e timeout por entrega. Valores <= 0 mantêm o padrão.
func WithDelivery(buffer int, timeout time.Duration) Option {
	return func(o *options) {
		o.deliveryBuffer = buffer
		o.deliveryTimeout = timeout
	}
}

// WithClock troca o relógio de parede (horário das sessões e CommittedAt).
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}
