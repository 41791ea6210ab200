package infra

import (
	"context"
	"fmt"

	"cinema-booking/reservation/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const otelScope = "cinema-booking/reservation"

// OtelStatsStore exporta os eventos como métricas OpenTelemetry:
//   - booking.outcomes: contador por outcome e sessão
//   - booking.seats: contador de assentos reservados por sessão
//   - booking.wait: histograma (segundos) da espera até o commit
type OtelStatsStore struct {
	outcomes metric.Int64Counter
	seats    metric.Int64Counter
	wait     metric.Float64Histogram
}

func NewOtelStatsStore(provider metric.MeterProvider) (*OtelStatsStore, error) {
	meter := provider.Meter(otelScope)

	outcomes, err := meter.Int64Counter("booking.outcomes",
		metric.WithDescription("Booking and release outcomes"))
	if err != nil {
		return nil, fmt.Errorf("create booking.outcomes counter: %w", err)
	}
	seats, err := meter.Int64Counter("booking.seats",
		metric.WithDescription("Seats committed"), metric.WithUnit("{seat}"))
	if err != nil {
		return nil, fmt.Errorf("create booking.seats counter: %w", err)
	}
	wait, err := meter.Float64Histogram("booking.wait",
		metric.WithDescription("Time from booking entry to commit"), metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("create booking.wait histogram: %w", err)
	}

	return &OtelStatsStore{outcomes: outcomes, seats: seats, wait: wait}, nil
}

func (s *OtelStatsStore) Record(ctx context.Context, ev domain.StatsEvent) error {
	show := attribute.String("show_id", string(ev.ShowID))

	s.outcomes.Add(ctx, 1, metric.WithAttributes(show, attribute.String("outcome", string(ev.Outcome))))
	if ev.Outcome == domain.OutcomeCommitted {
		s.seats.Add(ctx, int64(ev.Seats), metric.WithAttributes(show))
		s.wait.Record(ctx, ev.Wait.Seconds(), metric.WithAttributes(show))
	}
	return nil
}
