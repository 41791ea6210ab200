package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync/atomic"
	"time"

	"cinema-booking/reservation/domain"

	"github.com/google/uuid"
)

const (
	DefaultMaxWait       = 2 * time.Second
	DefaultRetryInterval = 1 * time.Second
)

// BookingService coordena reservas e liberações de assentos.
//
// Fluxo de Book: valida (sessão, horário, assentos) → throttle opcional →
// vaga de admissão (até MaxWait) → laço de retentativas na sala (até MaxWait
// desde a entrada no laço) → commit, log, sink. A vaga de admissão é devolvida
// em qualquer saída.
//
// Use sempre por ponteiro: guarda contadores atômicos.
type BookingService struct {
	Schedule  domain.Schedule
	Admission ConcurrencyService
	Throttle  ThrottleService

	// Stats e Sink rodam no caminho de reserva: destinos lentos devem vir
	// atrás de infra.AsyncStatsStore e infra.AsyncSink.
	Stats  domain.StatsStore
	Sink   domain.ReservationSink
	Logger *slog.Logger

	// Now é o relógio de parede usado para "já começou" e CommittedAt.
	// Os prazos de espera usam sempre o relógio monotônico.
	Now func() time.Time

	RetryInterval  time.Duration
	DefaultMaxWait time.Duration

	inFlight atomic.Int64
	peak     atomic.Int64
}

func (s *BookingService) Book(ctx context.Context, req domain.BookingRequest) (domain.Reservation, error) {
	entered := time.Now()

	r, err := s.book(ctx, req, entered)

	ev := domain.StatsEvent{
		ShowID:   req.ShowID,
		HallID:   r.HallID,
		HolderID: req.HolderID,
		Outcome:  domain.OutcomeOf(err),
		Seats:    len(req.Seats),
		Wait:     time.Since(entered),
		At:       s.now(),
	}
	s.record(ctx, ev)

	if err != nil {
		s.logger().Debug("booking failed",
			"show_id", req.ShowID, "holder_id", req.HolderID, "seats", req.Seats,
			"outcome", ev.Outcome, "error", err)
		return domain.Reservation{}, err
	}
	return r, nil
}

func (s *BookingService) book(ctx context.Context, req domain.BookingRequest, entered time.Time) (domain.Reservation, error) {
	show, hall, err := s.Schedule.Resolve(req.ShowID)
	if err != nil {
		return domain.Reservation{}, err
	}
	out := domain.Reservation{HallID: show.HallID}

	if !show.Bookable(s.now()) {
		return out, fmt.Errorf("%w: %q started at %s", domain.ErrAlreadyStarted, show.Title, show.StartsAt.Format("15:04"))
	}
	if err := domain.ValidateSeats(req.Seats, show.Capacity); err != nil {
		return out, err
	}
	if dec := s.Throttle.Decide(req, time.Now()); !dec.Allowed {
		return out, fmt.Errorf("%w: holder %s, retry after %s", domain.ErrRateLimited, req.HolderID, dec.RetryAfter)
	}

	maxWait := req.MaxWait
	if maxWait <= 0 {
		maxWait = s.defaultMaxWait()
	}

	release, err := s.Admission.Acquire(ctx, maxWait)
	if err != nil {
		return out, err
	}
	defer release()

	exit := s.enter()
	defer exit()

	if err := s.commitWithin(ctx, hall.Seats, req.Seats, maxWait); err != nil {
		return out, err
	}

	r := domain.Reservation{
		ID:          uuid.New(),
		HolderID:    req.HolderID,
		ShowID:      show.ID,
		HallID:      show.HallID,
		Title:       show.Title,
		StartsAt:    show.StartsAt,
		Seats:       slices.Clone(req.Seats),
		CommittedAt: s.now(),
		Wait:        time.Since(entered),
	}

	// O lock da sala já foi liberado por TryCommit; o log tem lock próprio.
	hall.Log.Append(r)

	if s.Sink != nil {
		if err := s.Sink.Publish(ctx, r); err != nil {
			s.logger().Warn("reservation sink rejected booking",
				"reservation_id", r.ID.String(), "show_id", r.ShowID, "error", err)
		}
	}

	s.logger().Info("booking committed",
		"reservation_id", r.ID.String(),
		"show_id", r.ShowID,
		"hall_id", r.HallID,
		"holder_id", r.HolderID,
		"seats", r.Seats,
		"wait", r.Wait,
		"free_seats", hall.Seats.FreeCount(),
	)
	return r, nil
}

// commitWithin repete TryCommit até conseguir ou até o orçamento acabar.
// Entre tentativas espera uma mudança na sala ou RetryInterval, o que vier antes.
func (s *BookingService) commitWithin(ctx context.Context, seats domain.SeatMap, want []int, budget time.Duration) error {
	deadline := time.Now().Add(budget)
	interval := s.retryInterval()

	for {
		changed, err := seats.TryCommit(want)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrSeatsUnavailable) {
			return err
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return fmt.Errorf("%w: seats %v still taken after %s", domain.ErrSeatsUnavailable, want, budget)
		}

		timer := time.NewTimer(min(interval, remaining))
		select {
		case <-changed:
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%w: %w", domain.ErrCanceled, ctx.Err())
		}
		timer.Stop()
	}
}

// Release devolve assentos ocupados à sala e acorda quem espera por ela.
// Não passa pela admissão.
func (s *BookingService) Release(ctx context.Context, showID domain.ShowID, seats []int) error {
	err := s.release(showID, seats)

	outcome := domain.OutcomeReleased
	if err != nil {
		outcome = domain.OutcomeOf(err)
	}
	s.record(ctx, domain.StatsEvent{
		ShowID:  showID,
		Outcome: outcome,
		Seats:   len(seats),
		At:      s.now(),
	})
	return err
}

func (s *BookingService) release(showID domain.ShowID, seats []int) error {
	show, hall, err := s.Schedule.Resolve(showID)
	if err != nil {
		return err
	}
	if err := domain.ValidateSeats(seats, show.Capacity); err != nil {
		return err
	}
	if !hall.Seats.Release(seats) {
		return fmt.Errorf("%w: seats %v are not all held", domain.ErrReleaseRejected, seats)
	}

	s.logger().Info("seats released",
		"show_id", showID, "hall_id", show.HallID, "seats", seats,
		"free_seats", hall.Seats.FreeCount())
	return nil
}

// AdmissionStats devolve quantas tentativas estão no laço de retentativas agora.
func (s *BookingService) AdmissionStats() domain.AdmissionStats {
	return domain.AdmissionStats{
		Limit:    s.Admission.Limit,
		InFlight: s.inFlight.Load(),
		Peak:     s.peak.Load(),
	}
}

func (s *BookingService) enter() (exit func()) {
	n := s.inFlight.Add(1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}
	return func() { s.inFlight.Add(-1) }
}

func (s *BookingService) record(ctx context.Context, ev domain.StatsEvent) {
	if s.Stats == nil {
		return
	}
	// Estatística não pode depender do ctx do chamador (que pode já ter sido cancelado).
	if err := s.Stats.Record(context.WithoutCancel(ctx), ev); err != nil {
		s.logger().Warn("stats record failed", "show_id", ev.ShowID, "outcome", ev.Outcome, "error", err)
	}
}

func (s *BookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *BookingService) retryInterval() time.Duration {
	if s.RetryInterval > 0 {
		return s.RetryInterval
	}
	return DefaultRetryInterval
}

func (s *BookingService) defaultMaxWait() time.Duration {
	if s.DefaultMaxWait > 0 {
		return s.DefaultMaxWait
	}
	return DefaultMaxWait
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func (s *BookingService) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return discardLogger
}
