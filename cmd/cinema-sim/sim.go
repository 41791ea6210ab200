package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"cinema-booking/reservation"
	"cinema-booking/reservation/domain"

	"golang.org/x/sync/errgroup"
)

type simulation struct {
	engine *reservation.Engine
	logger *slog.Logger
	out    io.Writer
	cfg    config

	mu  sync.Mutex // rng não é seguro para uso concorrente
	rng *rand.Rand
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed>>1)))
}

func (s *simulation) run(ctx context.Context) error {
	s.printListing()
	s.printHallStats("hall statistics")

	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"concurrent bookings", s.concurrentBookings},
		{"group bookings", s.groupBookings},
		{"stress test", s.stress},
	}
	for _, st := range steps {
		fmt.Fprintf(s.out, "\n== %s ==\n", st.name)
		if err := st.fn(ctx); err != nil {
			return fmt.Errorf("%s: %w", st.name, err)
		}
	}

	s.printHallStats("final statistics")
	s.printOutcomes()
	return nil
}

func (s *simulation) printListing() {
	fmt.Fprintln(s.out, "== bookable shows ==")
	for _, l := range s.engine.ListBookableShows() {
		fmt.Fprintf(s.out, "  %-4s %-14s %s  %s  free %d/%d\n",
			l.ID, l.Title, l.StartsAt.Format("15:04"), l.HallID, l.FreeSeats, l.Capacity)
	}
}

func (s *simulation) printHallStats(title string) {
	fmt.Fprintf(s.out, "\n== %s ==\n", title)
	total := 0
	for _, id := range s.engine.HallIDs() {
		st, err := s.engine.HallStats(id)
		if err != nil {
			continue
		}
		total += st.TotalBookings
		fmt.Fprintf(s.out, "  %s: %d/%d free, bookings: %d\n", id, st.FreeSeats, st.Capacity, st.TotalBookings)
	}
	fmt.Fprintf(s.out, "  total bookings: %d\n", total)
}

func (s *simulation) printOutcomes() {
	adm := s.engine.Admission()
	fmt.Fprintf(s.out, "  admission: limit %d, peak in flight %d\n", adm.Limit, adm.Peak)
	for outcome, n := range s.engine.Outcomes() {
		fmt.Fprintf(s.out, "  %-18s %d\n", outcome, n)
	}
}

func (s *simulation) intN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

func (s *simulation) float() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// sample devolve k assentos distintos em [1, capacity].
func (s *simulation) sample(capacity, k int) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	k = min(k, capacity)
	perm := s.rng.Perm(capacity)[:k]
	for i := range perm {
		perm[i]++
	}
	return perm
}

func (s *simulation) jitter(lo, hi time.Duration) time.Duration {
	return lo + time.Duration(s.float()*float64(hi-lo))
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// concurrentBookings: cada usuário escolhe uma sessão aberta e 1..3 assentos;
// 10% dos que conseguem liberam depois de um tempo.
func (s *simulation) concurrentBookings(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	var messages []string

	for i := 1; i <= s.cfg.users; i++ {
		holder := domain.HolderID(fmt.Sprintf("user-%d", i))
		g.Go(func() error {
			shows := s.engine.ListBookableShows()
			if len(shows) == 0 {
				return nil
			}
			show := shows[s.intN(len(shows))]
			seats := s.sample(show.Capacity, 1+s.intN(3))

			r, err := s.engine.Book(ctx, domain.BookingRequest{ShowID: show.ID, HolderID: holder, Seats: seats})
			ok, msg := reservation.Describe(r, err)

			mu.Lock()
			messages = append(messages, fmt.Sprintf("%s: %s", holder, msg))
			mu.Unlock()

			if ok && s.float() < 0.1 {
				if err := sleep(ctx, s.jitter(500*time.Millisecond, 1500*time.Millisecond)); err != nil {
					return err
				}
				if err := s.engine.Release(ctx, show.ID, seats); err != nil {
					s.logger.Warn("release failed", "holder_id", holder, "error", err)
				}
			}
			return nil
		})

		if err := sleep(ctx, s.jitter(50*time.Millisecond, 200*time.Millisecond)); err != nil {
			break
		}
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, m := range messages {
		fmt.Fprintf(s.out, "  - %s\n", m)
	}
	return nil
}

// groupBookings: grupos de 2..4 pessoas, 1..2 assentos cada, numa sessão sorteada.
func (s *simulation) groupBookings(ctx context.Context) error {
	shows := s.engine.ListBookableShows()
	if len(shows) == 0 {
		fmt.Fprintln(s.out, "  no bookable shows")
		return nil
	}

	for gid := 1; gid <= s.cfg.groups; gid++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		show := shows[s.intN(len(shows))]
		size := 2 + s.intN(3)
		batches := make([][]int, 0, size)
		for range size {
			batches = append(batches, s.sample(show.Capacity, 1+s.intN(2)))
		}

		res := s.engine.GroupBook(ctx, show.ID, fmt.Sprintf("group%d", gid), batches)
		fmt.Fprintf(s.out, "  group %s, %q: %d ok, %d failed, %.2fs\n",
			res.GroupID, show.Title, len(res.Successes), len(res.Failures), res.Elapsed.Seconds())
		for _, f := range res.Failures {
			fmt.Fprintf(s.out, "    ! %s: %s\n", f.HolderID, f.Message)
		}
	}
	return nil
}

// stress: workers disputam os assentos 1..5 da primeira sessão aberta e
// liberam pouco depois de conseguir.
func (s *simulation) stress(ctx context.Context) error {
	shows := s.engine.ListBookableShows()
	if len(shows) == 0 {
		return nil
	}
	show := shows[0]

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < s.cfg.stressWorkers; w++ {
		holder := domain.HolderID(fmt.Sprintf("stress-%d", w))
		g.Go(func() error {
			seats := s.sample(min(5, show.Capacity), 1+s.intN(3))
			r, err := s.engine.Book(ctx, domain.BookingRequest{ShowID: show.ID, HolderID: holder, Seats: seats})
			if err != nil {
				s.logger.Info("stress booking failed", "holder_id", holder, "seats", seats, "outcome", domain.OutcomeOf(err))
				return nil
			}
			if err := sleep(ctx, s.jitter(300*time.Millisecond, 700*time.Millisecond)); err != nil {
				return err
			}
			return s.engine.Release(ctx, show.ID, r.Seats)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	st, err := s.engine.HallStats(show.HallID)
	if err != nil {
		return err
	}
	if st.FreeSeats+st.OccupiedSeats != st.Capacity {
		return fmt.Errorf("hall %s inventory mismatch: %+v", show.HallID, st)
	}
	fmt.Fprintf(s.out, "  stress test finished on %s (%s): %d/%d free\n", show.ID, show.HallID, st.FreeSeats, st.Capacity)
	return nil
}
