package infra

import (
	"context"
	"sync"
	"time"

	"cinema-booking/reservation/domain"

	"golang.org/x/time/rate"
)

// HolderBudgets guarda um token bucket (x/time/rate) por titular, em que cada
// ficha vale um assento. Titulares ociosos há mais de idleTTL são esquecidos
// pelo Sweep; como o bucket deles já estaria cheio, nada se perde.
type HolderBudgets struct {
	mu      sync.Mutex
	buckets map[domain.HolderID]*holderBucket

	seatsPerSec rate.Limit
	burst       int
	idleTTL     time.Duration
	sweepEvery  time.Duration
}

type holderBucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

var _ domain.SeatBudget = (*HolderBudgets)(nil)

type BudgetOption func(*HolderBudgets)

func WithIdleTTL(d time.Duration) BudgetOption {
	return func(b *HolderBudgets) { b.idleTTL = d }
}

// WithSweepEvery define o período do janitor; <= 0 desliga o janitor.
func WithSweepEvery(d time.Duration) BudgetOption {
	return func(b *HolderBudgets) { b.sweepEvery = d }
}

// NewHolderBudgets cria orçamentos de seatsPerSecond assentos por segundo com
// rajada de burst assentos (mínimo 1).
func NewHolderBudgets(seatsPerSecond float64, burst int, opts ...BudgetOption) *HolderBudgets {
	b := &HolderBudgets{
		buckets:     make(map[domain.HolderID]*holderBucket),
		seatsPerSec: rate.Limit(seatsPerSecond),
		burst:       max(burst, 1),
		idleTTL:     15 * time.Minute,
		sweepEvery:  2 * time.Minute,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Take implementa domain.SeatBudget. Um pedido maior que a rajada cobra a
// rajada inteira.
//
// A recusa devolve as fichas reservadas e informa o atraso exato até a
// cobrança caber.
func (b *HolderBudgets) Take(holder domain.HolderID, seats int, now time.Time) (bool, time.Duration) {
	n := min(seats, b.burst)
	if n <= 0 {
		return true, 0
	}

	r := b.bucket(holder, now).ReserveN(now, n)
	if !r.OK() {
		return false, 0
	}
	if wait := r.DelayFrom(now); wait > 0 {
		r.CancelAt(now)
		return false, wait
	}
	return true, 0
}

func (b *HolderBudgets) bucket(holder domain.HolderID, now time.Time) *rate.Limiter {
	b.mu.Lock()
	defer b.mu.Unlock()

	bk, ok := b.buckets[holder]
	if !ok {
		bk = &holderBucket{lim: rate.NewLimiter(b.seatsPerSec, b.burst)}
		b.buckets[holder] = bk
	}
	if now.After(bk.lastSeen) {
		bk.lastSeen = now
	}
	return bk.lim
}

// Len é o número de titulares com bucket ativo.
func (b *HolderBudgets) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.buckets)
}

// Sweep esquece titulares sem pedidos desde now-idleTTL.
func (b *HolderBudgets) Sweep(now time.Time) int {
	cutoff := now.Add(-b.idleTTL)

	b.mu.Lock()
	defer b.mu.Unlock()

	var removed int
	for holder, bk := range b.buckets {
		if bk.lastSeen.Before(cutoff) {
			delete(b.buckets, holder)
			removed++
		}
	}
	return removed
}

// StartJanitor roda Sweep a cada sweepEvery até ctx ser cancelado.
func (b *HolderBudgets) StartJanitor(ctx context.Context) {
	if b.sweepEvery <= 0 {
		return
	}

	tick := time.NewTicker(b.sweepEvery)
	go func() {
		defer tick.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-tick.C:
				b.Sweep(now)
			}
		}
	}()
}
