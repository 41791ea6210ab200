package infra

import (
	"context"
	"sync"

	"cinema-booking/reservation/domain"

	"golang.org/x/sync/semaphore"
)

type weightedPool struct {
	sem *semaphore.Weighted
}

// NewWeightedPool cria um semáforo de admissão sobre x/sync/semaphore.
// Diferente do chanPool, os que esperam são atendidos em ordem FIFO.
func NewWeightedPool(max int) domain.SlotPool {
	return &weightedPool{sem: semaphore.NewWeighted(int64(max))}
}

func (p *weightedPool) Acquire(ctx context.Context) (func(), bool) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, false
	}
	return sync.OnceFunc(func() { p.sem.Release(1) }), true
}
