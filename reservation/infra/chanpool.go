package infra

import (
	"context"
	"sync"

	"cinema-booking/reservation/domain"
)

type chanPool struct {
	sem chan struct{}
}

// NewChanPool cria um semáforo de admissão baseado em channel com capacidade `max`.
func NewChanPool(max int) domain.SlotPool {
	return &chanPool{sem: make(chan struct{}, max)}
}

func (p *chanPool) Acquire(ctx context.Context) (func(), bool) {
	// ctx já encerrado não deve ganhar vaga mesmo que haja uma livre.
	if ctx.Err() != nil {
		return nil, false
	}
	select {
	case p.sem <- struct{}{}:
		return sync.OnceFunc(func() { <-p.sem }), true
	case <-ctx.Done():
		return nil, false
	}
}
