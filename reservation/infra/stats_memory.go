package infra

import (
	"context"
	"sync"

	"cinema-booking/reservation/domain"
)

// Counters conta eventos por Outcome.
type Counters map[domain.Outcome]int64

func (c Counters) clone() Counters {
	out := make(Counters, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// MemoryStatsStore é uma implementação simples em memória.
// Útil para testes, para o simulador e para a leitura de resultados do Engine.
//
// Não faz expiração.
type MemoryStatsStore struct {
	mu       sync.Mutex
	total    Counters
	byShow   map[domain.ShowID]Counters
	byHolder map[domain.HolderID]Counters

	trackHolders bool
}

type MemoryStatsOption func(*MemoryStatsStore)

func WithTrackHolders(track bool) MemoryStatsOption {
	return func(s *MemoryStatsStore) { s.trackHolders = track }
}

func NewMemoryStatsStore(opts ...MemoryStatsOption) *MemoryStatsStore {
	s := &MemoryStatsStore{
		total:    make(Counters),
		byShow:   make(map[domain.ShowID]Counters),
		byHolder: make(map[domain.HolderID]Counters),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStatsStore) Record(_ context.Context, ev domain.StatsEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total[ev.Outcome]++

	c := s.byShow[ev.ShowID]
	if c == nil {
		c = make(Counters)
		s.byShow[ev.ShowID] = c
	}
	c[ev.Outcome]++

	if s.trackHolders && ev.HolderID != "" {
		h := s.byHolder[ev.HolderID]
		if h == nil {
			h = make(Counters)
			s.byHolder[ev.HolderID] = h
		}
		h[ev.Outcome]++
	}
	return nil
}

func (s *MemoryStatsStore) Total() Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total.clone()
}

func (s *MemoryStatsStore) ByShow() map[domain.ShowID]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[domain.ShowID]Counters, len(s.byShow))
	for k, v := range s.byShow {
		out[k] = v.clone()
	}
	return out
}

func (s *MemoryStatsStore) ByHolder() map[domain.HolderID]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[domain.HolderID]Counters, len(s.byHolder))
	for k, v := range s.byHolder {
		out[k] = v.clone()
	}
	return out
}
