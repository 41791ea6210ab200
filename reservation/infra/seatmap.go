package infra

import (
	"sync"

	"cinema-booking/reservation/domain"
)

// SeatMap é o monitor de uma sala: conjunto de assentos livres + "condição".
//
// sync.Cond não tem espera com timeout, então a condição é um canal de broadcast:
// toda mudança de estado fecha `changed` e instala um canal novo. Quem espera
// captura o canal sob o lock e faz select com timer/ctx fora dele.
type SeatMap struct {
	id       domain.HallID
	capacity int

	mu      sync.Mutex
	free    map[int]struct{}
	changed chan struct{}
}

var _ domain.SeatMap = (*SeatMap)(nil)

// NewSeatMap cria uma sala com todos os assentos 1..capacity livres.
func NewSeatMap(id domain.HallID, capacity int) *SeatMap {
	m := &SeatMap{
		id:       id,
		capacity: capacity,
		free:     make(map[int]struct{}, capacity),
		changed:  make(chan struct{}),
	}
	for s := 1; s <= capacity; s++ {
		m.free[s] = struct{}{}
	}
	return m
}

func (m *SeatMap) HallID() domain.HallID { return m.id }
func (m *SeatMap) Capacity() int         { return m.capacity }

func (m *SeatMap) ValidRange(seats []int) bool {
	for _, s := range seats {
		if s < 1 || s > m.capacity {
			return false
		}
	}
	return true
}

// Available é uma leitura pontual; o resultado pode estar velho logo depois.
// Para decidir e reservar use TryCommit.
func (m *SeatMap) Available(seats []int) bool {
	if !m.ValidRange(seats) {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.allFreeLocked(seats)
}

func (m *SeatMap) TryCommit(seats []int) (<-chan struct{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := domain.ValidateSeats(seats, m.capacity); err != nil {
		return nil, err
	}
	if !m.allFreeLocked(seats) {
		return m.changed, domain.ErrSeatsUnavailable
	}

	for _, s := range seats {
		delete(m.free, s)
	}
	m.broadcastLocked()
	return nil, nil
}

func (m *SeatMap) Release(seats []int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if domain.ValidateSeats(seats, m.capacity) != nil {
		return false
	}
	for _, s := range seats {
		if _, isFree := m.free[s]; isFree {
			return false
		}
	}

	for _, s := range seats {
		m.free[s] = struct{}{}
	}
	m.broadcastLocked()
	return true
}

func (m *SeatMap) FreeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.free)
}

// Snapshot retorna os assentos livres e ocupados, ordenados, lidos sob o mesmo lock.
func (m *SeatMap) Snapshot() (free, occupied []int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	free = make([]int, 0, len(m.free))
	occupied = make([]int, 0, m.capacity-len(m.free))
	for s := 1; s <= m.capacity; s++ {
		if _, ok := m.free[s]; ok {
			free = append(free, s)
		} else {
			occupied = append(occupied, s)
		}
	}
	return free, occupied
}

func (m *SeatMap) allFreeLocked(seats []int) bool {
	for _, s := range seats {
		if _, ok := m.free[s]; !ok {
			return false
		}
	}
	return true
}

// broadcastLocked acorda todos os que esperam nesta sala. Exige m.mu.
func (m *SeatMap) broadcastLocked() {
	close(m.changed)
	m.changed = make(chan struct{})
}
