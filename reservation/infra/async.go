package infra

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrQueueFull   = errors.New("delivery buffer full")
	ErrQueueClosed = errors.New("delivery queue closed")
)

// DeliveryCounts resume uma fila assíncrona: entregues, falhas no destino e
// descartes (buffer cheio ou fila fechada).
type DeliveryCounts struct {
	Delivered int64
	Failed    int64
	Dropped   int64
}

type AsyncOption func(*asyncConfig)

type asyncConfig struct {
	buffer  int
	timeout time.Duration
	logger  *slog.Logger
}

// WithAsyncBuffer define a capacidade do buffer (padrão 256).
func WithAsyncBuffer(n int) AsyncOption {
	return func(c *asyncConfig) {
		if n > 0 {
			c.buffer = n
		}
	}
}

// WithAsyncTimeout limita cada entrega ao destino (padrão 5s).
func WithAsyncTimeout(d time.Duration) AsyncOption {
	return func(c *asyncConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithAsyncLogger(l *slog.Logger) AsyncOption {
	return func(c *asyncConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

func newAsyncConfig(opts []AsyncOption) asyncConfig {
	c := asyncConfig{
		buffer:  256,
		timeout: 5 * time.Second,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// asyncQueue é o buffer com um único worker por trás de AsyncSink e
// AsyncStatsStore. offer nunca bloqueia.
type asyncQueue[T any] struct {
	deliver func(context.Context, T) error
	onFail  func(T, error)
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan T
	wg     sync.WaitGroup

	delivered atomic.Int64
	failed    atomic.Int64
	dropped   atomic.Int64
}

func startAsyncQueue[T any](c asyncConfig, deliver func(context.Context, T) error, onFail func(T, error)) *asyncQueue[T] {
	q := &asyncQueue[T]{
		deliver: deliver,
		onFail:  onFail,
		timeout: c.timeout,
		queue:   make(chan T, c.buffer),
	}
	q.wg.Add(1)
	go q.run()
	return q
}

func (q *asyncQueue[T]) offer(v T) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		q.dropped.Add(1)
		return ErrQueueClosed
	}
	select {
	case q.queue <- v:
		return nil
	default:
		q.dropped.Add(1)
		return ErrQueueFull
	}
}

// close para de aceitar itens, entrega o que está no buffer e espera o worker.
func (q *asyncQueue[T]) close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.queue)
	q.mu.Unlock()

	q.wg.Wait()
}

func (q *asyncQueue[T]) counts() DeliveryCounts {
	return DeliveryCounts{
		Delivered: q.delivered.Load(),
		Failed:    q.failed.Load(),
		Dropped:   q.dropped.Load(),
	}
}

func (q *asyncQueue[T]) run() {
	defer q.wg.Done()
	for v := range q.queue {
		ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
		err := q.deliver(ctx, v)
		cancel()
		if err != nil {
			q.failed.Add(1)
			q.onFail(v, err)
			continue
		}
		q.delivered.Add(1)
	}
}
