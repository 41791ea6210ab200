package reservation

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"cinema-booking/reservation/application"
	"cinema-booking/reservation/domain"
	"cinema-booking/reservation/infra"
)

// Engine é a superfície em processo do motor de reservas.
type Engine struct {
	cfg    Config
	logger *slog.Logger
	now    func() time.Time

	schedule *infra.Schedule
	booking  *application.BookingService
	group    application.GroupRunner
	inspect  application.Inspector

	outcomes *infra.MemoryStatsStore
	external *infra.AsyncStatsStore
	sink     *infra.AsyncSink
	holders  *infra.HolderBudgets

	stopJanitor context.CancelFunc
	closeOnce   sync.Once
}

func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	o := options{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	halls, shows := cfg.definitions()
	schedule, err := infra.NewSchedule(halls, shows)
	if err != nil {
		return nil, err
	}

	var pool domain.SlotPool
	switch cfg.AdmissionPool {
	case PoolWeighted:
		pool = infra.NewWeightedPool(cfg.AdmissionLimit)
	default:
		pool = infra.NewChanPool(cfg.AdmissionLimit)
	}

	e := &Engine{
		cfg:      cfg,
		logger:   o.logger,
		now:      o.now,
		schedule: schedule,
		outcomes: infra.NewMemoryStatsStore(),
	}

	delivery := []infra.AsyncOption{
		infra.WithAsyncLogger(o.logger),
		infra.WithAsyncBuffer(o.deliveryBuffer),
		infra.WithAsyncTimeout(o.deliveryTimeout),
	}

	// Outcomes é gravado na hora; os stores de WithStats passam pela fila.
	stats := infra.MultiStatsStore{e.outcomes}
	if len(o.stats) > 0 {
		e.external = infra.NewAsyncStatsStore(infra.MultiStatsStore(o.stats), delivery...)
		stats = append(stats, e.external)
	}

	var throttle application.ThrottleService
	if cfg.HolderRate > 0 {
		e.holders = infra.NewHolderBudgets(cfg.HolderRate, cfg.HolderBurst)
		throttle = application.ThrottleService{Budget: e.holders}

		ctx, cancel := context.WithCancel(context.Background())
		e.stopJanitor = cancel
		e.holders.StartJanitor(ctx)
	}

	var sink domain.ReservationSink
	if o.sink != nil {
		e.sink = infra.NewAsyncSink(o.sink, delivery...)
		sink = e.sink
	}

	e.booking = &application.BookingService{
		Schedule:       schedule,
		Admission:      application.ConcurrencyService{Pool: pool, Limit: cfg.AdmissionLimit},
		Throttle:       throttle,
		Stats:          stats,
		Sink:           sink,
		Logger:         o.logger,
		Now:            o.now,
		RetryInterval:  cfg.RetryInterval,
		DefaultMaxWait: cfg.DefaultMaxWait,
	}
	e.group = application.GroupRunner{Booker: e.booking}
	e.inspect = application.Inspector{Schedule: schedule}

	e.logger.Info("reservation engine ready",
		"halls", len(cfg.Halls),
		"shows", len(cfg.Shows),
		"admission_limit", cfg.AdmissionLimit,
		"admission_pool", cfg.AdmissionPool,
		"holder_rate", cfg.HolderRate,
	)
	return e, nil
}

// ListBookableShows lista as sessões que ainda não começaram, por horário.
func (e *Engine) ListBookableShows() []domain.ShowListing {
	return e.inspect.ListBookable(e.now())
}

func (e *Engine) CheckAvailability(show domain.ShowID, seats []int) (bool, error) {
	return e.inspect.CheckAvailability(show, seats)
}

// Book reserva todos os assentos pedidos ou nenhum. Use Describe para obter
// o par (ok, mensagem).
func (e *Engine) Book(ctx context.Context, req domain.BookingRequest) (domain.Reservation, error) {
	return e.booking.Book(ctx, req)
}

func (e *Engine) Release(ctx context.Context, show domain.ShowID, seats []int) error {
	return e.booking.Release(ctx, show, seats)
}

// GroupBook reserva cada lote em sequência com titular "<groupID>-<n>".
func (e *Engine) GroupBook(ctx context.Context, show domain.ShowID, groupID string, batches [][]int) application.GroupResult {
	return e.group.Run(ctx, show, groupID, batches)
}

func (e *Engine) HallStats(hall domain.HallID) (domain.HallStats, error) {
	return e.inspect.HallStats(hall)
}

func (e *Engine) ShowAvailability(show domain.ShowID) (domain.ShowAvailability, error) {
	return e.inspect.ShowAvailability(show, e.now())
}

func (e *Engine) Admission() domain.AdmissionStats {
	return e.booking.AdmissionStats()
}

// Outcomes devolve os contadores acumulados por resultado desde a criação.
func (e *Engine) Outcomes() infra.Counters {
	return e.outcomes.Total()
}

func (e *Engine) Shows() []domain.Show     { return e.schedule.Shows() }
func (e *Engine) HallIDs() []domain.HallID { return e.schedule.HallIDs() }

// SinkDelivery resume a fila do sink: publicadas, falhas no destino e descartes.
// Zero quando não há sink.
func (e *Engine) SinkDelivery() infra.DeliveryCounts {
	if e.sink == nil {
		return infra.DeliveryCounts{}
	}
	return e.sink.Counts()
}

// StatsDelivery é o equivalente de SinkDelivery para os stores de WithStats.
func (e *Engine) StatsDelivery() infra.DeliveryCounts {
	if e.external == nil {
		return infra.DeliveryCounts{}
	}
	return e.external.Counts()
}

// Close para o janitor do throttle e drena o sink e os stats externos.
// Idempotente. O que acontecer depois de Close não é entregue a eles.
func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		if e.stopJanitor != nil {
			e.stopJanitor()
		}
		if e.sink != nil {
			e.sink.Close()
		}
		if e.external != nil {
			e.external.Close()
		}
	})
}
