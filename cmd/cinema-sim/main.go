package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"cinema-booking/reservation"
	"cinema-booking/reservation/infra"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
)

func main() {
	_ = godotenv.Load() // .env é opcional

	cfg, err := readConfig()
	if err != nil {
		slog.Error("config error", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.logLevel}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	shutdownTelemetry, err := initTelemetry(ctx, cfg.otelCollectorURL, logger)
	if err != nil {
		logger.Error("telemetry init failed", "error", err)
		os.Exit(1)
	}
	defer shutdownTelemetry(context.Background())

	venue, err := loadVenue(cfg.venueFile, time.Now())
	if err != nil {
		logger.Error("venue error", "file", cfg.venueFile, "error", err)
		os.Exit(1)
	}

	var opts []reservation.Option
	opts = append(opts,
		reservation.WithLogger(logger),
		reservation.WithDelivery(cfg.deliveryBuffer, cfg.deliveryTimeout),
	)

	otelStats, err := infra.NewOtelStatsStore(otel.GetMeterProvider())
	if err != nil {
		logger.Error("otel stats store", "error", err)
		os.Exit(1)
	}
	opts = append(opts, reservation.WithStats(otelStats))

	var redisStats *infra.RedisStatsStore
	if cfg.statsEnabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.statsRedisAddr,
			Password: cfg.statsRedisPassword,
			DB:       cfg.statsRedisDB,
		})
		defer func() { _ = rdb.Close() }()

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		_, err := rdb.Ping(pingCtx).Result()
		cancel()
		if err != nil {
			logger.Error("redis stats ping error", "addr", cfg.statsRedisAddr, "error", err)
			os.Exit(1)
		}
		if err := redisotel.InstrumentMetrics(rdb, redisotel.WithMeterProvider(otel.GetMeterProvider())); err != nil {
			logger.Warn("redis metrics instrumentation failed", "error", err)
		}

		redisStats = infra.NewRedisStatsStore(
			rdb,
			infra.WithStatsPrefix(cfg.statsPrefix),
			infra.WithStatsTTL(cfg.statsTTL),
			infra.WithStatsBucket(cfg.statsBucket),
			infra.WithStatsTrackHolders(cfg.statsTrackHolders),
		)
		opts = append(opts, reservation.WithStats(redisStats))
	}

	if cfg.amqpURL != "" {
		pub, err := infra.DialAMQP(cfg.amqpURL, cfg.amqpQueue)
		if err != nil {
			logger.Error("amqp dial error", "error", err)
			os.Exit(1)
		}
		defer func() { _ = pub.Close() }()
		opts = append(opts, reservation.WithSink(pub))
	}

	engine, err := reservation.New(reservation.Config{
		AdmissionLimit: cfg.admissionLimit,
		AdmissionPool:  cfg.admissionPool,
		RetryInterval:  cfg.retryInterval,
		DefaultMaxWait: cfg.maxWait,
		Halls:          venue.Halls,
		Shows:          venue.Shows,
		HolderRate:     cfg.holderRate,
		HolderBurst:    cfg.holderBurst,
	}, opts...)
	if err != nil {
		logger.Error("engine error", "error", err)
		os.Exit(1)
	}

	logger.Info("cinema simulation starting",
		"admission_limit", cfg.admissionLimit,
		"admission_pool", cfg.admissionPool,
		"retry_interval", cfg.retryInterval,
		"max_wait", cfg.maxWait,
		"users", cfg.users,
		"groups", cfg.groups,
		"stress_workers", cfg.stressWorkers,
		"redis_stats", cfg.statsEnabled,
		"amqp", cfg.amqpURL != "",
	)

	sim := &simulation{
		engine: engine,
		logger: logger,
		out:    os.Stdout,
		rng:    newRand(cfg.seed),
		cfg:    cfg,
	}
	runErr := sim.run(ctx)

	// drena o sink antes de fechar a conexão AMQP (defer acima)
	engine.Close()
	logger.Info("async delivery totals",
		"sink", engine.SinkDelivery(),
		"stats", engine.StatsDelivery(),
	)

	if redisStats != nil {
		if totals, err := redisStats.Totals(context.Background()); err == nil {
			logger.Info("redis stats totals", "totals", totals)
		}
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		logger.Error("simulation failed", "error", runErr)
		os.Exit(1)
	}
}

type config struct {
	logLevel slog.Level

	venueFile      string
	admissionLimit int
	admissionPool  string
	retryInterval  time.Duration
	maxWait        time.Duration
	holderRate     float64
	holderBurst    int

	users         int
	groups        int
	stressWorkers int
	seed          int64

	statsEnabled       bool
	statsRedisAddr     string
	statsRedisPassword string
	statsRedisDB       int
	statsPrefix        string
	statsTTL           time.Duration
	statsBucket        string
	statsTrackHolders  bool

	amqpURL   string
	amqpQueue string

	deliveryBuffer  int
	deliveryTimeout time.Duration

	otelCollectorURL string
}

func readConfig() (config, error) {
	cfg := config{}
	if err := cfg.logLevel.UnmarshalText([]byte(getenvDefault("LOG_LEVEL", "info"))); err != nil {
		return config{}, errors.New("LOG_LEVEL must be debug, info, warn or error")
	}

	cfg.venueFile = os.Getenv("VENUE_FILE")
	cfg.admissionLimit = getenvIntDefault("ADMISSION_LIMIT", 4)
	cfg.admissionPool = getenvDefault("ADMISSION_POOL", reservation.PoolChan)
	cfg.retryInterval = getenvDurationDefault("RETRY_INTERVAL", 1*time.Second)
	cfg.maxWait = getenvDurationDefault("MAX_WAIT", 2*time.Second)
	cfg.holderRate = getenvFloatDefault("HOLDER_RATE", 0)
	cfg.holderBurst = getenvIntDefault("HOLDER_BURST", 1)

	cfg.users = getenvIntDefault("SIM_USERS", 8)
	cfg.groups = getenvIntDefault("SIM_GROUPS", 3)
	cfg.stressWorkers = getenvIntDefault("SIM_STRESS_WORKERS", 10)
	cfg.seed = int64(getenvIntDefault("SIM_SEED", 0))

	cfg.statsEnabled = getenvBoolDefault("STATS_ENABLED", false)
	cfg.statsRedisAddr = getenvDefault("STATS_REDIS_ADDR", "")
	cfg.statsRedisPassword = os.Getenv("STATS_REDIS_PASSWORD")
	cfg.statsRedisDB = getenvIntDefault("STATS_REDIS_DB", 0)
	cfg.statsPrefix = getenvDefault("STATS_PREFIX", "booking:stats")
	cfg.statsTTL = getenvDurationDefault("STATS_TTL", 24*time.Hour)
	cfg.statsBucket = getenvDefault("STATS_BUCKET", "minute")
	cfg.statsTrackHolders = getenvBoolDefault("STATS_TRACK_HOLDERS", false)

	cfg.amqpURL = os.Getenv("AMQP_URL")
	cfg.amqpQueue = getenvDefault("AMQP_QUEUE", infra.BookingConfirmedQueue)

	cfg.deliveryBuffer = getenvIntDefault("DELIVERY_BUFFER", 256)
	cfg.deliveryTimeout = getenvDurationDefault("DELIVERY_TIMEOUT", 5*time.Second)

	cfg.otelCollectorURL = os.Getenv("OTEL_COLLECTOR_URL")

	if cfg.statsEnabled && strings.TrimSpace(cfg.statsRedisAddr) == "" {
		return config{}, errors.New("STATS_REDIS_ADDR is required when STATS_ENABLED=true")
	}
	if cfg.admissionLimit < 1 {
		return config{}, errors.New("ADMISSION_LIMIT must be >= 1")
	}
	if cfg.maxWait <= 0 {
		return config{}, errors.New("MAX_WAIT must be > 0")
	}
	if cfg.users < 0 || cfg.groups < 0 || cfg.stressWorkers < 0 {
		return config{}, errors.New("SIM_USERS, SIM_GROUPS and SIM_STRESS_WORKERS must be >= 0")
	}
	return cfg, nil
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvIntDefault(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getenvFloatDefault(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getenvBoolDefault(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getenvDurationDefault(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
