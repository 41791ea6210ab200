package infra

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"cinema-booking/reservation/domain"

	"github.com/redis/go-redis/v9"
)

type RedisStatsStore struct {
	rdb redis.UniversalClient

	prefix string
	// ttl aplica apenas em chaves de série temporal / por titular.
	// total e por sessão são cumulativos e não expiram.
	ttl time.Duration

	bucket string // "minute" (padrão) ou "none"

	trackHolders bool
}

type RedisStatsOption func(*RedisStatsStore)

func WithStatsPrefix(prefix string) RedisStatsOption {
	return func(s *RedisStatsStore) {
		s.prefix = strings.Trim(prefix, ":")
	}
}

func WithStatsTTL(d time.Duration) RedisStatsOption {
	return func(s *RedisStatsStore) { s.ttl = d }
}

func WithStatsBucket(bucket string) RedisStatsOption {
	return func(s *RedisStatsStore) { s.bucket = strings.ToLower(strings.TrimSpace(bucket)) }
}

func WithStatsTrackHolders(track bool) RedisStatsOption {
	return func(s *RedisStatsStore) { s.trackHolders = track }
}

func NewRedisStatsStore(rdb redis.UniversalClient, opts ...RedisStatsOption) *RedisStatsStore {
	s := &RedisStatsStore{
		rdb:    rdb,
		prefix: "booking:stats",
		ttl:    24 * time.Hour,
		bucket: "minute",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStatsStore) Record(ctx context.Context, ev domain.StatsEvent) error {
	if s == nil || s.rdb == nil {
		return nil
	}

	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	field := string(ev.Outcome)

	pipe := s.rdb.Pipeline()
	pipe.HIncrBy(ctx, s.totalKey(), field, 1)

	if s.bucket == "minute" {
		bucketKey := fmt.Sprintf("%s:minute:%s", s.prefix, at.UTC().Format("200601021504"))
		pipe.HIncrBy(ctx, bucketKey, field, 1)
		if s.ttl > 0 {
			pipe.Expire(ctx, bucketKey, s.ttl)
		}
	}

	if show := strings.TrimSpace(string(ev.ShowID)); show != "" {
		pipe.HIncrBy(ctx, s.showKey(ev.ShowID), field, 1)
		if ev.Outcome == domain.OutcomeCommitted {
			pipe.HIncrBy(ctx, s.showKey(ev.ShowID), "seats_committed", int64(ev.Seats))
		}
	}

	if s.trackHolders {
		h := strings.TrimSpace(string(ev.HolderID))
		if h != "" {
			holderKey := s.prefix + ":holder:" + h
			pipe.HIncrBy(ctx, holderKey, field, 1)
			if s.ttl > 0 {
				pipe.Expire(ctx, holderKey, s.ttl)
			}
		}
	}

	_, err := pipe.Exec(ctx)
	return err
}

// Totals lê os contadores cumulativos por Outcome.
func (s *RedisStatsStore) Totals(ctx context.Context) (Counters, error) {
	return s.readCounters(ctx, s.totalKey())
}

// ShowTotals lê os contadores de uma sessão (sem o campo seats_committed).
func (s *RedisStatsStore) ShowTotals(ctx context.Context, show domain.ShowID) (Counters, error) {
	return s.readCounters(ctx, s.showKey(show))
}

func (s *RedisStatsStore) readCounters(ctx context.Context, key string) (Counters, error) {
	raw, err := s.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	out := make(Counters, len(raw))
	for k, v := range raw {
		if k == "seats_committed" {
			continue
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("read %s field %s: %w", key, k, err)
		}
		out[domain.Outcome(k)] = n
	}
	return out, nil
}

func (s *RedisStatsStore) totalKey() string { return s.prefix + ":total" }

func (s *RedisStatsStore) showKey(id domain.ShowID) string {
	return s.prefix + ":show:" + string(id)
}
