// Package report publishes run statistics to external sinks so dashboards
// can follow a benchmark run without touching the market data stream.
package report

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jalsol/feedsim/pkg/models"
)

const (
	keyPrefix     = "feed:stats:"
	channelPrefix = "feed.stats."
	statsTTL      = 1 * time.Hour // TTL prevents stale keys piling up across runs
)

// RedisClient abstracts the output storage connection
type RedisClient interface {
	Pipeline() redis.Pipeliner
	Close() error
}

type RedisReporter struct {
	logger *zap.Logger
	rdb    RedisClient
}

func NewRedisReporter(logger *zap.Logger, rdb RedisClient) *RedisReporter {
	return &RedisReporter{
		logger: logger,
		rdb:    rdb,
	}
}

// Report stores the latest stats snapshot and publishes it, atomically via
// a single pipeline. Failures are logged and dropped: reporting is
// advisory and must never stall or abort the send loop.
func (r *RedisReporter) Report(ctx context.Context, stats models.RunStats) {
	payload, err := json.Marshal(stats)
	if err != nil {
		r.logger.Error("Stats marshal error", zap.Error(err))
		return
	}

	pipe := r.rdb.Pipeline()
	pipe.Set(ctx, keyPrefix+stats.Symbol, payload, statsTTL)
	pipe.Publish(ctx, channelPrefix+stats.Symbol, payload)

	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Warn("Redis stats report failed", zap.Error(err), zap.String("symbol", stats.Symbol))
	}
}

func (r *RedisReporter) Close() error {
	return r.rdb.Close()
}
