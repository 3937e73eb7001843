package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	kafka "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/jalsol/feedsim/cmd/feedsim/internal/feed"
	"github.com/jalsol/feedsim/cmd/feedsim/internal/mirror"
	"github.com/jalsol/feedsim/cmd/feedsim/internal/monitor"
	"github.com/jalsol/feedsim/cmd/feedsim/internal/report"
	"github.com/jalsol/feedsim/pkg/config"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	logger, err := config.NewLogger(cfg.Logger)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	// Multi-feed mode only prints per-symbol invocations; each feed is an
	// independent process with its own multicast group
	if cfg.Feed.Multiple {
		fmt.Println("For multiple feeds, run one process per symbol:")
		for _, cmd := range feed.MultiFeedCommands(feed.DefaultMultiFeedSymbols, cfg.Feed.Port, cfg.Feed.Rate, cfg.Feed.Duration) {
			fmt.Println("  " + cmd)
		}
		return
	}

	clock := feed.RealClock{}

	conn, err := feed.NewMulticastConn(cfg.Feed.Group, cfg.Feed.Port, cfg.Feed.TTL)
	if err != nil {
		logger.Fatal("Failed to open multicast endpoint", zap.Error(err))
	}
	logger.Info("Feed endpoint ready",
		zap.String("group", cfg.Feed.Group),
		zap.Int("port", cfg.Feed.Port),
		zap.Int("ttl", cfg.Feed.TTL))

	var reporters []feed.StatsReporter

	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}

		redisReporter := report.NewRedisReporter(logger, rdb)
		defer redisReporter.Close()
		reporters = append(reporters, redisReporter)
	}

	if cfg.Monitor.Addr != "" {
		hub := monitor.NewHub(logger)
		monSrv := monitor.NewServer(cfg.Monitor.Addr, hub, logger)
		monSrv.Start()
		defer monSrv.Shutdown(context.Background())
		reporters = append(reporters, hub)
	}

	var feedMirror feed.Mirror
	if cfg.Kafka.Enabled {
		creator := mirror.NewTopicCreator(logger, &mirror.RealKafkaDialer{Dialer: kafka.DefaultDialer}, clock)
		creator.Create(cfg.Kafka.Brokers, cfg.Kafka.Topic)

		km := mirror.NewKafkaMirror(logger, mirror.NewWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic), cfg.Feed.Symbol)
		defer func() {
			// Flush the async capture buffer before exiting
			if err := km.Close(); err != nil {
				logger.Error("Error closing Kafka mirror", zap.Error(err))
			}
		}()
		feedMirror = km
	}

	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Shutdown signal received")
		cancel()
	}()

	f := feed.NewFeed(logger, conn, clock, cfg.Feed.Symbol, cfg.Feed.Rate, cfg.Feed.RunDuration(), feedMirror, reporters...)

	stats, err := f.Run(ctx)
	if err != nil {
		logger.Error("Feed run aborted", zap.Error(err), zap.Uint64("sent", stats.Sent))
		os.Exit(1)
	}

	logger.Info("Run complete",
		zap.Uint64("sent", stats.Sent),
		zap.Uint64("send_errors", stats.SendErrors),
		zap.Float64("elapsed_sec", stats.ElapsedSec),
		zap.Float64("avg_rate", stats.Rate))
}
