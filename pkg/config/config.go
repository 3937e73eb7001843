package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the feed simulator
type Config struct {
	Feed    FeedConfig    `mapstructure:"feed"`
	Logger  LoggerConfig  `mapstructure:"logger"`
	Monitor MonitorConfig `mapstructure:"monitor"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Kafka   KafkaConfig   `mapstructure:"kafka"`
}

type FeedConfig struct {
	Group    string `mapstructure:"group"`    // multicast group address
	Port     int    `mapstructure:"port"`     // UDP port
	TTL      int    `mapstructure:"ttl"`      // multicast hop scope, 1 = local subnet
	Symbol   string `mapstructure:"symbol"`   // at most 4 ASCII chars
	Rate     int    `mapstructure:"rate"`     // messages per second
	Duration int    `mapstructure:"duration"` // seconds
	Multiple bool   `mapstructure:"multiple"` // print multi-feed instructions instead of running
}

type LoggerConfig struct {
	Level string `mapstructure:"level"` // debug, info, warn, error
	Env   string `mapstructure:"env"`   // "local" or "prod"
}

// MonitorConfig enables the live-stats websocket endpoint when Addr is set.
type MonitorConfig struct {
	Addr string `mapstructure:"addr"` // e.g. ":8080"; empty disables
}

// RedisConfig enables the Redis stats sink when Enabled is true.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// KafkaConfig enables the Kafka capture mirror when Enabled is true.
type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// RunDuration converts the configured duration to a time.Duration.
func (f FeedConfig) RunDuration() time.Duration {
	return time.Duration(f.Duration) * time.Second
}

// LoadConfig reads configuration from .env file, environment variables, and defaults.
func LoadConfig() (*Config, error) {
	v := viper.New()

	// Load .env into the system environment first (if present), so variables
	// like FEED_RATE are visible as real env vars
	if err := godotenv.Load(); err != nil {
		log.Println("Note: No .env file found, relying on System Env Vars")
	}

	v.SetDefault("feed.group", "239.1.1.1")
	v.SetDefault("feed.port", 12345)
	v.SetDefault("feed.ttl", 2)
	v.SetDefault("feed.symbol", "AAPL")
	v.SetDefault("feed.rate", 10000)
	v.SetDefault("feed.duration", 60)
	v.SetDefault("feed.multiple", false)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "local")

	v.SetDefault("monitor.addr", "")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "market_ticks")

	// Map dot-notation to underscores (e.g. "feed.rate" -> "FEED_RATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicit binds so flat env vars reach the nested struct fields
	bindEnv(v, "feed.group", "feed.port", "feed.ttl", "feed.symbol", "feed.rate", "feed.duration", "feed.multiple")
	bindEnv(v, "logger.level", "logger.env")
	bindEnv(v, "monitor.addr")
	bindEnv(v, "redis.enabled", "redis.addr", "redis.password", "redis.db")
	bindEnv(v, "kafka.enabled", "kafka.brokers", "kafka.topic")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %v", err)
	}

	if cfg.Feed.Rate <= 0 {
		return nil, fmt.Errorf("feed rate must be positive, got %d", cfg.Feed.Rate)
	}
	if cfg.Feed.Port <= 0 || cfg.Feed.Port > 65535 {
		return nil, fmt.Errorf("feed port out of range: %d", cfg.Feed.Port)
	}
	if cfg.Feed.TTL < 0 || cfg.Feed.TTL > 255 {
		return nil, fmt.Errorf("feed ttl out of range: %d", cfg.Feed.TTL)
	}
	if cfg.Feed.Symbol == "" {
		return nil, fmt.Errorf("feed symbol cannot be empty")
	}
	if cfg.Kafka.Enabled && len(cfg.Kafka.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers cannot be empty when the mirror is enabled")
	}
	if cfg.Redis.Enabled && cfg.Redis.Addr == "" {
		return nil, fmt.Errorf("redis addr cannot be empty when the stats sink is enabled")
	}

	return &cfg, nil
}

// bindEnv is a helper to bind multiple keys at once
func bindEnv(v *viper.Viper, keys ...string) {
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			log.Printf("Could not bind env var for key %s: %v", key, err)
		}
	}
}
