package config

import (
	"os"
	"strings"
	"time"
)

// Config captures process-level configuration. Optional integrations
// (Postgres, Redis, Kafka) are enabled by presence of their settings; an
// empty value selects the in-memory or no-op implementation.
type Config struct {
	Addr            string
	DatabaseURL     string
	Redis           RedisConfig
	Kafka           KafkaConfig
	ScanTimeout     time.Duration
	SummaryCacheTTL time.Duration
}

// RedisConfig holds connection settings for the scan summary cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig holds settings for the anchor event publisher.
type KafkaConfig struct {
	Brokers     []string
	AnchorTopic string
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	addr := os.Getenv("FUNDWATCH_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	anchorTopic := os.Getenv("KAFKA_ANCHOR_TOPIC")
	if anchorTopic == "" {
		anchorTopic = "fundwatch.anchors"
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	return Config{
		Addr:        addr,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:     brokers,
			AnchorTopic: anchorTopic,
		},
		ScanTimeout:     durationFromEnv("SCAN_TIMEOUT", 60*time.Second),
		SummaryCacheTTL: durationFromEnv("SUMMARY_CACHE_TTL", 5*time.Minute),
	}
}

func durationFromEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}
