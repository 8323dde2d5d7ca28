package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fundwatch/internal/anchor"
	anchorhandler "fundwatch/internal/anchor/handler"
	"fundwatch/internal/anchor/publisher"
	"fundwatch/internal/anomaly"
	anomalyhandler "fundwatch/internal/anomaly/handler"
	anomalymetrics "fundwatch/internal/anomaly/metrics"
	httpapi "fundwatch/internal/http"
	"fundwatch/internal/platform/config"
	"fundwatch/internal/platform/httpserver"
	"fundwatch/internal/platform/logger"
	"fundwatch/internal/platform/postgres"
	"fundwatch/internal/platform/redis"
	"fundwatch/internal/records"
	"fundwatch/internal/report"
	reporthandler "fundwatch/internal/report/handler"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal domain
// packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		log.Error("postgres connection failed", "error", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}

	kafkaPublisher, err := publisher.NewKafka(cfg.Kafka)
	if err != nil {
		log.Error("kafka connection failed", "error", err)
		os.Exit(1)
	}

	// Store selection: Postgres when configured, memory otherwise.
	var (
		source       records.Source
		anomalyStore anomaly.Store
		anchorStore  anchor.Store
		reportStore  report.Store
	)
	if db != nil {
		source = records.NewPostgresSource(db)
		anomalyStore = anomaly.NewPostgresStore(db)
		anchorStore = anchor.NewPostgresStore(db)
		reportStore = report.NewPostgresStore(db)
	} else {
		log.Warn("no DATABASE_URL configured, using in-memory stores")
		source = records.NewInMemorySource()
		anomalyStore = anomaly.NewInMemoryStore()
		anchorStore = anchor.NewInMemoryStore()
		reportStore = report.NewInMemoryStore()
	}

	anomalyOpts := []anomaly.Option{
		anomaly.WithLogger(log),
		anomaly.WithMetrics(anomalymetrics.New()),
		anomaly.WithScanTimeout(cfg.ScanTimeout),
	}
	if redisClient != nil {
		anomalyOpts = append(anomalyOpts,
			anomaly.WithCache(anomaly.NewRedisSummaryCache(redisClient, cfg.SummaryCacheTTL)))
	}
	anomalyService, err := anomaly.NewService(source, anomalyStore, anomalyOpts...)
	if err != nil {
		log.Error("anomaly service init failed", "error", err)
		os.Exit(1)
	}

	anchorOpts := []anchor.Option{anchor.WithLogger(log)}
	if kafkaPublisher != nil {
		anchorOpts = append(anchorOpts, anchor.WithPublisher(kafkaPublisher))
	}
	anchorService, err := anchor.NewService(anchorStore, anchorOpts...)
	if err != nil {
		log.Error("anchor service init failed", "error", err)
		os.Exit(1)
	}

	reportService, err := report.NewService(reportStore,
		report.WithLogger(log),
		report.WithAnchorer(anchorService),
	)
	if err != nil {
		log.Error("report service init failed", "error", err)
		os.Exit(1)
	}

	health := map[string]httpapi.HealthChecker{}
	if db != nil {
		health["postgres"] = db.PingContext
	}
	if redisClient != nil {
		health["redis"] = redisClient.Health
	}

	router := httpapi.NewRouter([]httpapi.Registrar{
		anomalyhandler.New(anomalyService, log),
		anchorhandler.New(anchorService, log),
		reporthandler.New(reportService, log),
	}, health)

	srv := httpserver.New(cfg.Addr, router)
	log.Info("starting fundwatch", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	if kafkaPublisher != nil {
		kafkaPublisher.Close()
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if db != nil {
		_ = db.Close()
	}
}
