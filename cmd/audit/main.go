package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	auditrepo "carrental/internal/audit/repository"
	auditservice "carrental/internal/audit/service"
	healthhandler "carrental/internal/health/handler"
	"carrental/pkg/config"
	"carrental/pkg/kafka"
	kafkamiddleware "carrental/pkg/kafka/middleware"
	"carrental/pkg/metrics"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const ServiceName = "audit"

func main() {
	cfg := config.Load(ServiceName)
	if !cfg.KafkaEnabled {
		cfg.Log.Fatal("The audit consumer requires Kafka; set KAFKA_ENABLED=true")
	}
	cfg.SetMongo()
	defer cfg.GracefulShutdown()
	cfg.Kafka.LogConfiguration(cfg.Log.Info)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	recorder := auditservice.NewRecorder(auditrepo.NewMongoEventRepository(cfg), cfg)
	consumer, err := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.BookingEventsTopic, cfg.Kafka.AuditGroupID, cfg.Kafka.DeadLetterTopic, recorder.Handle, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	if cfg.Kafka.EnableMiddleware {
		consumer.Use(kafkamiddleware.LoggingConsumerMiddleware(cfg.Log))
		consumer.Use(kafkamiddleware.MetricsConsumerMiddleware())
	}

	server := newProbeServer(cfg)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			cfg.Log.Error("Probe server failed", "error", err)
		}
	}()

	cfg.Log.Info("Starting audit consumer", "topic", cfg.Kafka.BookingEventsTopic, "group", cfg.Kafka.AuditGroupID)
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Audit consumer stopped", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		cfg.Log.Error("Probe server shutdown failed", "error", err)
	}
	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close Kafka consumer", "error", err)
	}
	cfg.Log.Info("Audit consumer stopped")
}

// newProbeServer exposes health, readiness and metrics for the consumer.
func newProbeServer(cfg *config.Config) *http.Server {
	metrics.Register()

	router := httprouter.New()
	healthhandler.NewHealthHandler(cfg.Log, healthhandler.Check{
		Name: "mongo",
		Ping: func(ctx context.Context) error { return cfg.Client.Mongo.Ping(ctx, nil) },
	}).RegisterRoutes(router)
	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())

	return &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}
