package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"placepulse/background-worker-service/internal/app/background-worker/config"
	"placepulse/background-worker-service/internal/app/background-worker/handler"
	"placepulse/background-worker-service/internal/app/background-worker/processor"
	"placepulse/background-worker-service/internal/app/background-worker/service"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	log.Println("Starting Background Worker Service...")

	// === ИНИЦИАЛИЗАЦИЯ КОНФИГУРАЦИИ ===
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Создаем основной контекст приложения
	ctx := context.Background()

	// === ИНИЦИАЛИЗАЦИЯ HTTP КЛИЕНТОВ ===
	// Клиенты служебных endpoints Reviews Service и Achievements Service
	statsClient := service.NewStatsClient(
		cfg.Reviews.BaseURL,
		cfg.Internal.Token,
		cfg.Reviews.TimeoutSec,
	)
	achievementsClient := service.NewAchievementsClient(
		cfg.Achievements.BaseURL,
		cfg.Internal.Token,
		cfg.Achievements.TimeoutSec,
	)
	log.Println("Service clients initialized")

	// === ИНИЦИАЛИЗАЦИЯ СЕРВИСОВ ===
	eventProcessingSvc := service.NewEventProcessingService(
		statsClient,
		achievementsClient,
	)
	log.Println("Services initialized")

	// === ИНИЦИАЛИЗАЦИЯ KAFKA CONSUMER ===
	kafkaConsumer := processor.NewKafkaConsumer(
		cfg.Kafka.Brokers,
		cfg.Kafka.Topic,
		cfg.Kafka.GroupID,
		cfg.Kafka.MinBytes,
		cfg.Kafka.MaxBytes,
		eventProcessingSvc,
	)

	// Запускаем Kafka consumer
	kafkaConsumer.Start(ctx)
	defer kafkaConsumer.Stop()
	log.Printf("Kafka consumer started (topic: %s, group: %s)", cfg.Kafka.Topic, cfg.Kafka.GroupID)

	// === ИНИЦИАЛИЗАЦИЯ CRON SCHEDULER ===
	cronScheduler := processor.NewCronScheduler(eventProcessingSvc)

	// Запускаем cron для периодического repair sweep статистики
	if err := cronScheduler.Start(ctx, cfg.CronSchedule.StatsSweep); err != nil {
		log.Fatalf("Failed to start cron scheduler: %v", err)
	}
	defer cronScheduler.Stop()
	log.Printf("Cron scheduler started (schedule: %s)", cfg.CronSchedule.StatsSweep)

	// === ИНИЦИАЛИЗАЦИЯ HEALTHCHECK HTTP СЕРВЕРА ===
	healthHandler := handler.NewHealthCheckHandler(statsClient, achievementsClient)

	mux := http.NewServeMux()
	healthHandler.RegisterRoutes(mux)

	// Prometheus metrics endpoint
	mux.Handle("/metrics", promhttp.Handler())

	httpServer := &http.Server{
		Addr:    ":8085",
		Handler: mux,
	}

	go func() {
		log.Println("Starting healthcheck HTTP server on :8085...")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	// === ЗАПУСК ЗАВЕРШЕН ===
	log.Println("Background Worker Service is running")
	log.Println("Waiting for review events from Kafka...")
	log.Printf("Stats sweep will run according to schedule: %s", cfg.CronSchedule.StatsSweep)

	// === GRACEFUL SHUTDOWN ===
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down Background Worker Service...")

	// Даем время на завершение обработки текущих сообщений
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	<-shutdownCtx.Done()

	log.Println("Background Worker Service stopped gracefully")
}
