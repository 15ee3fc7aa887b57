package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"placepulse/background-worker-service/internal/app/background-worker/entity"
	"placepulse/pkg/metrics"
)

// EventProcessingService обрабатывает события отзывов из Kafka
// Каждое событие превращается в пересчёт агрегатов бизнеса и проверку значков автора
type EventProcessingService struct {
	statsClient        StatsClientInterface
	achievementsClient AchievementsClientInterface
}

// NewEventProcessingService создает новый сервис обработки событий
func NewEventProcessingService(
	statsClient StatsClientInterface,
	achievementsClient AchievementsClientInterface,
) *EventProcessingService {
	return &EventProcessingService{
		statsClient:        statsClient,
		achievementsClient: achievementsClient,
	}
}

// ProcessReviewEvent обрабатывает одно событие отзыва
// ЛОГИКА:
// 1. REVIEW_CREATED / REVIEW_UPDATED / REVIEW_DELETED - пересчитать агрегаты бизнеса
// 2. Для неанонимных событий - запустить проверку значков автора
// 3. REVIEW_VOTED не меняет агрегаты, но влияет на community-значки
func (s *EventProcessingService) ProcessReviewEvent(ctx context.Context, event *entity.ReviewEvent) error {
	start := time.Now()
	var err error
	defer func() {
		metrics.WorkerProcessingDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.WorkerEventsProcessed.WithLabelValues("failed").Inc()
		} else {
			metrics.WorkerEventsProcessed.WithLabelValues("success").Inc()
		}
	}()

	switch event.EventType {
	case entity.EventTypeReviewCreated, entity.EventTypeReviewUpdated, entity.EventTypeReviewDeleted:
		err = s.processStatsEvent(ctx, event)
		return err
	case entity.EventTypeReviewVoted:
		err = s.processVoteEvent(ctx, event)
		return err
	default:
		log.Printf("Unknown event type: %s for review %s, skipping", event.EventType, event.ReviewID)
		return nil
	}
}

// processStatsEvent пересчитывает агрегаты бизнеса и проверяет значки автора
func (s *EventProcessingService) processStatsEvent(ctx context.Context, event *entity.ReviewEvent) error {
	if err := s.validateEvent(event); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	log.Printf("Processing %s for business %s (review: %s)", event.EventType, event.BusinessID, event.ReviewID)

	result, err := s.statsClient.RecomputeBusinessStats(ctx, event.BusinessID)
	if err != nil {
		return fmt.Errorf("failed to recompute stats: %w", err)
	}

	log.Printf("Recomputed stats for business %s: %d reviews", event.BusinessID, result.TotalReviews)

	// Анонимные отзывы не участвуют в значках
	if event.UserID == "" {
		return nil
	}

	return s.checkBadges(ctx, event.UserID)
}

// processVoteEvent обрабатывает голос "полезно": агрегаты не трогаем,
// но голоса считаются в community-значках автора
func (s *EventProcessingService) processVoteEvent(ctx context.Context, event *entity.ReviewEvent) error {
	log.Printf("Processing %s for review %s", event.EventType, event.ReviewID)

	if event.UserID == "" {
		return nil
	}

	return s.checkBadges(ctx, event.UserID)
}

// checkBadges запускает проверку и выдачу значков для автора отзыва
func (s *EventProcessingService) checkBadges(ctx context.Context, userID string) error {
	result, err := s.achievementsClient.CheckAchievements(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to check achievements: %w", err)
	}

	for _, awarded := range result.NewlyAwarded {
		log.Printf("User %s earned badge %q (%s)", userID, awarded.Badge.Name, awarded.Badge.Group)
	}

	return nil
}

// RunStatsSweep запускает полный пересчёт агрегатов всех видимых бизнесов
// Чинит расхождения после пропущенных или потерянных событий
func (s *EventProcessingService) RunStatsSweep(ctx context.Context) error {
	result, err := s.statsClient.RecomputeAllStats(ctx)
	if err != nil {
		return fmt.Errorf("failed to run stats sweep: %w", err)
	}

	log.Printf("Stats sweep completed: %d businesses recomputed", result.Recomputed)
	return nil
}

// validateEvent проверяет корректность данных события
func (s *EventProcessingService) validateEvent(event *entity.ReviewEvent) error {
	if event.BusinessID == "" {
		return fmt.Errorf("business ID not specified")
	}

	if event.ReviewID == "" {
		return fmt.Errorf("review ID not specified")
	}

	return nil
}
