package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"placepulse/pkg/logger"
	"placepulse/pkg/metrics"
	"placepulse/reviews-service/internal/app/reviews/entity"
	"placepulse/reviews-service/internal/app/reviews/repository"
)

// Количество попыток пересчёта после мутации отзыва
// Пересчёт идемпотентен, повтор безопасен
const recomputeAttempts = 3

// StatsService - Stats Aggregator: держит business_stats консистентной
// с текущим набором отзывов. Всегда пересчитывает с нуля, а не инкрементит
// счётчики: результат зависит только от данных, не от истории операций
type StatsService struct {
	reviewRepo   repository.ReviewRepository
	statsRepo    repository.StatsRepository
	businessRepo repository.BusinessRepository
}

// NewStatsService создает новый сервис статистики
func NewStatsService(
	reviewRepo repository.ReviewRepository,
	statsRepo repository.StatsRepository,
	businessRepo repository.BusinessRepository,
) *StatsService {
	return &StatsService{
		reviewRepo:   reviewRepo,
		statsRepo:    statsRepo,
		businessRepo: businessRepo,
	}
}

// Recompute полностью пересчитывает статистику бизнеса по текущим отзывам
// Снимок времени берется ДО чтения отзывов: если параллельный пересчёт
// прочитал данные позже, его запись победит, а наша будет отброшена
// репозиторием как устаревшая - итог всегда сходится к истинному значению
func (s *StatsService) Recompute(ctx context.Context, businessID string) (*entity.BusinessStats, error) {
	snapshotAt := time.Now().UTC()

	reviews, err := s.reviewRepo.GetByBusinessID(ctx, businessID)
	if err != nil {
		metrics.StatsRecomputes.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("failed to read reviews for recompute: %w", err)
	}

	stats := ComputeStats(businessID, reviews, snapshotAt)

	applied, err := s.statsRepo.Upsert(ctx, stats)
	if err != nil {
		metrics.StatsRecomputes.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("failed to store recomputed stats: %w", err)
	}

	if !applied {
		// Более свежий пересчёт уже записан - отдаем его
		metrics.StatsRecomputes.WithLabelValues("stale").Inc()
		logger.Debug().Str("business_id", businessID).Msg("Recompute skipped: newer stats already stored")

		stored, getErr := s.statsRepo.GetByBusinessID(ctx, businessID)
		if getErr == nil {
			return stored, nil
		}
		return stats, nil
	}

	metrics.StatsRecomputes.WithLabelValues("success").Inc()
	return stats, nil
}

// RecomputeWithRetry пересчитывает с ограниченным числом повторов
// Вызывается после каждой мутации отзыва; неудача не откатывает
// уже закоммиченный отзыв - временно устаревшая статистика допустима
func (s *StatsService) RecomputeWithRetry(ctx context.Context, businessID string) (*entity.BusinessStats, error) {
	var lastErr error

	for attempt := 1; attempt <= recomputeAttempts; attempt++ {
		stats, err := s.Recompute(ctx, businessID)
		if err == nil {
			return stats, nil
		}

		lastErr = err
		logger.Warn().
			Err(err).
			Str("business_id", businessID).
			Int("attempt", attempt).
			Msg("Stats recompute failed, retrying")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * 100 * time.Millisecond):
		}
	}

	return nil, fmt.Errorf("stats recompute failed after %d attempts: %w", recomputeAttempts, lastErr)
}

// RecomputeAll пересчитывает статистику всех видимых бизнесов
// Ручной repair: безопасно запускать в любой момент поверх любого состояния
func (s *StatsService) RecomputeAll(ctx context.Context) (int, error) {
	ids, err := s.businessRepo.ListVisibleIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list businesses for recompute: %w", err)
	}

	recomputed := 0
	for _, id := range ids {
		if _, err := s.Recompute(ctx, id.String()); err != nil {
			logger.Error().Err(err).Str("business_id", id.String()).Msg("Failed to recompute stats")
			continue
		}
		recomputed++
	}

	return recomputed, nil
}

// GetStats возвращает текущую статистику бизнеса
// Отсутствие строки означает "ещё ни одного отзыва" - возвращаем пустую
// статистику с nil средним, а не ошибку
func (s *StatsService) GetStats(ctx context.Context, businessID string) (*entity.BusinessStats, error) {
	stats, err := s.statsRepo.GetByBusinessID(ctx, businessID)
	if err != nil {
		if errors.Is(err, repository.ErrStatsNotFound) {
			return emptyStats(businessID), nil
		}
		return nil, fmt.Errorf("failed to get business stats: %w", err)
	}

	return stats, nil
}

// ComputeStats - чистый пересчёт статистики из набора отзывов
// Инварианты: total == сумма распределения; среднее nil при нуле отзывов
// (оценки 0 не существует, nil однозначно означает "нет данных")
func ComputeStats(businessID string, reviews []entity.Review, recomputedAt time.Time) *entity.BusinessStats {
	stats := emptyStats(businessID)
	stats.RecomputedAt = recomputedAt

	if len(reviews) == 0 {
		return stats
	}

	sum := 0
	dimensionSums := make(map[string]int)
	dimensionCounts := make(map[string]int)

	for _, review := range reviews {
		stats.TotalReviews++
		stats.RatingDistribution[review.Rating]++
		sum += review.Rating

		for _, tag := range review.Tags {
			for _, dim := range entity.Dimensions {
				if tag == dim {
					dimensionSums[dim] += review.Rating
					dimensionCounts[dim]++
				}
			}
		}
	}

	average := float64(sum) / float64(stats.TotalReviews)
	stats.AverageRating = &average

	for dim, count := range dimensionCounts {
		stats.DimensionAverages[dim] = float64(dimensionSums[dim]) / float64(count)
	}

	return stats
}

func emptyStats(businessID string) *entity.BusinessStats {
	distribution := make(map[int]int, 5)
	for rating := 1; rating <= 5; rating++ {
		distribution[rating] = 0
	}

	return &entity.BusinessStats{
		BusinessID:         businessID,
		TotalReviews:       0,
		AverageRating:      nil,
		RatingDistribution: distribution,
		DimensionAverages:  make(map[string]float64),
	}
}
