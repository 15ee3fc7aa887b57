package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"placepulse/reviews-service/internal/app/reviews/entity"
	"placepulse/reviews-service/internal/app/reviews/repository"

	"github.com/google/uuid"
)

// PercentileService - Percentile Ranker: позиция бизнеса по качественным
// измерениям относительно видимых бизнесов той же категории.
// Считает каждый раз по текущим строкам business_stats - отдельного кеша
// (и механизма его инвалидации) нет
type PercentileService struct {
	businessRepo repository.BusinessRepository
	statsRepo    repository.StatsRepository
}

// NewPercentileService создает новый сервис перцентилей
func NewPercentileService(
	businessRepo repository.BusinessRepository,
	statsRepo repository.StatsRepository,
) *PercentileService {
	return &PercentileService{
		businessRepo: businessRepo,
		statsRepo:    statsRepo,
	}
}

// Percentiles возвращает перцентиль бизнеса по каждому измерению
// Бизнес без единого отзыва с тегом измерения получает Insufficient,
// а не числовой 0: нулевой перцентиль значил бы "худший в категории",
// а не "нет данных"
func (s *PercentileService) Percentiles(ctx context.Context, businessID string) (map[string]entity.DimensionPercentile, error) {
	id, err := uuid.Parse(businessID)
	if err != nil {
		return nil, ErrBusinessNotFound
	}

	business, err := s.businessRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBusinessNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, fmt.Errorf("failed to get business: %w", err)
	}

	population, err := s.businessRepo.ListVisibleByCategory(ctx, business.Category)
	if err != nil {
		return nil, fmt.Errorf("failed to list category population: %w", err)
	}

	ids := make([]string, 0, len(population))
	for _, member := range population {
		ids = append(ids, member.ID.String())
	}

	statsRows, err := s.statsRepo.GetByBusinessIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load population stats: %w", err)
	}

	statsByID := make(map[string]entity.BusinessStats, len(statsRows))
	for _, row := range statsRows {
		statsByID[row.BusinessID] = row
	}

	result := make(map[string]entity.DimensionPercentile, len(entity.Dimensions))

	// Ключи statsByID - канонические uuid в нижнем регистре,
	// исходную строку запроса использовать нельзя
	canonicalID := id.String()

	for _, dim := range entity.Dimensions {
		target, ok := dimensionValue(statsByID, canonicalID, dim)
		if !ok {
			result[dim] = entity.DimensionPercentile{Insufficient: true}
			continue
		}

		var values []float64
		for _, memberID := range ids {
			if value, ok := dimensionValue(statsByID, memberID, dim); ok {
				values = append(values, value)
			}
		}

		result[dim] = entity.DimensionPercentile{Percentile: PercentileRank(target, values)}
	}

	return result, nil
}

// dimensionValue достает метрику измерения бизнеса из статистики
// ok == false когда статистики нет или нет ни одного отзыва с тегом
func dimensionValue(statsByID map[string]entity.BusinessStats, businessID, dimension string) (float64, bool) {
	stats, ok := statsByID[businessID]
	if !ok {
		return 0, false
	}
	value, ok := stats.DimensionAverages[dimension]
	return value, ok
}

// PercentileRank отображает значение на перцентиль 0..100 внутри популяции
// Классический percentile rank: P = 100 * (ниже + 0.5 * равных) / N.
// values включает значение самого бизнеса, поэтому единственный
// квалифицированный бизнес категории получает 50, а не 0 и не 100
func PercentileRank(target float64, values []float64) int {
	if len(values) == 0 {
		return 0
	}

	below, tied := 0, 0
	for _, value := range values {
		switch {
		case value < target:
			below++
		case value == target:
			tied++
		}
	}

	rank := 100 * (float64(below) + 0.5*float64(tied)) / float64(len(values))
	return int(math.Round(rank))
}
