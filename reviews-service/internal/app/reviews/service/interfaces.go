package service

import (
	"context"
	"time"

	"placepulse/reviews-service/internal/app/reviews/entity"
)

// StatsServiceInterface определяет операции пересчёта статистики
// Используется для dependency injection и упрощения тестирования
type StatsServiceInterface interface {
	Recompute(ctx context.Context, businessID string) (*entity.BusinessStats, error)
	RecomputeWithRetry(ctx context.Context, businessID string) (*entity.BusinessStats, error)
	RecomputeAll(ctx context.Context) (int, error)
	GetStats(ctx context.Context, businessID string) (*entity.BusinessStats, error)
}

// PercentileServiceInterface вычисляет перцентили бизнеса по измерениям
type PercentileServiceInterface interface {
	Percentiles(ctx context.Context, businessID string) (map[string]entity.DimensionPercentile, error)
}

// BusinessCache - кеш справочника бизнесов в Redis
// Промах возвращает (nil, nil), ошибки кеша не фатальны
type BusinessCache interface {
	GetBusiness(ctx context.Context, id string) (*entity.Business, error)
	SetBusiness(ctx context.Context, business *entity.Business, ttl time.Duration) error
}
