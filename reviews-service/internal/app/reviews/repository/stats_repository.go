package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"placepulse/reviews-service/internal/app/reviews/entity"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type statsRepository struct {
	db *pgxpool.Pool
}

// NewStatsRepository создает репозиторий агрегированной статистики
// Таблица business_stats - перестраиваемый кеш: строка либо полностью
// заменяется пересчётом, либо не трогается вовсе
func NewStatsRepository(db *pgxpool.Pool) StatsRepository {
	return &statsRepository{db: db}
}

// Upsert полностью заменяет статистику бизнеса
// Гонка двух пересчётов решается через монотонный recomputed_at:
// запись с более ранним снимком отбрасывается условием WHERE,
// поэтому "lost update" (старый пересчёт затирает новый) невозможен
func (r *statsRepository) Upsert(ctx context.Context, stats *entity.BusinessStats) (bool, error) {
	distribution, err := json.Marshal(stats.RatingDistribution)
	if err != nil {
		return false, fmt.Errorf("failed to marshal rating distribution: %w", err)
	}

	dimensions, err := json.Marshal(stats.DimensionAverages)
	if err != nil {
		return false, fmt.Errorf("failed to marshal dimension averages: %w", err)
	}

	query := `
		INSERT INTO business_stats (business_id, total_reviews, average_rating, rating_distribution, dimension_averages, recomputed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (business_id) DO UPDATE SET
			total_reviews       = EXCLUDED.total_reviews,
			average_rating      = EXCLUDED.average_rating,
			rating_distribution = EXCLUDED.rating_distribution,
			dimension_averages  = EXCLUDED.dimension_averages,
			recomputed_at       = EXCLUDED.recomputed_at
		WHERE business_stats.recomputed_at < EXCLUDED.recomputed_at`

	tag, err := r.db.Exec(ctx, query,
		stats.BusinessID,
		stats.TotalReviews,
		stats.AverageRating,
		distribution,
		dimensions,
		stats.RecomputedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to upsert business stats: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// GetByBusinessID получает статистику бизнеса
func (r *statsRepository) GetByBusinessID(ctx context.Context, businessID string) (*entity.BusinessStats, error) {
	query := `
		SELECT business_id, total_reviews, average_rating, rating_distribution, dimension_averages, recomputed_at
		FROM business_stats
		WHERE business_id = $1`

	stats, err := scanStats(r.db.QueryRow(ctx, query, businessID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStatsNotFound
		}
		return nil, fmt.Errorf("failed to get business stats: %w", err)
	}

	return stats, nil
}

// GetByBusinessIDs получает статистику нескольких бизнесов
// Перцентильный ранкер читает так всю популяцию категории одним запросом
func (r *statsRepository) GetByBusinessIDs(ctx context.Context, businessIDs []string) ([]entity.BusinessStats, error) {
	query := `
		SELECT business_id, total_reviews, average_rating, rating_distribution, dimension_averages, recomputed_at
		FROM business_stats
		WHERE business_id = ANY($1)`

	rows, err := r.db.Query(ctx, query, businessIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats for businesses: %w", err)
	}
	defer rows.Close()

	var result []entity.BusinessStats
	for rows.Next() {
		stats, err := scanStats(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan business stats: %w", err)
		}
		result = append(result, *stats)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate business stats: %w", err)
	}

	return result, nil
}

func scanStats(row pgx.Row) (*entity.BusinessStats, error) {
	var (
		stats        entity.BusinessStats
		distribution []byte
		dimensions   []byte
	)

	if err := row.Scan(
		&stats.BusinessID,
		&stats.TotalReviews,
		&stats.AverageRating,
		&distribution,
		&dimensions,
		&stats.RecomputedAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(distribution, &stats.RatingDistribution); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rating distribution: %w", err)
	}
	if err := json.Unmarshal(dimensions, &stats.DimensionAverages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dimension averages: %w", err)
	}

	return &stats, nil
}
