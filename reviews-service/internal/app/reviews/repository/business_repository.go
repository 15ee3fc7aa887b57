package repository

import (
	"context"
	"errors"
	"fmt"

	"placepulse/reviews-service/internal/app/reviews/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type businessRepository struct {
	db *pgxpool.Pool
}

// NewBusinessRepository создает репозиторий каталога бизнесов
// Таблицу businesses ведет внешняя подсистема листингов - мы только читаем
func NewBusinessRepository(db *pgxpool.Pool) BusinessRepository {
	return &businessRepository{db: db}
}

// GetByID получает бизнес по ID
func (r *businessRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Business, error) {
	query := `SELECT id, name, category, visible FROM businesses WHERE id = $1`

	var business entity.Business
	err := r.db.QueryRow(ctx, query, id).Scan(
		&business.ID,
		&business.Name,
		&business.Category,
		&business.Visible,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBusinessNotFound
		}
		return nil, fmt.Errorf("failed to get business by id: %w", err)
	}

	return &business, nil
}

// ListVisibleByCategory возвращает одобренные бизнесы категории
// Это популяция для перцентильного ранжирования
func (r *businessRepository) ListVisibleByCategory(ctx context.Context, category string) ([]entity.Business, error) {
	query := `SELECT id, name, category, visible FROM businesses WHERE category = $1 AND visible = true`

	rows, err := r.db.Query(ctx, query, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list businesses by category: %w", err)
	}
	defer rows.Close()

	var businesses []entity.Business
	for rows.Next() {
		var business entity.Business
		if err := rows.Scan(&business.ID, &business.Name, &business.Category, &business.Visible); err != nil {
			return nil, fmt.Errorf("failed to scan business: %w", err)
		}
		businesses = append(businesses, business)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate businesses: %w", err)
	}

	return businesses, nil
}

// ListVisibleIDs возвращает ID всех одобренных бизнесов
// Используется ночным repair sweep для полного пересчёта статистики
func (r *businessRepository) ListVisibleIDs(ctx context.Context) ([]uuid.UUID, error) {
	query := `SELECT id FROM businesses WHERE visible = true`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list business ids: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan business id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate business ids: %w", err)
	}

	return ids, nil
}
