package repository

import (
	"context"
	"errors"

	"placepulse/reviews-service/internal/app/reviews/entity"

	"github.com/google/uuid"
)

var (
	// Стандартные ошибки репозиториев для обработки в service layer
	ErrReviewNotFound   = errors.New("review not found")
	ErrDuplicateReview  = errors.New("review already exists for this user and business")
	ErrBusinessNotFound = errors.New("business not found")
	ErrStatsNotFound    = errors.New("business stats not found")
)

// ReviewRepository определяет методы для работы с отзывами в MongoDB
type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	GetByID(ctx context.Context, id string) (*entity.Review, error)
	GetByBusinessID(ctx context.Context, businessID string) ([]entity.Review, error)
	GetByUserID(ctx context.Context, userID string) ([]entity.Review, error)
	Update(ctx context.Context, review *entity.Review) error
	Delete(ctx context.Context, id string) error
	IncrementHelpfulVotes(ctx context.Context, id string) (*entity.Review, error)
}

// BusinessRepository читает каталог бизнесов, который ведет внешняя
// подсистема листингов (draft/pending/approved - вне нашей зоны)
type BusinessRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Business, error)
	ListVisibleByCategory(ctx context.Context, category string) ([]entity.Business, error)
	ListVisibleIDs(ctx context.Context) ([]uuid.UUID, error)
}

// StatsRepository хранит агрегированную статистику бизнесов в PostgreSQL
// Upsert полностью заменяет строку; устаревшая запись (recomputed_at не новее
// сохранённой) отбрасывается и возвращает applied == false
type StatsRepository interface {
	Upsert(ctx context.Context, stats *entity.BusinessStats) (applied bool, err error)
	GetByBusinessID(ctx context.Context, businessID string) (*entity.BusinessStats, error)
	GetByBusinessIDs(ctx context.Context, businessIDs []string) ([]entity.BusinessStats, error)
}
