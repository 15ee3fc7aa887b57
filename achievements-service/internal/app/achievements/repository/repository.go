package repository

import (
	"context"

	"placepulse/achievements-service/internal/app/achievements/entity"
)

// AwardRepository хранит выданные значки в PostgreSQL
// Insert возвращает awarded == false когда значок уже был выдан:
// уникальный индекс (user_id, badge_id) делает выдачу идемпотентной
type AwardRepository interface {
	Insert(ctx context.Context, award *entity.UserBadgeAward) (awarded bool, err error)
	GetByUserID(ctx context.Context, userID string) ([]entity.UserBadgeAward, error)
	CountByUserIDs(ctx context.Context, userIDs []string) (map[string]int, error)
}

// HistoryRepository читает историю отзывов из MongoDB (коллекция reviews)
// Это read-only взгляд на данные, которыми владеет reviews-service
type HistoryRepository interface {
	GetUserHistory(ctx context.Context, userID string) (*entity.UserHistory, error)
	TopReviewers(ctx context.Context, limit int) ([]entity.UserHistory, error)
}
