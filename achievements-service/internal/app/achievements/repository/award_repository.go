package repository

import (
	"context"

	"placepulse/achievements-service/internal/app/achievements/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type awardRepository struct {
	db *gorm.DB // GORM DB для работы с PostgreSQL
}

// NewAwardRepository создает новый репозиторий выданных значков
func NewAwardRepository(db *gorm.DB) AwardRepository {
	return &awardRepository{db: db}
}

// Insert записывает выдачу значка
// ON CONFLICT DO NOTHING: повторная выдача (в том числе гоночная) тихо
// схлопывается в ноль строк, RowsAffected == 0 означает "уже был выдан"
func (r *awardRepository) Insert(ctx context.Context, award *entity.UserBadgeAward) (bool, error) {
	if award.ID == uuid.Nil {
		award.ID = uuid.New()
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "badge_id"}},
			DoNothing: true,
		}).
		Create(award)

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// GetByUserID возвращает все значки пользователя в порядке выдачи
func (r *awardRepository) GetByUserID(ctx context.Context, userID string) ([]entity.UserBadgeAward, error) {
	var awards []entity.UserBadgeAward
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("awarded_at ASC").
		Find(&awards)

	if result.Error != nil {
		return nil, result.Error
	}

	return awards, nil
}

// CountByUserIDs возвращает число значков на пользователя (для лидерборда)
func (r *awardRepository) CountByUserIDs(ctx context.Context, userIDs []string) (map[string]int, error) {
	if len(userIDs) == 0 {
		return map[string]int{}, nil
	}

	type row struct {
		UserID string
		Count  int
	}

	var rows []row
	result := r.db.WithContext(ctx).
		Model(&entity.UserBadgeAward{}).
		Select("user_id, count(*) as count").
		Where("user_id IN ?", userIDs).
		Group("user_id").
		Find(&rows)

	if result.Error != nil {
		return nil, result.Error
	}

	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.UserID] = r.Count
	}

	return counts, nil
}
