package service

import (
	"context"
	"fmt"
	"time"

	"placepulse/achievements-service/internal/app/achievements/catalog"
	"placepulse/achievements-service/internal/app/achievements/entity"
	"placepulse/achievements-service/internal/app/achievements/repository"

	"placepulse/pkg/logger"
	"placepulse/pkg/metrics"
)

// BadgeService - Badge Evaluator: проверяет историю пользователя против
// каталога и выдает недостающие значки
// Выдача необратима: удаление отзывов не отбирает уже выданные значки
type BadgeService struct {
	badgeCatalog *catalog.Catalog
	awardRepo    repository.AwardRepository
	historyRepo  repository.HistoryRepository
}

// NewBadgeService создает новый сервис значков
func NewBadgeService(
	badgeCatalog *catalog.Catalog,
	awardRepo repository.AwardRepository,
	historyRepo repository.HistoryRepository,
) *BadgeService {
	return &BadgeService{
		badgeCatalog: badgeCatalog,
		awardRepo:    awardRepo,
		historyRepo:  historyRepo,
	}
}

// CheckAndAward проверяет все правила каталога для пользователя
// Идемпотентна: уже выданные значки отфильтрует уникальный индекс,
// повторный вызов с той же историей вернет пустой список.
// Частичная выдача при ошибке безопасна - следующий вызов доделает
func (s *BadgeService) CheckAndAward(ctx context.Context, userID string) (*entity.CheckResponse, error) {
	metrics.BadgeChecks.Inc()

	history, err := s.historyRepo.GetUserHistory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user history: %w", err)
	}

	response := &entity.CheckResponse{
		UserID:       userID,
		NewlyAwarded: []entity.AwardedBadge{},
	}

	for _, badge := range s.badgeCatalog.Badges() {
		if !catalog.Satisfied(badge.Rule, history) {
			continue
		}

		award := &entity.UserBadgeAward{
			UserID:    userID,
			BadgeID:   badge.ID,
			AwardedAt: time.Now().UTC(),
		}

		awarded, err := s.awardRepo.Insert(ctx, award)
		if err != nil {
			return nil, fmt.Errorf("failed to award badge %s: %w", badge.ID, err)
		}
		if !awarded {
			// Значок уже был выдан раньше (или гоночной проверкой)
			continue
		}

		metrics.BadgesAwarded.WithLabelValues(badge.Group).Inc()
		logger.Info().
			Str("user_id", userID).
			Str("badge_id", badge.ID).
			Msg("Badge awarded")

		response.NewlyAwarded = append(response.NewlyAwarded, entity.AwardedBadge{
			Badge:     badge,
			AwardedAt: award.AwardedAt,
		})
	}

	return response, nil
}

// GetUserBadges возвращает все значки пользователя с данными каталога
// Выданный значок, выпавший из каталога при деплое, не показываем,
// но и не удаляем - вернется в каталог, снова появится у пользователя
func (s *BadgeService) GetUserBadges(ctx context.Context, userID string) (*entity.UserBadgesResponse, error) {
	awards, err := s.awardRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user badges: %w", err)
	}

	badges := make([]entity.AwardedBadge, 0, len(awards))
	for _, award := range awards {
		badge, ok := s.badgeCatalog.Get(award.BadgeID)
		if !ok {
			logger.Warn().
				Str("badge_id", award.BadgeID).
				Str("user_id", userID).
				Msg("Awarded badge missing from catalog")
			continue
		}

		badges = append(badges, entity.AwardedBadge{
			Badge:     badge,
			AwardedAt: award.AwardedAt,
		})
	}

	return &entity.UserBadgesResponse{
		UserID: userID,
		Badges: badges,
	}, nil
}
