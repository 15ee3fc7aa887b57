package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"placepulse/achievements-service/internal/app/achievements/entity"
	"placepulse/achievements-service/internal/app/achievements/repository"
)

// Лимиты лидерборда
const (
	DefaultLeaderboardSize = 10
	MaxLeaderboardSize     = 100
)

// LeaderboardService - Leaderboard Reader: топ обозревателей по живым данным
// Каждый запрос пересчитывает заново - никакого кеша и устаревших снимков
type LeaderboardService struct {
	historyRepo repository.HistoryRepository
	awardRepo   repository.AwardRepository
}

// NewLeaderboardService создает новый сервис лидерборда
func NewLeaderboardService(
	historyRepo repository.HistoryRepository,
	awardRepo repository.AwardRepository,
) *LeaderboardService {
	return &LeaderboardService{
		historyRepo: historyRepo,
		awardRepo:   awardRepo,
	}
}

// TopReviewers возвращает топ обозревателей по impact score
// impact = отзывы + 0.5 * полезные голоса: активность важнее, но
// голоса сообщества отличают качество от количества
func (s *LeaderboardService) TopReviewers(ctx context.Context, limit int) (*entity.LeaderboardResponse, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardSize
	}
	if limit > MaxLeaderboardSize {
		limit = MaxLeaderboardSize
	}

	reviewers, err := s.historyRepo.TopReviewers(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load top reviewers: %w", err)
	}

	userIDs := make([]string, 0, len(reviewers))
	for _, reviewer := range reviewers {
		userIDs = append(userIDs, reviewer.UserID)
	}

	badgeCounts, err := s.awardRepo.CountByUserIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load badge counts: %w", err)
	}

	ranked := make([]entity.RankedReviewer, 0, len(reviewers))
	for _, reviewer := range reviewers {
		ranked = append(ranked, entity.RankedReviewer{
			UserID:       reviewer.UserID,
			ReviewCount:  reviewer.ReviewCount,
			HelpfulVotes: reviewer.HelpfulVotes,
			ImpactScore:  float64(reviewer.ReviewCount) + entity.HelpfulVoteWeight*float64(reviewer.HelpfulVotes),
			BadgeCount:   badgeCounts[reviewer.UserID],
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ImpactScore > ranked[j].ImpactScore
	})

	return &entity.LeaderboardResponse{
		Reviewers:   ranked,
		GeneratedAt: time.Now().UTC(),
	}, nil
}
