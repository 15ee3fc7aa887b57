package mocks

import (
	"context"

	"placepulse/achievements-service/internal/app/achievements/entity"

	"github.com/stretchr/testify/mock"
)

// MockAwardRepository мок для AwardRepository
type MockAwardRepository struct {
	mock.Mock
}

func (m *MockAwardRepository) Insert(ctx context.Context, award *entity.UserBadgeAward) (bool, error) {
	args := m.Called(ctx, award)
	return args.Bool(0), args.Error(1)
}

func (m *MockAwardRepository) GetByUserID(ctx context.Context, userID string) ([]entity.UserBadgeAward, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.UserBadgeAward), args.Error(1)
}

func (m *MockAwardRepository) CountByUserIDs(ctx context.Context, userIDs []string) (map[string]int, error) {
	args := m.Called(ctx, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

// MockHistoryRepository мок для HistoryRepository
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) GetUserHistory(ctx context.Context, userID string) (*entity.UserHistory, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.UserHistory), args.Error(1)
}

func (m *MockHistoryRepository) TopReviewers(ctx context.Context, limit int) ([]entity.UserHistory, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.UserHistory), args.Error(1)
}
