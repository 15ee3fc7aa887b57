package mocks

import (
	"context"

	"placepulse/background-worker-service/internal/app/background-worker/entity"

	"github.com/stretchr/testify/mock"
)

// MockStatsClient мок клиента Reviews Service
type MockStatsClient struct {
	mock.Mock
}

func (m *MockStatsClient) RecomputeBusinessStats(ctx context.Context, businessID string) (*entity.RecomputeResult, error) {
	args := m.Called(ctx, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RecomputeResult), args.Error(1)
}

func (m *MockStatsClient) RecomputeAllStats(ctx context.Context) (*entity.SweepResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SweepResult), args.Error(1)
}

func (m *MockStatsClient) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockAchievementsClient мок клиента Achievements Service
type MockAchievementsClient struct {
	mock.Mock
}

func (m *MockAchievementsClient) CheckAchievements(ctx context.Context, userID string) (*entity.CheckResult, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CheckResult), args.Error(1)
}

func (m *MockAchievementsClient) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockEventProcessingService мок сервиса обработки событий
type MockEventProcessingService struct {
	mock.Mock
}

func (m *MockEventProcessingService) ProcessReviewEvent(ctx context.Context, event *entity.ReviewEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventProcessingService) RunStatsSweep(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
