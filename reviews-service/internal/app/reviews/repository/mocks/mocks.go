package mocks

import (
	"context"
	"time"

	"placepulse/reviews-service/internal/app/reviews/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockReviewRepository мок для ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *entity.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) GetByID(ctx context.Context, id string) (*entity.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *MockReviewRepository) GetByBusinessID(ctx context.Context, businessID string) ([]entity.Review, error) {
	args := m.Called(ctx, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Review), args.Error(1)
}

func (m *MockReviewRepository) GetByUserID(ctx context.Context, userID string) ([]entity.Review, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Review), args.Error(1)
}

func (m *MockReviewRepository) Update(ctx context.Context, review *entity.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReviewRepository) IncrementHelpfulVotes(ctx context.Context, id string) (*entity.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

// MockBusinessRepository мок для BusinessRepository
type MockBusinessRepository struct {
	mock.Mock
}

func (m *MockBusinessRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Business, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Business), args.Error(1)
}

func (m *MockBusinessRepository) ListVisibleByCategory(ctx context.Context, category string) ([]entity.Business, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Business), args.Error(1)
}

func (m *MockBusinessRepository) ListVisibleIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

// MockStatsRepository мок для StatsRepository
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) Upsert(ctx context.Context, stats *entity.BusinessStats) (bool, error) {
	args := m.Called(ctx, stats)
	return args.Bool(0), args.Error(1)
}

func (m *MockStatsRepository) GetByBusinessID(ctx context.Context, businessID string) (*entity.BusinessStats, error) {
	args := m.Called(ctx, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.BusinessStats), args.Error(1)
}

func (m *MockStatsRepository) GetByBusinessIDs(ctx context.Context, businessIDs []string) ([]entity.BusinessStats, error) {
	args := m.Called(ctx, businessIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.BusinessStats), args.Error(1)
}

// MockMessagePublisher мок для Kafka MessagePublisher
type MockMessagePublisher struct {
	mock.Mock
	Events []*entity.ReviewEvent
}

func (m *MockMessagePublisher) PublishReviewEvent(ctx context.Context, event *entity.ReviewEvent) error {
	m.Events = append(m.Events, event)
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockMessagePublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockBusinessCache мок для Redis-кеша бизнесов
type MockBusinessCache struct {
	mock.Mock
}

func (m *MockBusinessCache) GetBusiness(ctx context.Context, id string) (*entity.Business, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Business), args.Error(1)
}

func (m *MockBusinessCache) SetBusiness(ctx context.Context, business *entity.Business, ttl time.Duration) error {
	args := m.Called(ctx, business, ttl)
	return args.Error(0)
}

// MockStatsService мок для StatsServiceInterface
type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) Recompute(ctx context.Context, businessID string) (*entity.BusinessStats, error) {
	args := m.Called(ctx, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.BusinessStats), args.Error(1)
}

func (m *MockStatsService) RecomputeWithRetry(ctx context.Context, businessID string) (*entity.BusinessStats, error) {
	args := m.Called(ctx, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.BusinessStats), args.Error(1)
}

func (m *MockStatsService) RecomputeAll(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockStatsService) GetStats(ctx context.Context, businessID string) (*entity.BusinessStats, error) {
	args := m.Called(ctx, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.BusinessStats), args.Error(1)
}
