package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"placepulse/background-worker-service/internal/app/background-worker/entity"
	"placepulse/background-worker-service/internal/app/background-worker/service/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// ===================== ProcessReviewEvent Tests =====================

func TestProcessReviewEvent_Created_RecomputesAndChecksBadges(t *testing.T) {
	// Arrange
	statsClient := new(mocks.MockStatsClient)
	achievementsClient := new(mocks.MockAchievementsClient)

	service := NewEventProcessingService(statsClient, achievementsClient)

	ctx := context.Background()
	businessID := uuid.New().String()
	userID := uuid.New().String()

	event := &entity.ReviewEvent{
		EventType:  entity.EventTypeReviewCreated,
		ReviewID:   uuid.New().String(),
		BusinessID: businessID,
		UserID:     userID,
		Rating:     5,
		Timestamp:  time.Now(),
	}

	statsClient.On("RecomputeBusinessStats", ctx, businessID).Return(&entity.RecomputeResult{
		BusinessID:   businessID,
		TotalReviews: 12,
	}, nil)

	achievementsClient.On("CheckAchievements", ctx, userID).Return(&entity.CheckResult{
		UserID: userID,
		NewlyAwarded: []entity.AwardedBadge{
			{Badge: entity.BadgeInfo{ID: "reviewer-10", Name: "Seasoned Reviewer", Group: "milestone"}},
		},
	}, nil)

	// Act
	err := service.ProcessReviewEvent(ctx, event)

	// Assert
	assert.NoError(t, err)
	statsClient.AssertExpectations(t)
	achievementsClient.AssertExpectations(t)
}

func TestProcessReviewEvent_AnonymousReview_SkipsBadgeCheck(t *testing.T) {
	// Анонимные отзывы пересчитывают агрегаты, но не участвуют в значках
	// Arrange
	statsClient := new(mocks.MockStatsClient)
	achievementsClient := new(mocks.MockAchievementsClient)

	service := NewEventProcessingService(statsClient, achievementsClient)

	ctx := context.Background()
	businessID := uuid.New().String()

	event := &entity.ReviewEvent{
		EventType:  entity.EventTypeReviewCreated,
		ReviewID:   uuid.New().String(),
		BusinessID: businessID,
		UserID:     "", // Анонимный отзыв
		Rating:     4,
	}

	statsClient.On("RecomputeBusinessStats", ctx, businessID).Return(&entity.RecomputeResult{
		BusinessID:   businessID,
		TotalReviews: 3,
	}, nil)

	// Act
	err := service.ProcessReviewEvent(ctx, event)

	// Assert
	assert.NoError(t, err)
	achievementsClient.AssertNotCalled(t, "CheckAchievements")
}

func TestProcessReviewEvent_Deleted_Recomputes(t *testing.T) {
	// Arrange
	statsClient := new(mocks.MockStatsClient)
	achievementsClient := new(mocks.MockAchievementsClient)

	service := NewEventProcessingService(statsClient, achievementsClient)

	ctx := context.Background()
	businessID := uuid.New().String()
	userID := uuid.New().String()

	event := &entity.ReviewEvent{
		EventType:  entity.EventTypeReviewDeleted,
		ReviewID:   uuid.New().String(),
		BusinessID: businessID,
		UserID:     userID,
	}

	statsClient.On("RecomputeBusinessStats", ctx, businessID).Return(&entity.RecomputeResult{
		BusinessID:   businessID,
		TotalReviews: 2,
	}, nil)
	achievementsClient.On("CheckAchievements", ctx, userID).Return(&entity.CheckResult{
		UserID:       userID,
		NewlyAwarded: []entity.AwardedBadge{},
	}, nil)

	// Act
	err := service.ProcessReviewEvent(ctx, event)

	// Assert
	assert.NoError(t, err)
	statsClient.AssertExpectations(t)
	achievementsClient.AssertExpectations(t)
}

func TestProcessReviewEvent_Voted_SkipsRecompute(t *testing.T) {
	// Голос "полезно" не меняет агрегаты, но влияет на community-значки
	// Arrange
	statsClient := new(mocks.MockStatsClient)
	achievementsClient := new(mocks.MockAchievementsClient)

	service := NewEventProcessingService(statsClient, achievementsClient)

	ctx := context.Background()
	userID := uuid.New().String()

	event := &entity.ReviewEvent{
		EventType: entity.EventTypeReviewVoted,
		ReviewID:  uuid.New().String(),
		UserID:    userID,
	}

	achievementsClient.On("CheckAchievements", ctx, userID).Return(&entity.CheckResult{
		UserID:       userID,
		NewlyAwarded: []entity.AwardedBadge{},
	}, nil)

	// Act
	err := service.ProcessReviewEvent(ctx, event)

	// Assert
	assert.NoError(t, err)
	statsClient.AssertNotCalled(t, "RecomputeBusinessStats")
	achievementsClient.AssertExpectations(t)
}

func TestProcessReviewEvent_UnknownType_Skipped(t *testing.T) {
	// Arrange
	statsClient := new(mocks.MockStatsClient)
	achievementsClient := new(mocks.MockAchievementsClient)

	service := NewEventProcessingService(statsClient, achievementsClient)

	ctx := context.Background()

	event := &entity.ReviewEvent{
		EventType: "UNKNOWN_EVENT",
		ReviewID:  uuid.New().String(),
	}

	// Act
	err := service.ProcessReviewEvent(ctx, event)

	// Assert
	assert.NoError(t, err)
	statsClient.AssertNotCalled(t, "RecomputeBusinessStats")
	achievementsClient.AssertNotCalled(t, "CheckAchievements")
}

func TestProcessReviewEvent_MissingBusinessID_ValidationFailed(t *testing.T) {
	// Arrange
	statsClient := new(mocks.MockStatsClient)
	achievementsClient := new(mocks.MockAchievementsClient)

	service := NewEventProcessingService(statsClient, achievementsClient)

	ctx := context.Background()

	event := &entity.ReviewEvent{
		EventType: entity.EventTypeReviewCreated,
		ReviewID:  uuid.New().String(),
		// BusinessID отсутствует
	}

	// Act
	err := service.ProcessReviewEvent(ctx, event)

	// Assert
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	statsClient.AssertNotCalled(t, "RecomputeBusinessStats")
}

func TestProcessReviewEvent_RecomputeError(t *testing.T) {
	// Arrange
	statsClient := new(mocks.MockStatsClient)
	achievementsClient := new(mocks.MockAchievementsClient)

	service := NewEventProcessingService(statsClient, achievementsClient)

	ctx := context.Background()
	businessID := uuid.New().String()

	event := &entity.ReviewEvent{
		EventType:  entity.EventTypeReviewCreated,
		ReviewID:   uuid.New().String(),
		BusinessID: businessID,
		UserID:     uuid.New().String(),
	}

	statsClient.On("RecomputeBusinessStats", ctx, businessID).Return(nil, errors.New("reviews service unavailable"))

	// Act
	err := service.ProcessReviewEvent(ctx, event)

	// Assert
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to recompute stats")
	achievementsClient.AssertNotCalled(t, "CheckAchievements")
}

func TestProcessReviewEvent_BadgeCheckError(t *testing.T) {
	// Arrange
	statsClient := new(mocks.MockStatsClient)
	achievementsClient := new(mocks.MockAchievementsClient)

	service := NewEventProcessingService(statsClient, achievementsClient)

	ctx := context.Background()
	businessID := uuid.New().String()
	userID := uuid.New().String()

	event := &entity.ReviewEvent{
		EventType:  entity.EventTypeReviewCreated,
		ReviewID:   uuid.New().String(),
		BusinessID: businessID,
		UserID:     userID,
	}

	statsClient.On("RecomputeBusinessStats", ctx, businessID).Return(&entity.RecomputeResult{
		BusinessID: businessID,
	}, nil)
	achievementsClient.On("CheckAchievements", ctx, userID).Return(nil, errors.New("achievements service unavailable"))

	// Act
	err := service.ProcessReviewEvent(ctx, event)

	// Assert
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to check achievements")
}

// ===================== RunStatsSweep Tests =====================

func TestRunStatsSweep_Success(t *testing.T) {
	// Arrange
	statsClient := new(mocks.MockStatsClient)
	achievementsClient := new(mocks.MockAchievementsClient)

	service := NewEventProcessingService(statsClient, achievementsClient)

	ctx := context.Background()

	statsClient.On("RecomputeAllStats", ctx).Return(&entity.SweepResult{Recomputed: 42}, nil)

	// Act
	err := service.RunStatsSweep(ctx)

	// Assert
	assert.NoError(t, err)
	statsClient.AssertExpectations(t)
}

func TestRunStatsSweep_Error(t *testing.T) {
	// Arrange
	statsClient := new(mocks.MockStatsClient)
	achievementsClient := new(mocks.MockAchievementsClient)

	service := NewEventProcessingService(statsClient, achievementsClient)

	ctx := context.Background()

	statsClient.On("RecomputeAllStats", ctx).Return(nil, errors.New("sweep failed"))

	// Act
	err := service.RunStatsSweep(ctx)

	// Assert
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to run stats sweep")
}

// ===================== Idempotency Tests =====================

func TestProcessReviewEvent_Redelivery_SafeToRepeat(t *testing.T) {
	// Повторная доставка того же события безопасна:
	// пересчёт идемпотентный, повторная проверка значков ничего не выдает
	// Arrange
	statsClient := new(mocks.MockStatsClient)
	achievementsClient := new(mocks.MockAchievementsClient)

	service := NewEventProcessingService(statsClient, achievementsClient)

	ctx := context.Background()
	businessID := uuid.New().String()
	userID := uuid.New().String()

	event := &entity.ReviewEvent{
		EventType:  entity.EventTypeReviewCreated,
		ReviewID:   uuid.New().String(),
		BusinessID: businessID,
		UserID:     userID,
	}

	statsClient.On("RecomputeBusinessStats", ctx, businessID).Return(&entity.RecomputeResult{
		BusinessID:   businessID,
		TotalReviews: 7,
	}, nil).Twice()
	achievementsClient.On("CheckAchievements", ctx, userID).Return(&entity.CheckResult{
		UserID: userID,
		NewlyAwarded: []entity.AwardedBadge{
			{Badge: entity.BadgeInfo{ID: "first-review"}},
		},
	}, nil).Once()
	achievementsClient.On("CheckAchievements", ctx, userID).Return(&entity.CheckResult{
		UserID:       userID,
		NewlyAwarded: []entity.AwardedBadge{},
	}, nil).Once()

	// Act
	err1 := service.ProcessReviewEvent(ctx, event)
	err2 := service.ProcessReviewEvent(ctx, event)

	// Assert
	assert.NoError(t, err1)
	assert.NoError(t, err2)
	statsClient.AssertExpectations(t)
	achievementsClient.AssertExpectations(t)
}
