package service

import (
	"context"

	"placepulse/background-worker-service/internal/app/background-worker/entity"
)

// StatsClientInterface определяет интерфейс служебного клиента Reviews Service
type StatsClientInterface interface {
	// RecomputeBusinessStats запускает пересчёт агрегатов одного бизнеса
	RecomputeBusinessStats(ctx context.Context, businessID string) (*entity.RecomputeResult, error)
	// RecomputeAllStats запускает полный пересчёт всех видимых бизнесов (repair sweep)
	RecomputeAllStats(ctx context.Context) (*entity.SweepResult, error)
	// Ping проверяет доступность Reviews Service
	Ping(ctx context.Context) error
}

// AchievementsClientInterface определяет интерфейс служебного клиента Achievements Service
type AchievementsClientInterface interface {
	// CheckAchievements запускает проверку и выдачу значков для пользователя
	CheckAchievements(ctx context.Context, userID string) (*entity.CheckResult, error)
	// Ping проверяет доступность Achievements Service
	Ping(ctx context.Context) error
}

// EventProcessingServiceInterface определяет интерфейс обработки событий отзывов
type EventProcessingServiceInterface interface {
	// ProcessReviewEvent обрабатывает одно событие из Kafka
	ProcessReviewEvent(ctx context.Context, event *entity.ReviewEvent) error
	// RunStatsSweep запускает полный пересчёт статистики
	RunStatsSweep(ctx context.Context) error
}
