package entity

import "time"

// Типы событий из Kafka топика review_events
const (
	EventTypeReviewCreated = "REVIEW_CREATED"
	EventTypeReviewUpdated = "REVIEW_UPDATED"
	EventTypeReviewDeleted = "REVIEW_DELETED"
	EventTypeReviewVoted   = "REVIEW_VOTED"
)

// ReviewEvent - событие изменения отзыва из Reviews Service
// Worker использует его как триггер пересчёта статистики и проверки значков
type ReviewEvent struct {
	EventType  string    `json:"event_type"`
	ReviewID   string    `json:"review_id"`
	BusinessID string    `json:"business_id"`
	UserID     string    `json:"user_id,omitempty"` // Пусто для анонимных отзывов
	Rating     int       `json:"rating"`
	Timestamp  time.Time `json:"timestamp"`
}

// RecomputeResult - ответ Reviews Service на запрос пересчёта
type RecomputeResult struct {
	BusinessID   string `json:"business_id"`
	TotalReviews int    `json:"total_reviews"`
}

// SweepResult - ответ Reviews Service на полный пересчёт (repair sweep)
type SweepResult struct {
	Recomputed int `json:"recomputed"`
}

// AwardedBadge - значок, выданный пользователю при проверке
type AwardedBadge struct {
	Badge     BadgeInfo `json:"badge"`
	AwardedAt time.Time `json:"awarded_at"`
}

// BadgeInfo - описание значка из каталога Achievements Service
type BadgeInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Group       string `json:"group"`
}

// CheckResult - ответ Achievements Service на проверку значков
type CheckResult struct {
	UserID       string         `json:"user_id"`
	NewlyAwarded []AwardedBadge `json:"newly_awarded"`
}
