package entity

import "time"

// Коды ошибок, возвращаемые клиенту
const (
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeNotFound         = "NOT_FOUND"
	CodeForbidden        = "FORBIDDEN"
	CodeInternal         = "INTERNAL"
)

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CheckRequest - запрос на проверку достижений пользователя
// Вызывается background worker-ом после каждого события отзыва
type CheckRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

// AwardedBadge - выданный значок вместе с данными каталога
type AwardedBadge struct {
	Badge     Badge     `json:"badge"`
	AwardedAt time.Time `json:"awarded_at"`
}

// CheckResponse - итог проверки: какие значки выданы этим вызовом
// Повторный вызов с той же историей вернет пустой список
type CheckResponse struct {
	UserID       string         `json:"user_id"`
	NewlyAwarded []AwardedBadge `json:"newly_awarded"`
}

// UserBadgesResponse - все значки пользователя
type UserBadgesResponse struct {
	UserID string         `json:"user_id"`
	Badges []AwardedBadge `json:"badges"`
}

// LeaderboardResponse - топ обозревателей
// Считается на каждый запрос по живым данным, без кеша
type LeaderboardResponse struct {
	Reviewers   []RankedReviewer `json:"reviewers"`
	GeneratedAt time.Time        `json:"generated_at"`
}
