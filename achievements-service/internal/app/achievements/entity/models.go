package entity

import (
	"time"

	"github.com/google/uuid"
)

// Группы значков в каталоге достижений
const (
	BadgeGroupMilestone  = "milestone"
	BadgeGroupExplorer   = "explorer"
	BadgeGroupSpecialist = "specialist"
	BadgeGroupCommunity  = "community"
)

// Виды правил: каждое сравнивает одну метрику истории пользователя с порогом
const (
	RuleReviewCount       = "review_count"
	RuleDistinctCategories= "distinct_categories"
	RuleCategoryDepth     = "category_depth"
	RuleHelpfulVotes      = "helpful_votes"
)

// Badge - значок из каталога достижений
// Каталог статичен на время работы процесса, правка = деплой нового YAML
type Badge struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	Group       string    `json:"group" yaml:"group"`
	Rule        BadgeRule `json:"rule" yaml:"rule"`
}

// BadgeRule - условие выдачи значка
// Category используется только для category_depth (глубина в одной категории)
type BadgeRule struct {
	Kind      string `json:"kind" yaml:"kind"`
	Threshold int    `json:"threshold" yaml:"threshold"`
	Category  string `json:"category,omitempty" yaml:"category,omitempty"`
}

// UserBadgeAward - факт выдачи значка пользователю
// Уникальный индекс (user_id, badge_id) гарантирует идемпотентность выдачи
// на уровне данных: гоночные проверки дают одну строку, не две
type UserBadgeAward struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    string    `json:"user_id" gorm:"type:varchar(64);not null;uniqueIndex:user_badge_unique_idx"`
	BadgeID   string    `json:"badge_id" gorm:"type:varchar(64);not null;uniqueIndex:user_badge_unique_idx"`
	AwardedAt time.Time `json:"awarded_at" gorm:"autoCreateTime"`
}

// TableName указывает имя таблицы для GORM
func (UserBadgeAward) TableName() string {
	return "user_badge_awards"
}

// UserHistory - агрегированная история отзывов пользователя
// Считается из MongoDB на каждую проверку, кеша нет
type UserHistory struct {
	UserID            string         `json:"user_id"`
	ReviewCount       int            `json:"review_count"`
	HelpfulVotes      int            `json:"helpful_votes"`
	ReviewsByCategory map[string]int `json:"reviews_by_category"`
}

// DistinctCategories возвращает число разных категорий с хотя бы одним отзывом
func (h *UserHistory) DistinctCategories() int {
	return len(h.ReviewsByCategory)
}

// HelpfulVoteWeight - вес полезного голоса в impact score относительно
// одного отзыва. Используется и в агрегации выборки топа, и при расчете
// ответа: отбор и ранжирование обязаны идти по одному ключу
const HelpfulVoteWeight = 0.5

// RankedReviewer - строка лидерборда обозревателей
type RankedReviewer struct {
	UserID       string  `json:"user_id"`
	ReviewCount  int     `json:"review_count"`
	HelpfulVotes int     `json:"helpful_votes"`
	ImpactScore  float64 `json:"impact_score"`
	BadgeCount   int     `json:"badge_count"`
}
