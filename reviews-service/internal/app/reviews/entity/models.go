package entity

import (
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Identity - кто отправил отзыв: авторизованный пользователь или аноним
// Ровно один из вариантов, никогда оба сразу
type Identity struct {
	userID string
}

// Authenticated создает identity авторизованного пользователя
func Authenticated(userID string) Identity {
	return Identity{userID: userID}
}

// Anonymous создает анонимную identity (токен чеканится при сохранении)
func Anonymous() Identity {
	return Identity{}
}

// IsAuthenticated возвращает true для авторизованного варианта
func (i Identity) IsAuthenticated() bool {
	return i.userID != ""
}

// UserID возвращает ID пользователя (пустая строка для анонима)
func (i Identity) UserID() string {
	return i.userID
}

// ImageRef - ссылка на изображение во внешнем blob-хранилище
type ImageRef struct {
	Ref       string `json:"ref" bson:"ref"`              // Стабильная ссылка из blob store
	SizeBytes int64  `json:"size_bytes" bson:"size_bytes"` // Размер в байтах (для лимита 1 MiB)
}

// Review - отзыв одного посетителя об одном бизнесе
// Автор либо AuthorUserID (авторизованный), либо AnonymousToken - никогда оба.
// Для авторизованных пар (business, user) уникальный partial-индекс в MongoDB
// гарантирует не более одного отзыва на уровне хранилища.
type Review struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	BusinessID       string             `json:"business_id" bson:"business_id"`                   // UUID бизнеса из каталога листингов
	BusinessCategory string             `json:"business_category" bson:"business_category"`       // Денормализованная категория для агрегаций
	AuthorUserID     string             `json:"author_user_id,omitempty" bson:"author_user_id,omitempty"` // UUID пользователя из Auth (пусто для анонима)
	AnonymousToken   string             `json:"anonymous_token,omitempty" bson:"anonymous_token,omitempty"`
	Rating           int                `json:"rating" bson:"rating"` // Оценка от 1 до 5
	Title            string             `json:"title,omitempty" bson:"title,omitempty"`
	Body             string             `json:"body" bson:"body"`
	Tags             []string           `json:"tags" bson:"tags"`
	Images           []ImageRef         `json:"images" bson:"images"`
	HelpfulVotes     int                `json:"helpful_votes" bson:"helpful_votes"`
	CreatedAt        time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at" bson:"updated_at"`
}

// Business - бизнес из внешней подсистемы листингов (read-only для нас)
type Business struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
	Visible  bool      `json:"visible"` // Прошел модерацию и принимает отзывы
}

// Dimensions - качественные измерения, выводимые из тегов отзывов
// Для каждого измерения считается средний рейтинг отзывов с этим тегом
var Dimensions = []string{"punctuality", "friendliness", "value", "trustworthiness"}

// BusinessStats - агрегированная статистика рейтингов одного бизнеса
// Производная от текущего набора отзывов: всегда может быть пересчитана с нуля.
// AverageRating == nil означает "нет данных" (ноль отзывов), а не нулевую оценку.
type BusinessStats struct {
	BusinessID         string             `json:"business_id"`
	TotalReviews       int                `json:"total_reviews"`
	AverageRating      *float64           `json:"average_rating"`
	RatingDistribution map[int]int        `json:"rating_distribution"` // Счетчик по каждой оценке 1..5
	DimensionAverages  map[string]float64 `json:"dimension_averages"`  // Средний рейтинг по тегу-измерению
	RecomputedAt       time.Time          `json:"recomputed_at"`
}

// DimensionPercentile - позиция бизнеса по измерению относительно категории
// Insufficient == true когда у бизнеса нет ни одного отзыва с этим тегом:
// рендерится как "insights coming soon", а не как нулевой перцентиль
type DimensionPercentile struct {
	Percentile   int  `json:"percentile"`
	Insufficient bool `json:"insufficient"`
}

// Типы событий для Kafka топика review_events
const (
	EventTypeReviewCreated = "REVIEW_CREATED"
	EventTypeReviewUpdated = "REVIEW_UPDATED"
	EventTypeReviewDeleted = "REVIEW_DELETED"
	EventTypeReviewVoted   = "REVIEW_VOTED"
)

// ReviewEvent - событие изменения отзыва для Kafka
// Background worker использует его как триггер пересчёта статистики и проверки значков
type ReviewEvent struct {
	EventType  string    `json:"event_type"`
	ReviewID   string    `json:"review_id"`
	BusinessID string    `json:"business_id"`
	UserID     string    `json:"user_id,omitempty"` // Пусто для анонимных отзывов
	Rating     int       `json:"rating"`
	Timestamp  time.Time `json:"timestamp"`
}
