package entity

// CreateReviewRequest - запрос на создание отзыва
// Rating принимается как число JSON и проверяется на целочисленность
// в валидаторе, чтобы 4.5 давало INVALID_RATING, а не тихое округление
type CreateReviewRequest struct {
	BusinessID string            `json:"business_id" validate:"required,uuid4"`
	Rating     float64           `json:"rating"`
	Title      string            `json:"title" validate:"omitempty,max=120"`
	Body       string            `json:"body"`
	Tags       []string          `json:"tags" validate:"omitempty,dive,min=1,max=40"`
	Images     []ImageRefRequest `json:"images"`
}

// ImageRefRequest - ссылка на уже загруженное в blob store изображение
type ImageRefRequest struct {
	Ref       string `json:"ref" validate:"required"`
	SizeBytes int64  `json:"size_bytes"`
}

// UpdateReviewRequest - запрос на обновление отзыва (только автором)
type UpdateReviewRequest struct {
	Rating float64  `json:"rating,omitempty"`
	Title  *string  `json:"title,omitempty"`
	Body   *string  `json:"body,omitempty"`
	Tags   []string `json:"tags,omitempty"`
}

// Коды ошибок, возвращаемые клиенту
const (
	CodeValidationFailed  = "VALIDATION_FAILED"
	CodeInvalidRating     = "INVALID_RATING"
	CodeSizeLimitExceeded = "SIZE_LIMIT_EXCEEDED"
	CodeDuplicate         = "DUPLICATE"
	CodeNotFound          = "NOT_FOUND"
	CodeForbidden         = "FORBIDDEN"
	CodeInternal          = "INTERNAL"
)

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SubmitReviewResponse - созданный отзыв плюс текущая (возможно чуть
// отстающая) статистика бизнеса
type SubmitReviewResponse struct {
	Review *Review        `json:"review"`
	Stats  *BusinessStats `json:"stats"`
}

// ReviewListResponse - ответ со списком отзывов
type ReviewListResponse struct {
	Reviews []Review `json:"reviews"`
	Total   int      `json:"total"`
}

// BusinessStatsResponse - статистика бизнеса с перцентилями по измерениям
type BusinessStatsResponse struct {
	BusinessID         string                         `json:"business_id"`
	TotalReviews       int                            `json:"total_reviews"`
	AverageRating      *float64                       `json:"average_rating"`
	RatingDistribution map[int]int                    `json:"rating_distribution"`
	Percentiles        map[string]DimensionPercentile `json:"percentiles"`
	RecomputedAt       string                         `json:"recomputed_at,omitempty"`
}

// SuccessResponse - стандартный ответ об успехе
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
