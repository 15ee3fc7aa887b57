package service

import (
	"math"
	"strings"

	"placepulse/reviews-service/internal/app/reviews/entity"
)

// Лимиты контента отзыва
// Минимум длины текста проверяется на сервере независимо от клиентской проверки
const (
	MinBodyLength = 10
	MaxImages     = 5
	MaxImageBytes = 1 << 20 // 1 MiB
)

// ratingValue проверяет что число JSON - целое в диапазоне 1..5
// 4.5 или 0 дают INVALID_RATING, а не тихое округление
func ratingValue(raw float64) (int, bool) {
	if raw != math.Trunc(raw) {
		return 0, false
	}
	rating := int(raw)
	if rating < 1 || rating > 5 {
		return 0, false
	}
	return rating, true
}

// ValidateSubmission - чистая проверка запроса на создание отзыва
// Без побочных эффектов, безопасно вызывать сколько угодно раз
func ValidateSubmission(req *entity.CreateReviewRequest) error {
	if _, ok := ratingValue(req.Rating); !ok {
		return ErrInvalidRating
	}

	if len(strings.TrimSpace(req.Body)) < MinBodyLength {
		return ErrBodyTooShort
	}

	return validateImages(req.Images)
}

// ValidateUpdate - чистая проверка запроса на обновление отзыва
// Нулевой rating означает "не менять"
func ValidateUpdate(req *entity.UpdateReviewRequest) error {
	if req.Rating != 0 {
		if _, ok := ratingValue(req.Rating); !ok {
			return ErrInvalidRating
		}
	}

	if req.Body != nil && len(strings.TrimSpace(*req.Body)) < MinBodyLength {
		return ErrBodyTooShort
	}

	return nil
}

// validateImages проверяет количество и размер изображений
// Ошибки специфичные (не общий VALIDATION_FAILED): тексты показываются
// пользователю до отправки формы
func validateImages(images []entity.ImageRefRequest) error {
	if len(images) > MaxImages {
		return ErrTooManyImages
	}

	for _, img := range images {
		if img.SizeBytes > MaxImageBytes {
			return ErrImageTooLarge
		}
	}

	return nil
}

// normalizeTags убирает пустые теги и дубликаты, приводит к нижнему регистру
// Теги-измерения (punctuality и т.д.) сравниваются по точному совпадению
func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	result := make([]string, 0, len(tags))

	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		result = append(result, tag)
	}

	return result
}
