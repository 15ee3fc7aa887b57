package infrastructure

import (
	"context"

	"placepulse/reviews-service/internal/app/reviews/entity"
)

// MessagePublisher определяет интерфейс для публикации событий отзывов
type MessagePublisher interface {
	PublishReviewEvent(ctx context.Context, event *entity.ReviewEvent) error
	Close() error
}
