package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"placepulse/pkg/logger"
	"placepulse/pkg/metrics"
	"placepulse/reviews-service/internal/app/reviews/entity"
	"placepulse/reviews-service/internal/app/reviews/infrastructure"
	"placepulse/reviews-service/internal/app/reviews/repository"

	"github.com/google/uuid"
)

// TTL кеша справочника бизнесов: листинги меняются редко
const businessCacheTTL = 5 * time.Minute

// ReviewService обрабатывает бизнес-логику отзывов
// Координирует валидацию, MongoDB, пересчёт статистики и Kafka
type ReviewService struct {
	reviewRepo    repository.ReviewRepository
	businessRepo  repository.BusinessRepository
	businessCache BusinessCache
	statsSvc      StatsServiceInterface
	kafkaProducer infrastructure.MessagePublisher
}

// NewReviewService создает новый сервис отзывов с внедрением зависимостей
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	businessRepo repository.BusinessRepository,
	businessCache BusinessCache,
	statsSvc StatsServiceInterface,
	kafkaProducer infrastructure.MessagePublisher,
) *ReviewService {
	return &ReviewService{
		reviewRepo:    reviewRepo,
		businessRepo:  businessRepo,
		businessCache: businessCache,
		statsSvc:      statsSvc,
		kafkaProducer: kafkaProducer,
	}
}

// CreateReview создает новый отзыв
// 1. Валидирует содержимое (оценка, длина текста, изображения)
// 2. Проверяет что бизнес существует и видим
// 3. Сохраняет в MongoDB - дубликат от того же пользователя отклонит
//    уникальный индекс, проверки "существует ли уже" перед записью нет
// 4. Пересчитывает статистику (неудача не откатывает отзыв)
// 5. Отправляет событие REVIEW_CREATED в Kafka
func (s *ReviewService) CreateReview(ctx context.Context, identity entity.Identity, req *entity.CreateReviewRequest) (*entity.SubmitReviewResponse, error) {
	if err := ValidateSubmission(req); err != nil {
		return nil, err
	}

	business, err := s.resolveBusiness(ctx, req.BusinessID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	review := &entity.Review{
		BusinessID:       business.ID.String(),
		BusinessCategory: business.Category,
		Rating:           int(req.Rating),
		Title:            strings.TrimSpace(req.Title),
		Body:             strings.TrimSpace(req.Body),
		Tags:             normalizeTags(req.Tags),
		Images:           toImageRefs(req.Images),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	identityLabel := "anonymous"
	if identity.IsAuthenticated() {
		review.AuthorUserID = identity.UserID()
		identityLabel = "authenticated"
	} else {
		// Токен чеканится сервером, клиент его не присылает
		review.AnonymousToken = uuid.New().String()
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicateReview) {
			metrics.ReviewsDuplicatesRejected.Inc()
			return nil, ErrDuplicateReview
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	metrics.ReviewsCreated.WithLabelValues(identityLabel).Inc()
	metrics.ReviewsRating.Observe(float64(review.Rating))

	// Отзыв уже закоммичен - неудачный пересчёт не откатывает его,
	// статистика догонит через событие или repair sweep
	stats, err := s.statsSvc.RecomputeWithRetry(ctx, review.BusinessID)
	if err != nil {
		logger.Error().Err(err).Str("business_id", review.BusinessID).Msg("Failed to recompute stats after review creation")
		stats, _ = s.statsSvc.GetStats(ctx, review.BusinessID)
	}

	s.publishEvent(ctx, entity.EventTypeReviewCreated, review)

	return &entity.SubmitReviewResponse{Review: review, Stats: stats}, nil
}

// GetReviewsByBusiness получает все отзывы бизнеса
// Использует индекс business_id для быстрой выборки
func (s *ReviewService) GetReviewsByBusiness(ctx context.Context, businessID string) ([]entity.Review, error) {
	reviews, err := s.reviewRepo.GetByBusinessID(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews: %w", err)
	}

	return reviews, nil
}

// GetReview получает отзыв по ID
func (s *ReviewService) GetReview(ctx context.Context, reviewID string) (*entity.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	return review, nil
}

// UpdateReview обновляет отзыв с проверкой прав доступа
// Анонимные отзывы неизменяемы: предъявить авторство некому
func (s *ReviewService) UpdateReview(ctx context.Context, reviewID string, identity entity.Identity, req *entity.UpdateReviewRequest) (*entity.Review, error) {
	if err := ValidateUpdate(req); err != nil {
		return nil, err
	}

	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	if !identity.IsAuthenticated() || review.AuthorUserID != identity.UserID() {
		return nil, ErrForbidden
	}

	// Обновляем только переданные поля
	if req.Rating != 0 {
		review.Rating = int(req.Rating)
	}
	if req.Title != nil {
		review.Title = strings.TrimSpace(*req.Title)
	}
	if req.Body != nil {
		review.Body = strings.TrimSpace(*req.Body)
	}
	if req.Tags != nil {
		review.Tags = normalizeTags(req.Tags)
	}
	review.UpdatedAt = time.Now().UTC()

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}

	if _, err := s.statsSvc.RecomputeWithRetry(ctx, review.BusinessID); err != nil {
		logger.Error().Err(err).Str("business_id", review.BusinessID).Msg("Failed to recompute stats after review update")
	}

	s.publishEvent(ctx, entity.EventTypeReviewUpdated, review)

	return review, nil
}

// DeleteReview удаляет отзыв с проверкой прав доступа
// Статистика пересчитывается после удаления - оценка исчезает из
// распределения и среднего
func (s *ReviewService) DeleteReview(ctx context.Context, reviewID string, identity entity.Identity) error {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("failed to get review: %w", err)
	}

	if !identity.IsAuthenticated() || review.AuthorUserID != identity.UserID() {
		return ErrForbidden
	}

	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	metrics.ReviewsDeleted.Inc()

	if _, err := s.statsSvc.RecomputeWithRetry(ctx, review.BusinessID); err != nil {
		logger.Error().Err(err).Str("business_id", review.BusinessID).Msg("Failed to recompute stats after review deletion")
	}

	s.publishEvent(ctx, entity.EventTypeReviewDeleted, review)

	return nil
}

// VoteHelpful увеличивает счетчик "полезно" на отзыве
// Голос атомарный ($inc), голосовать может кто угодно, включая анонимов
func (s *ReviewService) VoteHelpful(ctx context.Context, reviewID string) (*entity.Review, error) {
	review, err := s.reviewRepo.IncrementHelpfulVotes(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to vote helpful: %w", err)
	}

	metrics.HelpfulVotes.Inc()
	s.publishEvent(ctx, entity.EventTypeReviewVoted, review)

	return review, nil
}

// GetUserReviews получает все отзывы пользователя
func (s *ReviewService) GetUserReviews(ctx context.Context, userID string) ([]entity.Review, error) {
	reviews, err := s.reviewRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user reviews: %w", err)
	}

	return reviews, nil
}

// resolveBusiness находит бизнес через Redis-кеш с фоллбэком на PostgreSQL
// Невидимый бизнес для клиента неотличим от несуществующего
func (s *ReviewService) resolveBusiness(ctx context.Context, businessID string) (*entity.Business, error) {
	id, err := uuid.Parse(businessID)
	if err != nil {
		return nil, ErrBusinessNotFound
	}

	if s.businessCache != nil {
		cached, err := s.businessCache.GetBusiness(ctx, businessID)
		if err != nil {
			logger.Warn().Err(err).Str("business_id", businessID).Msg("Business cache read failed")
		} else if cached != nil {
			if !cached.Visible {
				return nil, ErrBusinessNotFound
			}
			return cached, nil
		}
	}

	business, err := s.businessRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBusinessNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, fmt.Errorf("failed to get business: %w", err)
	}

	if s.businessCache != nil {
		if err := s.businessCache.SetBusiness(ctx, business, businessCacheTTL); err != nil {
			logger.Warn().Err(err).Str("business_id", businessID).Msg("Business cache write failed")
		}
	}

	if !business.Visible {
		return nil, ErrBusinessNotFound
	}

	return business, nil
}

// publishEvent отправляет событие об отзыве в Kafka
// Логируем ошибку, но не прерываем выполнение - мутация уже закоммичена,
// проблемы с Kafka не критичны
func (s *ReviewService) publishEvent(ctx context.Context, eventType string, review *entity.Review) {
	if s.kafkaProducer == nil {
		return
	}

	event := &entity.ReviewEvent{
		EventType:  eventType,
		ReviewID:   review.ID.Hex(),
		BusinessID: review.BusinessID,
		UserID:     review.AuthorUserID,
		Rating:     review.Rating,
		Timestamp:  time.Now().UTC(),
	}

	if err := s.kafkaProducer.PublishReviewEvent(ctx, event); err != nil {
		logger.Error().Err(err).Str("event_type", eventType).Str("review_id", event.ReviewID).Msg("Failed to publish review event")
	}
}

func toImageRefs(images []entity.ImageRefRequest) []entity.ImageRef {
	if len(images) == 0 {
		return nil
	}

	refs := make([]entity.ImageRef, 0, len(images))
	for _, img := range images {
		refs = append(refs, entity.ImageRef{Ref: img.Ref, SizeBytes: img.SizeBytes})
	}

	return refs
}
