package handler

import (
	"context"
	"errors"
	"net/http"

	"placepulse/reviews-service/internal/app/reviews/entity"
	"placepulse/reviews-service/internal/app/reviews/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type ReviewServiceInterface interface {
	CreateReview(ctx context.Context, identity entity.Identity, req *entity.CreateReviewRequest) (*entity.SubmitReviewResponse, error)
	GetReviewsByBusiness(ctx context.Context, businessID string) ([]entity.Review, error)
	GetReview(ctx context.Context, reviewID string) (*entity.Review, error)
	UpdateReview(ctx context.Context, reviewID string, identity entity.Identity, req *entity.UpdateReviewRequest) (*entity.Review, error)
	DeleteReview(ctx context.Context, reviewID string, identity entity.Identity) error
	VoteHelpful(ctx context.Context, reviewID string) (*entity.Review, error)
	GetUserReviews(ctx context.Context, userID string) ([]entity.Review, error)
}

type ReviewHandler struct {
	reviewService ReviewServiceInterface
	validator     *validator.Validate
}

func NewReviewHandler(reviewService ReviewServiceInterface) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		validator:     validator.New(),
	}
}

// CreateReview обрабатывает POST /reviews
// Работает и для анонимов: identity кладет OptionalAuth middleware
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var req entity.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Code:    entity.CodeValidationFailed,
			Message: "Invalid request body",
		})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Code:    entity.CodeValidationFailed,
			Message: formatValidationError(err),
		})
		return
	}

	response, err := h.reviewService.CreateReview(c.Request.Context(), identityFromContext(c), &req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// GetReviewsByBusiness обрабатывает GET /businesses/:business_id/reviews
func (h *ReviewHandler) GetReviewsByBusiness(c *gin.Context) {
	businessID := c.Param("business_id")
	if businessID == "" {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Code:    entity.CodeValidationFailed,
			Message: "Business ID is required",
		})
		return
	}

	reviews, err := h.reviewService.GetReviewsByBusiness(c.Request.Context(), businessID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.ReviewListResponse{
		Reviews: reviews,
		Total:   len(reviews),
	})
}

// UpdateReview обрабатывает PATCH /reviews/:review_id
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	reviewID := c.Param("review_id")
	if reviewID == "" {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Code:    entity.CodeValidationFailed,
			Message: "Review ID is required",
		})
		return
	}

	var req entity.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Code:    entity.CodeValidationFailed,
			Message: "Invalid request body",
		})
		return
	}

	review, err := h.reviewService.UpdateReview(c.Request.Context(), reviewID, identityFromContext(c), &req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// DeleteReview обрабатывает DELETE /reviews/:review_id
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	reviewID := c.Param("review_id")
	if reviewID == "" {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Code:    entity.CodeValidationFailed,
			Message: "Review ID is required",
		})
		return
	}

	if err := h.reviewService.DeleteReview(c.Request.Context(), reviewID, identityFromContext(c)); err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{
		Message: "Review deleted successfully",
	})
}

// VoteHelpful обрабатывает POST /reviews/:review_id/helpful
// Авторизация не требуется
func (h *ReviewHandler) VoteHelpful(c *gin.Context) {
	reviewID := c.Param("review_id")
	if reviewID == "" {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Code:    entity.CodeValidationFailed,
			Message: "Review ID is required",
		})
		return
	}

	review, err := h.reviewService.VoteHelpful(c.Request.Context(), reviewID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// GetUserReviews обрабатывает GET /users/:user_id/reviews
func (h *ReviewHandler) GetUserReviews(c *gin.Context) {
	userID := c.Param("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Code:    entity.CodeValidationFailed,
			Message: "User ID is required",
		})
		return
	}

	reviews, err := h.reviewService.GetUserReviews(c.Request.Context(), userID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.ReviewListResponse{
		Reviews: reviews,
		Total:   len(reviews),
	})
}

// writeServiceError отображает ошибки сервисного слоя на HTTP статусы и коды
// Тексты ошибок валидации уходят клиенту как есть
func (h *ReviewHandler) writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidRating):
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Code:    entity.CodeInvalidRating,
			Message: err.Error(),
		})
	case errors.Is(err, service.ErrBodyTooShort):
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Code:    entity.CodeValidationFailed,
			Message: err.Error(),
		})
	case errors.Is(err, service.ErrTooManyImages), errors.Is(err, service.ErrImageTooLarge):
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Code:    entity.CodeSizeLimitExceeded,
			Message: err.Error(),
		})
	case errors.Is(err, service.ErrDuplicateReview):
		c.JSON(http.StatusConflict, entity.ErrorResponse{
			Code:    entity.CodeDuplicate,
			Message: err.Error(),
		})
	case errors.Is(err, service.ErrReviewNotFound), errors.Is(err, service.ErrBusinessNotFound):
		c.JSON(http.StatusNotFound, entity.ErrorResponse{
			Code:    entity.CodeNotFound,
			Message: err.Error(),
		})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, entity.ErrorResponse{
			Code:    entity.CodeForbidden,
			Message: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{
			Code:    entity.CodeInternal,
			Message: "Internal server error",
		})
	}
}

func formatValidationError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			return fieldError.Field() + " is " + fieldError.Tag()
		}
	}
	return "Validation failed"
}
