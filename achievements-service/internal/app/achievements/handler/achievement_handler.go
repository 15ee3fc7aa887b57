package handler

import (
	"context"
	"net/http"
	"strconv"

	"placepulse/achievements-service/internal/app/achievements/entity"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type BadgeServiceInterface interface {
	CheckAndAward(ctx context.Context, userID string) (*entity.CheckResponse, error)
	GetUserBadges(ctx context.Context, userID string) (*entity.UserBadgesResponse, error)
}

type LeaderboardServiceInterface interface {
	TopReviewers(ctx context.Context, limit int) (*entity.LeaderboardResponse, error)
}

type AchievementHandler struct {
	badgeService       BadgeServiceInterface
	leaderboardService LeaderboardServiceInterface
	validator          *validator.Validate
}

func NewAchievementHandler(
	badgeService BadgeServiceInterface,
	leaderboardService LeaderboardServiceInterface,
) *AchievementHandler {
	return &AchievementHandler{
		badgeService:       badgeService,
		leaderboardService: leaderboardService,
		validator:          validator.New(),
	}
}

// CheckAchievements обрабатывает POST /achievements/check
// Вызывается background worker-ом после событий отзывов; защищен InternalAuth
func (h *AchievementHandler) CheckAchievements(c *gin.Context) {
	var req entity.CheckRequest
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
			Message: "user_id is required",
		})
		return
	}

	result, err := h.badgeService.CheckAndAward(c.Request.Context(), req.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{
			Code:    entity.CodeInternal,
			Message: "Failed to check achievements",
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetUserBadges обрабатывает GET /users/:user_id/badges
func (h *AchievementHandler) GetUserBadges(c *gin.Context) {
	userID := c.Param("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Code:    entity.CodeValidationFailed,
			Message: "User ID is required",
		})
		return
	}

	result, err := h.badgeService.GetUserBadges(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{
			Code:    entity.CodeInternal,
			Message: "Failed to get user badges",
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetLeaderboard обрабатывает GET /leaderboard/reviewers?limit=N
// Всегда свежий расчет по текущим данным
func (h *AchievementHandler) GetLeaderboard(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, entity.ErrorResponse{
				Code:    entity.CodeValidationFailed,
				Message: "limit must be a non-negative integer",
			})
			return
		}
		limit = parsed
	}

	result, err := h.leaderboardService.TopReviewers(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{
			Code:    entity.CodeInternal,
			Message: "Failed to build leaderboard",
		})
		return
	}

	c.JSON(http.StatusOK, result)
}
