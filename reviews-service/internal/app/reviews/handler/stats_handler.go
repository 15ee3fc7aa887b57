package handler

import (
	"errors"
	"net/http"
	"time"

	"placepulse/pkg/logger"
	"placepulse/reviews-service/internal/app/reviews/entity"
	"placepulse/reviews-service/internal/app/reviews/service"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	statsService      service.StatsServiceInterface
	percentileService service.PercentileServiceInterface
}

func NewStatsHandler(
	statsService service.StatsServiceInterface,
	percentileService service.PercentileServiceInterface,
) *StatsHandler {
	return &StatsHandler{
		statsService:      statsService,
		percentileService: percentileService,
	}
}

// GetBusinessStats обрабатывает GET /businesses/:business_id/stats
// Отдает агрегаты вместе с перцентилями по измерениям
// Бизнес без отзывов получает нули и nil среднее, а не 404
func (h *StatsHandler) GetBusinessStats(c *gin.Context) {
	businessID := c.Param("business_id")
	if businessID == "" {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Code:    entity.CodeValidationFailed,
			Message: "Business ID is required",
		})
		return
	}

	stats, err := h.statsService.GetStats(c.Request.Context(), businessID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{
			Code:    entity.CodeInternal,
			Message: "Failed to get business stats",
		})
		return
	}

	percentiles, err := h.percentileService.Percentiles(c.Request.Context(), businessID)
	if err != nil {
		if errors.Is(err, service.ErrBusinessNotFound) {
			c.JSON(http.StatusNotFound, entity.ErrorResponse{
				Code:    entity.CodeNotFound,
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{
			Code:    entity.CodeInternal,
			Message: "Failed to compute percentiles",
		})
		return
	}

	response := entity.BusinessStatsResponse{
		BusinessID:         businessID,
		TotalReviews:       stats.TotalReviews,
		AverageRating:      stats.AverageRating,
		RatingDistribution: stats.RatingDistribution,
		Percentiles:        percentiles,
	}
	if !stats.RecomputedAt.IsZero() {
		response.RecomputedAt = stats.RecomputedAt.Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, response)
}

// RecomputeBusinessStats обрабатывает POST /internal/stats/:business_id/recompute
// Служебный endpoint для background worker, защищен InternalAuth
func (h *StatsHandler) RecomputeBusinessStats(c *gin.Context) {
	businessID := c.Param("business_id")
	if businessID == "" {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Code:    entity.CodeValidationFailed,
			Message: "Business ID is required",
		})
		return
	}

	stats, err := h.statsService.Recompute(c.Request.Context(), businessID)
	if err != nil {
		logger.Error().Err(err).Str("business_id", businessID).Msg("Internal stats recompute failed")
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{
			Code:    entity.CodeInternal,
			Message: "Failed to recompute stats",
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// RecomputeAllStats обрабатывает POST /internal/stats/recompute-all
// Repair sweep: полный пересчёт всех видимых бизнесов
func (h *StatsHandler) RecomputeAllStats(c *gin.Context) {
	recomputed, err := h.statsService.RecomputeAll(c.Request.Context())
	if err != nil {
		logger.Error().Err(err).Msg("Full stats recompute failed")
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{
			Code:    entity.CodeInternal,
			Message: "Failed to recompute stats",
		})
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{
		Message: "Stats recomputed",
		Data:    gin.H{"recomputed": recomputed},
	})
}
