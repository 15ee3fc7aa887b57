package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"placepulse/pkg/logger"
	"placepulse/pkg/metrics"
)

// SetupRoutes настраивает все маршруты приложения с использованием Gin
func SetupRoutes(
	reviewHandler *ReviewHandler,
	statsHandler *StatsHandler,
	authMiddleware *AuthMiddleware,
) *gin.Engine {
	router := gin.New()

	// Recovery middleware для обработки panic
	router.Use(gin.Recovery())

	// JSON logging middleware для HTTP-запросов (ELK Stack)
	router.Use(logger.GinLoggerMiddleware())

	// Prometheus metrics middleware
	router.Use(metrics.GinPrometheusMiddleware("reviews-service"))

	// CORS настройки
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposeHeaders:    []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "reviews-service",
		})
	})

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	reviews := router.Group("/reviews")
	{
		// Создание и голос доступны анонимам
		reviews.POST("", authMiddleware.OptionalAuth(), reviewHandler.CreateReview)
		reviews.POST("/:review_id/helpful", reviewHandler.VoteHelpful)

		// Изменять и удалять может только автор
		protected := reviews.Group("")
		protected.Use(authMiddleware.RequireAuth())
		{
			protected.PATCH("/:review_id", reviewHandler.UpdateReview)
			protected.DELETE("/:review_id", reviewHandler.DeleteReview)
		}
	}

	businesses := router.Group("/businesses")
	{
		businesses.GET("/:business_id/reviews", reviewHandler.GetReviewsByBusiness)
		businesses.GET("/:business_id/stats", statsHandler.GetBusinessStats)
	}

	router.GET("/users/:user_id/reviews", reviewHandler.GetUserReviews)

	// Служебные endpoints для background worker
	internal := router.Group("/internal")
	internal.Use(authMiddleware.InternalAuth())
	{
		internal.POST("/stats/recompute-all", statsHandler.RecomputeAllStats)
		internal.POST("/stats/:business_id/recompute", statsHandler.RecomputeBusinessStats)
	}

	return router
}
