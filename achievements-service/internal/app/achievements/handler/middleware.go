package handler

import (
	"net/http"

	"placepulse/achievements-service/internal/app/achievements/entity"

	"github.com/gin-gonic/gin"
)

// InternalAuthMiddleware защищает служебные endpoints статическим токеном
// По ним ходит только background worker
type InternalAuthMiddleware struct {
	internalToken string
}

// NewInternalAuthMiddleware создает middleware внутренней аутентификации
func NewInternalAuthMiddleware(internalToken string) *InternalAuthMiddleware {
	return &InternalAuthMiddleware{internalToken: internalToken}
}

// Authenticate проверяет заголовок X-Internal-Token
func (m *InternalAuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("X-Internal-Token")
		if token == "" || token != m.internalToken {
			c.JSON(http.StatusUnauthorized, entity.ErrorResponse{
				Code:    entity.CodeForbidden,
				Message: "Invalid internal token",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
