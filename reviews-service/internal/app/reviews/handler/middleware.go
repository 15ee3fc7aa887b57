package handler

import (
	"net/http"
	"strings"

	"placepulse/reviews-service/internal/app/reviews/entity"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// JWTClaims структура claims для JWT токена
type JWTClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// AuthMiddleware проверяет JWT токен в запросах для Gin
// Identity кладется в контекст под ключом "identity"
type AuthMiddleware struct {
	jwtSecret     string
	internalToken string
}

// NewAuthMiddleware создает новый middleware для аутентификации
func NewAuthMiddleware(jwtSecret, internalToken string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret:     jwtSecret,
		internalToken: internalToken,
	}
}

// OptionalAuth разбирает JWT если он есть, но пускает и без него
// Отзывы можно оставлять анонимно: отсутствие заголовка - это
// анонимная identity, а вот предъявленный невалидный токен - 401
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Set("identity", entity.Anonymous())
			c.Next()
			return
		}

		identity, ok := m.parseToken(c, authHeader)
		if !ok {
			return
		}

		c.Set("identity", identity)
		c.Next()
	}
}

// RequireAuth требует валидный JWT токен
// Используется на операциях, доступных только автору (PATCH/DELETE)
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, entity.ErrorResponse{
				Code:    entity.CodeForbidden,
				Message: "Authorization header required",
			})
			c.Abort()
			return
		}

		identity, ok := m.parseToken(c, authHeader)
		if !ok {
			return
		}

		c.Set("identity", identity)
		c.Next()
	}
}

// InternalAuth защищает служебные endpoints (пересчёт статистики)
// Ходит по ним только background worker со статическим токеном
func (m *AuthMiddleware) InternalAuth() gin.HandlerFunc {
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

// parseToken валидирует заголовок Authorization и строит identity
// При ошибке пишет 401 и абортит запрос
func (m *AuthMiddleware) parseToken(c *gin.Context, authHeader string) (entity.Identity, bool) {
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.JSON(http.StatusUnauthorized, entity.ErrorResponse{
			Code:    entity.CodeForbidden,
			Message: "Invalid authorization header format",
		})
		c.Abort()
		return entity.Identity{}, false
	}

	token, err := jwt.ParseWithClaims(parts[1], &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(m.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		c.JSON(http.StatusUnauthorized, entity.ErrorResponse{
			Code:    entity.CodeForbidden,
			Message: "Invalid or expired token",
		})
		c.Abort()
		return entity.Identity{}, false
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || claims.UserID == "" {
		c.JSON(http.StatusUnauthorized, entity.ErrorResponse{
			Code:    entity.CodeForbidden,
			Message: "Invalid token claims",
		})
		c.Abort()
		return entity.Identity{}, false
	}

	return entity.Authenticated(claims.UserID), true
}

// identityFromContext достает identity, сохранённую middleware
func identityFromContext(c *gin.Context) entity.Identity {
	value, exists := c.Get("identity")
	if !exists {
		return entity.Anonymous()
	}

	identity, ok := value.(entity.Identity)
	if !ok {
		return entity.Anonymous()
	}

	return identity
}
