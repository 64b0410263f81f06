package handlers

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/studyswaps/learning-service/internal/cache"
	"github.com/studyswaps/learning-service/internal/models"
	"github.com/studyswaps/learning-service/internal/services"
	"github.com/studyswaps/learning-service/internal/utils"
)

// AuthCookieName carries the session token for browser clients
const AuthCookieName = "auth_token"

// ===== AUTHENTICATION =====

// AuthMiddleware accepts a bearer token or the auth cookie and loads the active user
func AuthMiddleware(authService services.AuthService, logger utils.Logger) gin.HandlerFunc {
	base := NewBaseHandler(logger)

	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			base.RespondWithError(c, http.StatusUnauthorized, "Authentication required", nil)
			return
		}

		user, err := authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			base.handleServiceError(c, err)
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextUser, user)
		c.Set(ContextUserRole, string(user.Role))
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := c.Cookie(AuthCookieName); err == nil {
		return cookie
	}
	return ""
}

// RequireRole must run after AuthMiddleware
func RequireRole(logger utils.Logger, roles ...models.UserRole) gin.HandlerFunc {
	base := NewBaseHandler(logger)

	return func(c *gin.Context) {
		role := models.UserRole(c.GetString(ContextUserRole))
		if !slices.Contains(roles, role) {
			base.RespondWithError(c, http.StatusForbidden, "Insufficient permissions", nil)
			return
		}
		c.Next()
	}
}

// ===== CORS =====

// CORSMiddleware answers preflight requests with 204 and decorates the rest
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	handler := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", utils.RequestIDHeader},
		ExposedHeaders:   []string{utils.RequestIDHeader, "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           600,
	})

	return func(c *gin.Context) {
		handler.HandlerFunc(c.Writer, c.Request)
		if c.Request.Method == http.MethodOptions && c.GetHeader("Access-Control-Request-Method") != "" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// ===== RATE LIMITING =====

type RateLimitRule struct {
	Name    string
	Limit   int
	Window  time.Duration
	Message string
}

// RateLimitMiddleware counts requests per client IP in fixed windows. A nil limiter or a
// limiter error lets the request through.
func RateLimitMiddleware(limiter cache.RateLimiter, rule RateLimitRule, logger utils.Logger) gin.HandlerFunc {
	base := NewBaseHandler(logger)

	return func(c *gin.Context) {
		if limiter == nil || rule.Limit <= 0 {
			c.Next()
			return
		}

		key := rule.Name + ":" + c.ClientIP()
		result, err := limiter.Allow(c.Request.Context(), key, rule.Limit, rule.Window)
		if err != nil {
			base.LogWarn(c, "Rate limiter unavailable", "rule", rule.Name, "error", err.Error())
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		if !result.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(result.ResetIn.Seconds())))
			base.RespondWithError(c, http.StatusTooManyRequests, rule.Message, nil)
			return
		}
		c.Next()
	}
}
