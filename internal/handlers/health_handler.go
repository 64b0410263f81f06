package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/studyswaps/learning-service/internal/utils"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	BaseHandler
	db Pinger
}

func NewHealthHandler(db Pinger, logger utils.Logger) *HealthHandler {
	return &HealthHandler{
		BaseHandler: NewBaseHandler(logger),
		db:          db,
	}
}

// HealthCheck reports service and database status; 503 when the database is down
// @Summary Health check
// @Tags health
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status, dbStatus, code := "healthy", "connected", http.StatusOK
	if err := h.db.Ping(ctx); err != nil {
		h.LogError(c, err, "Database health check failed")
		status, dbStatus, code = "unhealthy", "disconnected", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"database":  dbStatus,
	})
}
