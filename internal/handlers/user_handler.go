package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studyswaps/learning-service/internal/services"
	"github.com/studyswaps/learning-service/internal/utils"
)

type UserHandler struct {
	BaseHandler
	statsService services.StatsService
}

func NewUserHandler(statsService services.StatsService, logger utils.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler:  NewBaseHandler(logger),
		statsService: statsService,
	}
}

// GetStats returns the caller's running totals; zeros before the first completion
// @Summary User stats
// @Tags users
// @Success 200 {object} services.StatsResponse
// @Router /users/stats [get]
func (h *UserHandler) GetStats(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	stats, err := h.statsService.GetStats(c.Request.Context(), user.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ListChildren returns a parent's children with their stats
// @Summary Children overview
// @Tags users
// @Success 200 {array} services.ChildOverview
// @Failure 403 {object} ErrorResponse
// @Router /users/children [get]
func (h *UserHandler) ListChildren(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	children, err := h.statsService.ListChildren(c.Request.Context(), user.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, children)
}
