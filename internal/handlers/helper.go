package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ParseStringIDParam reads a uuid path parameter. An empty id aborts with 400; a malformed one
// cannot name any stored row and aborts with 404 like any other unknown id.
func ParseStringIDParam(c *gin.Context, param string) string {
	idStr := strings.TrimSpace(c.Param(param))
	if idStr == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "ID cannot be empty",
		})
		return ""
	}
	if _, err := uuid.Parse(idStr); err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, ErrorResponse{
			Message: "Resource not found",
			Code:    "NOT_FOUND",
		})
		return ""
	}
	return idStr
}
