package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studyswaps/learning-service/internal/models"
	"github.com/studyswaps/learning-service/internal/services"
	"github.com/studyswaps/learning-service/internal/utils"
)

// Context keys set by AuthMiddleware
const (
	ContextUserID   = "user_id"
	ContextUser     = "user"
	ContextUserRole = "user_role"
)

// ===== COMMON RESPONSE STRUCTURES =====

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ===== BASE HANDLER STRUCT =====

// BaseHandler provides common logging functionality for all handlers
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{
		logger: logger,
	}
}

func (h *BaseHandler) log(c *gin.Context) utils.Logger {
	return utils.GetLoggerFromContext(c, h.logger)
}

// LogRequest logs incoming HTTP requests with context information
func (h *BaseHandler) LogRequest(c *gin.Context, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"remote_addr", c.ClientIP(),
		"user_id", c.GetString(ContextUserID),
	}
	fields = append(fields, additionalFields...)

	h.log(c).Info(message, fields...)
}

// LogError logs error details with context information
func (h *BaseHandler) LogError(c *gin.Context, err error, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"user_id", c.GetString(ContextUserID),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	}
	fields = append(fields, additionalFields...)

	h.log(c).LogError(err, message, fields...)
}

// LogWarn logs warning messages with context
func (h *BaseHandler) LogWarn(c *gin.Context, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"user_id", c.GetString(ContextUserID),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	}
	fields = append(fields, additionalFields...)

	h.log(c).Warn(message, fields...)
}

// RespondWithError sends a consistent error response and logs it
func (h *BaseHandler) RespondWithError(c *gin.Context, statusCode int, message string, err error, details ...interface{}) {
	h.respond(c, statusCode, ErrorResponse{Message: message}, err, details...)
}

func (h *BaseHandler) respond(c *gin.Context, statusCode int, resp ErrorResponse, err error, details ...interface{}) {
	if len(details) > 0 {
		resp.Details = details[0]
	}

	switch {
	case statusCode >= http.StatusInternalServerError:
		h.LogError(c, err, resp.Message, "status_code", statusCode)
	case err != nil:
		h.LogWarn(c, resp.Message, "status_code", statusCode, "error", err.Error())
	default:
		h.LogWarn(c, resp.Message, "status_code", statusCode)
	}

	c.AbortWithStatusJSON(statusCode, resp)
}

// handleServiceError maps service errors onto status codes. Stack traces and store
// details never reach the client.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		h.respond(c, http.StatusBadRequest, ErrorResponse{Message: "Validation failed", Code: "VALIDATION_FAILED"}, err, validationErrors)
		return
	}

	var permissionError *services.PermissionError
	if errors.As(err, &permissionError) {
		h.respond(c, http.StatusForbidden, ErrorResponse{Message: "Insufficient permissions", Code: "FORBIDDEN"}, err,
			map[string]interface{}{
				"resource": permissionError.Resource,
				"action":   permissionError.Action,
				"reason":   permissionError.Reason,
			})
		return
	}

	status, resp := classifyError(err)
	h.respond(c, status, resp, err)
}

func classifyError(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, services.ErrAnswerCountMismatch):
		return http.StatusBadRequest, ErrorResponse{Message: "Answer count does not match question count", Code: "ANSWER_COUNT_MISMATCH"}
	case errors.Is(err, services.ErrFileTooLarge):
		return http.StatusBadRequest, ErrorResponse{Message: "File too large", Code: "FILE_TOO_LARGE"}
	case errors.Is(err, services.ErrUnsupportedFileType):
		return http.StatusBadRequest, ErrorResponse{Message: "Unsupported file type", Code: "UNSUPPORTED_FILE_TYPE"}
	case errors.Is(err, services.ErrValidationFailed), errors.Is(err, services.ErrInvalidGenerationRequest):
		return http.StatusBadRequest, ErrorResponse{Message: "Validation failed", Code: "VALIDATION_FAILED"}

	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized, ErrorResponse{Message: "Invalid credentials", Code: "INVALID_CREDENTIALS"}
	case errors.Is(err, services.ErrUserInactive):
		return http.StatusUnauthorized, ErrorResponse{Message: "User not found or inactive", Code: "UNAUTHORIZED"}
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusUnauthorized, ErrorResponse{Message: "Invalid token", Code: "UNAUTHORIZED"}
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden, ErrorResponse{Message: "Insufficient permissions", Code: "FORBIDDEN"}

	case errors.Is(err, services.ErrAssessmentNotFound):
		return http.StatusNotFound, ErrorResponse{Message: "Assessment not found", Code: "NOT_FOUND"}
	case errors.Is(err, services.ErrUploadNotFound):
		return http.StatusNotFound, ErrorResponse{Message: "Upload not found", Code: "NOT_FOUND"}
	case errors.Is(err, services.ErrUserNotFound):
		return http.StatusNotFound, ErrorResponse{Message: "User not found", Code: "NOT_FOUND"}

	case errors.Is(err, services.ErrAlreadyCompleted):
		return http.StatusConflict, ErrorResponse{Message: "Assessment already completed", Code: "ALREADY_COMPLETED"}
	case errors.Is(err, services.ErrEmailTaken):
		return http.StatusConflict, ErrorResponse{Message: "User already exists with this email", Code: "EMAIL_TAKEN"}

	case errors.Is(err, services.ErrGenerationFailed):
		return http.StatusInternalServerError, ErrorResponse{Message: "Failed to generate content", Code: "GENERATION_FAILED"}
	default:
		return http.StatusInternalServerError, ErrorResponse{Message: "Internal server error", Code: "INTERNAL_ERROR"}
	}
}

// currentUser reads what AuthMiddleware stored; a missing user aborts with 401
func (h *BaseHandler) currentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(ContextUser)
	user, ok := value.(*models.User)
	if !exists || !ok {
		h.RespondWithError(c, http.StatusUnauthorized, "User not authenticated", nil)
		return nil, false
	}
	return user, true
}
