package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/studyswaps/learning-service/internal/services"
	"github.com/studyswaps/learning-service/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AssessmentHandler struct {
	BaseHandler
	assessmentService services.AssessmentService
}

func NewAssessmentHandler(assessmentService services.AssessmentService, logger utils.Logger) *AssessmentHandler {
	return &AssessmentHandler{
		BaseHandler:       NewBaseHandler(logger),
		assessmentService: assessmentService,
	}
}

// GenerateAssessment asks the AI provider for a new question set and stores it
// @Summary Generate assessment
// @Tags assessments
// @Accept json
// @Produce json
// @Param body body services.GenerateAssessmentRequest true "Subject, topic, key stage, count"
// @Success 201 {object} services.AssessmentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /assessments/generate [post]
func (h *AssessmentHandler) GenerateAssessment(c *gin.Context) {
	var req services.GenerateAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Generating assessment", "subject", req.Subject, "key_stage", req.KeyStage)

	assessment, err := h.assessmentService.Generate(c.Request.Context(), user.ID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, assessment)
}

// SubmitAssessment scores the caller's answers
// @Summary Submit assessment
// @Tags assessments
// @Param id path string true "Assessment ID"
// @Success 200 {object} scoring.Result
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /assessments/{id}/submit [post]
func (h *AssessmentHandler) SubmitAssessment(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req services.SubmitAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Submitting assessment", "assessment_id", id, "answers", len(req.UserAnswers))

	result, err := h.assessmentService.Submit(c.Request.Context(), user.ID, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListAssessments returns the caller's assessments, newest first
// @Summary List assessments
// @Tags assessments
// @Param subject query string false "Filter by subject"
// @Param completed query bool false "Filter by completion"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Router /assessments [get]
func (h *AssessmentHandler) ListAssessments(c *gin.Context) {
	var req services.AssessmentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid query parameters", err, err.Error())
		return
	}

	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	assessments, err := h.assessmentService.List(c.Request.Context(), user.ID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, assessments)
}

// GetAssessment returns one owned assessment
// @Summary Get assessment
// @Tags assessments
// @Param id path string true "Assessment ID"
// @Router /assessments/{id} [get]
func (h *AssessmentHandler) GetAssessment(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	assessment, err := h.assessmentService.Get(c.Request.Context(), user.ID, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, assessment)
}

// ExportAssessments downloads the caller's history as a workbook
// @Summary Export assessments
// @Tags assessments
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Router /assessments/export [get]
func (h *AssessmentHandler) ExportAssessments(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	data, err := h.assessmentService.Export(c.Request.Context(), user.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("assessments-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
