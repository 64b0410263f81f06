package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studyswaps/learning-service/internal/services"
	"github.com/studyswaps/learning-service/internal/utils"
)

type RevisionHandler struct {
	BaseHandler
	revisionService services.RevisionService
}

func NewRevisionHandler(revisionService services.RevisionService, logger utils.Logger) *RevisionHandler {
	return &RevisionHandler{
		BaseHandler:     NewBaseHandler(logger),
		revisionService: revisionService,
	}
}

// UploadFile stores a text-like study file from the multipart field "file"
// @Summary Upload study material
// @Tags uploads
// @Accept multipart/form-data
// @Param file formData file true "Text file"
// @Param subject formData string false "Subject"
// @Param topic formData string false "Topic"
// @Success 201 {object} models.FileUpload
// @Router /uploads [post]
func (h *RevisionHandler) UploadFile(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	// room for multipart framing on top of the file itself
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, services.MaxUploadBytes+64<<10)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.handleServiceError(c, services.ErrFileTooLarge)
			return
		}
		h.RespondWithError(c, http.StatusBadRequest, "No file uploaded", err)
		return
	}

	file, err := header.Open()
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Unreadable file", err)
		return
	}
	defer file.Close()

	// one byte past the limit lets the service reject oversized files
	content, err := io.ReadAll(io.LimitReader(file, services.MaxUploadBytes+1))
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Unreadable file", err)
		return
	}

	upload, err := h.revisionService.Upload(c.Request.Context(), user.ID, &services.UploadRequest{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Subject:     c.PostForm("subject"),
		Topic:       c.PostForm("topic"),
		Content:     content,
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, upload)
}

// ListUploads returns the caller's uploads, newest first
// @Summary List uploads
// @Tags uploads
// @Router /uploads [get]
func (h *RevisionHandler) ListUploads(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	uploads, err := h.revisionService.ListUploads(c.Request.Context(), user.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, uploads)
}

// GenerateGuide writes AI revision notes, optionally grounded on an upload
// @Summary Generate revision guide
// @Tags revision-guides
// @Param body body services.RevisionGuideRequest true "Guide request"
// @Success 201 {object} models.RevisionGuide
// @Router /revision-guides [post]
func (h *RevisionHandler) GenerateGuide(c *gin.Context) {
	var req services.RevisionGuideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Generating revision guide", "subject", req.Subject, "topic", req.Topic)

	guide, err := h.revisionService.GenerateGuide(c.Request.Context(), user.ID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, guide)
}

// ListGuides returns the caller's revision guides, newest first
// @Summary List revision guides
// @Tags revision-guides
// @Router /revision-guides [get]
func (h *RevisionHandler) ListGuides(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	guides, err := h.revisionService.ListGuides(c.Request.Context(), user.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, guides)
}
