package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/studyswaps/learning-service/internal/services"
	"github.com/studyswaps/learning-service/internal/utils"
)

type AuthHandler struct {
	BaseHandler
	authService  services.AuthService
	cookieTTL    time.Duration
	secureCookie bool
}

func NewAuthHandler(authService services.AuthService, cookieTTL time.Duration, secureCookie bool, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler:  NewBaseHandler(logger),
		authService:  authService,
		cookieTTL:    cookieTTL,
		secureCookie: secureCookie,
	}
}

// Register creates a parent account plus any child accounts
// @Summary Register parent
// @Tags auth
// @Accept json
// @Produce json
// @Param body body services.RegisterRequest true "Parent and children"
// @Success 201 {object} services.RegisterResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	h.LogRequest(c, "Registering parent", "children_count", len(req.Children))

	resp, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.setAuthCookie(c, resp.Token)
	c.JSON(http.StatusCreated, resp)
}

// Login authenticates a parent or teacher by email
// @Summary Login
// @Tags auth
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.setAuthCookie(c, resp.Token)
	c.JSON(http.StatusOK, resp)
}

// ChildLogin authenticates a child with generated credentials
// @Summary Child login
// @Tags auth
// @Router /auth/child-login [post]
func (h *AuthHandler) ChildLogin(c *gin.Context) {
	var req services.ChildLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	resp, err := h.authService.ChildLogin(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.setAuthCookie(c, resp.Token)
	c.JSON(http.StatusOK, resp)
}

// Logout clears the auth cookie
// @Summary Logout
// @Tags auth
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AuthCookieName, "", -1, "/", "", h.secureCookie, true)
	c.JSON(http.StatusOK, SuccessResponse{Message: "Logged out successfully"})
}

// Me returns the authenticated user
// @Summary Current user
// @Tags auth
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	current, ok := h.currentUser(c)
	if !ok {
		return
	}

	user, err := h.authService.Me(c.Request.Context(), current.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *AuthHandler) setAuthCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AuthCookieName, token, int(h.cookieTTL.Seconds()), "/", "", h.secureCookie, true)
}
