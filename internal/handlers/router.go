package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/studyswaps/learning-service/internal/cache"
	"github.com/studyswaps/learning-service/internal/models"
	"github.com/studyswaps/learning-service/internal/services"
	"github.com/studyswaps/learning-service/internal/utils"
)

// RouterConfig carries the HTTP-level settings that are not owned by a service
type RouterConfig struct {
	AllowedOrigins []string
	CookieTTL      time.Duration
	SecureCookie   bool

	// RateLimiter may be nil, which disables rate limiting
	RateLimiter     cache.RateLimiter
	GlobalRateLimit int
	AuthRateLimit   int
	RateLimitWindow time.Duration
}

type HandlerManager struct {
	authHandler       *AuthHandler
	assessmentHandler *AssessmentHandler
	userHandler       *UserHandler
	revisionHandler   *RevisionHandler
	healthHandler     *HealthHandler

	authService services.AuthService
	config      RouterConfig
	logger      utils.Logger
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	config RouterConfig,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		authHandler:       NewAuthHandler(serviceManager.Auth(), config.CookieTTL, config.SecureCookie, logger),
		assessmentHandler: NewAssessmentHandler(serviceManager.Assessment(), logger),
		userHandler:       NewUserHandler(serviceManager.Stats(), logger),
		revisionHandler:   NewRevisionHandler(serviceManager.Revision(), logger),
		healthHandler:     NewHealthHandler(serviceManager, logger),
		authService:       serviceManager.Auth(),
		config:            config,
		logger:            logger,
	}
}

// NewRouter builds the gin engine with the shared middleware chain and all routes
func (hm *HandlerManager) NewRouter() *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		utils.RequestID(),
		utils.ContextLogger(hm.logger),
		utils.LoggerMiddleware(hm.logger),
		CORSMiddleware(hm.config.AllowedOrigins),
	)
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Not found"})
	})

	hm.SetupRoutes(router)
	return router
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.healthHandler.HealthCheck)

	api := router.Group("/api")
	api.Use(RateLimitMiddleware(hm.config.RateLimiter, RateLimitRule{
		Name:    "global",
		Limit:   hm.config.GlobalRateLimit,
		Window:  hm.config.RateLimitWindow,
		Message: "Too many requests from this IP, please try again later.",
	}, hm.logger))

	requireAuth := AuthMiddleware(hm.authService, hm.logger)

	authRoutes := api.Group("/auth")
	{
		authLimit := RateLimitMiddleware(hm.config.RateLimiter, RateLimitRule{
			Name:    "auth",
			Limit:   hm.config.AuthRateLimit,
			Window:  hm.config.RateLimitWindow,
			Message: "Too many authentication attempts, please try again later.",
		}, hm.logger)

		authRoutes.POST("/register", authLimit, hm.authHandler.Register)
		authRoutes.POST("/login", authLimit, hm.authHandler.Login)
		authRoutes.POST("/child-login", authLimit, hm.authHandler.ChildLogin)
		authRoutes.POST("/logout", hm.authHandler.Logout)
		authRoutes.GET("/me", requireAuth, hm.authHandler.Me)
	}

	assessments := api.Group("/assessments", requireAuth)
	{
		assessments.POST("/generate", hm.assessmentHandler.GenerateAssessment)
		assessments.GET("", hm.assessmentHandler.ListAssessments)
		assessments.GET("/export", hm.assessmentHandler.ExportAssessments)
		assessments.GET("/:id", hm.assessmentHandler.GetAssessment)
		assessments.POST("/:id/submit", hm.assessmentHandler.SubmitAssessment)
	}

	users := api.Group("/users", requireAuth)
	{
		users.GET("/stats", hm.userHandler.GetStats)
		users.GET("/children", RequireRole(hm.logger, models.RoleParent), hm.userHandler.ListChildren)
	}

	uploads := api.Group("/uploads", requireAuth)
	{
		uploads.POST("", hm.revisionHandler.UploadFile)
		uploads.GET("", hm.revisionHandler.ListUploads)
	}

	guides := api.Group("/revision-guides", requireAuth)
	{
		guides.POST("", hm.revisionHandler.GenerateGuide)
		guides.GET("", hm.revisionHandler.ListGuides)
	}
}
