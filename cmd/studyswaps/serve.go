package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/studyswaps/learning-service/internal/ai"
	"github.com/studyswaps/learning-service/internal/auth"
	"github.com/studyswaps/learning-service/internal/cache"
	"github.com/studyswaps/learning-service/internal/config"
	"github.com/studyswaps/learning-service/internal/email"
	"github.com/studyswaps/learning-service/internal/generator"
	"github.com/studyswaps/learning-service/internal/handlers"
	"github.com/studyswaps/learning-service/internal/repositories/postgres"
	"github.com/studyswaps/learning-service/internal/services"
	"github.com/studyswaps/learning-service/internal/utils"
	"github.com/studyswaps/learning-service/internal/validator"
	"github.com/studyswaps/learning-service/pkg"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		autoMigrate, _ := cmd.Flags().GetBool("migrate")

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return runServer(ctx, autoMigrate)
	},
}

func init() {
	serveCmd.Flags().Bool("migrate", false, "Run schema migration before serving")
}

func runServer(ctx context.Context, autoMigrate bool) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger := utils.NewLogger(cfg.Environment)
	slogger := utils.ToSlogLogger(logger)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// ===== STORAGE =====

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return err
	}
	if autoMigrate {
		if err := pkg.Migrate(db); err != nil {
			return err
		}
	}
	repo := postgres.NewRepository(db)
	defer repo.Close()

	if err := repo.Ping(ctx); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}

	redisClient, err := pkg.NewRedisClient(ctx, cfg)
	if err != nil {
		return err
	}

	var (
		cacheService cache.CacheService = cache.NewNoopCache()
		rateLimiter  cache.RateLimiter
	)
	if redisClient != nil {
		defer redisClient.Close()
		cacheService = cache.NewRedisCache(redisClient, "studyswaps:", logger)
		rateLimiter = cache.NewRedisRateLimiter(redisClient, "studyswaps:ratelimit:")
	} else {
		logger.Warn("REDIS_URL not set, stats caching and rate limiting disabled")
	}

	// ===== COLLABORATORS =====

	provider, err := newAIProvider(cfg)
	if err != nil {
		return err
	}

	var mailer email.Sender = email.NewDisabledSender()
	if cfg.SendGridAPIKey != "" {
		mailer = email.NewSendGridSender(cfg.SendGridAPIKey, cfg.SendGridFromEmail)
	} else {
		logger.Warn("SENDGRID_API_KEY not set, credential emails disabled")
	}

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		return err
	}
	defer publisher.Close()

	manager := services.NewServiceManager(services.Dependencies{
		Repo:                      repo,
		Generator:                 generator.New(provider, cfg.GenerationTimeout, logger),
		Tokens:                    auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL),
		Mailer:                    mailer,
		Publisher:                 publisher,
		Cache:                     cacheService,
		Validator:                 validator.New(),
		Logger:                    slogger,
		SiteURL:                   cfg.SiteURL,
		RevealAnswersBeforeSubmit: cfg.RevealAnswersBeforeSubmit,
	})

	handlerManager := handlers.NewHandlerManager(manager, handlers.RouterConfig{
		AllowedOrigins:  cfg.CORSAllowedOrigins,
		CookieTTL:       cfg.TokenTTL,
		SecureCookie:    cfg.IsProduction(),
		RateLimiter:     rateLimiter,
		GlobalRateLimit: cfg.RateLimitGlobal,
		AuthRateLimit:   cfg.RateLimitAuth,
		RateLimitWindow: cfg.RateLimitWindow,
	}, logger)

	// ===== HTTP =====

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlerManager.NewRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Server listening", "port", cfg.Port, "environment", cfg.Environment, "ai_provider", provider.ModelID())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func newAIProvider(cfg *config.Config) (ai.Provider, error) {
	if cfg.AIProvider == "mock" {
		return generator.NewOfflineProvider(), nil
	}
	return ai.NewOpenAIProvider(ai.OpenAIConfig{
		APIKey:  cfg.OpenAIAPIKey,
		Model:   cfg.OpenAIModel,
		BaseURL: cfg.OpenAIBaseURL,
	})
}
