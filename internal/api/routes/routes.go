package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"interview-companion/internal/analysis"
	"interview-companion/internal/api/handlers"
	"interview-companion/internal/api/middleware"
	"interview-companion/internal/chat"
	"interview-companion/internal/config"
	"interview-companion/internal/history"
	"interview-companion/internal/interview"
	"interview-companion/internal/session"
)

// Dependencies are the services the HTTP layer is wired to
type Dependencies struct {
	Analysis  *analysis.Service
	Interview *interview.Service
	Chat      *chat.Service
	Sessions  session.Store
	History   history.Store
	LLM       handlers.LLMStatus
}

// SetupRoutes configures all API routes
func SetupRoutes(e *echo.Echo, cfg *config.Config, deps Dependencies) {
	// Global middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSConfig(cfg.Server.AllowedOrigins))
	// Multipart framing needs headroom above the raw file limit
	e.Use(middleware.RequestValidation(cfg.Upload.MaxSizeBytes + 64*1024))
	if cfg.RateLimit.Enabled && cfg.RateLimit.RequestsPerMinute > 0 {
		e.Use(middleware.RateLimit(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst))
	}
	e.Use(middleware.SelectiveTimeoutConfig(cfg.Server.ReadTimeout, cfg.Server.AITimeout))

	// Health check routes
	health := e.Group("/health")
	{
		health.GET("", handlers.HealthHandler)
		health.GET("/ready", handlers.ReadinessHandler(deps.LLM, deps.Sessions))
		health.GET("/live", handlers.LivenessHandler)
	}

	// Status route
	e.GET("/status", handlers.StatusHandler(deps.LLM, deps.Sessions))

	// API v1 routes
	v1 := e.Group("/api/v1")
	{
		resume := v1.Group("/resume")
		{
			resume.POST("/upload", handlers.UploadResumeHandler(cfg, deps.Analysis))
			resume.POST("/score", handlers.ScoreResumeHandler(deps.Analysis))
		}

		interviewGroup := v1.Group("/interview")
		{
			interviewGroup.POST("/generate", handlers.GenerateQuestionsHandler(deps.Interview))
			interviewGroup.POST("/evaluate", handlers.EvaluateAnswerHandler(deps.Interview))
		}

		v1.POST("/chat", handlers.ChatHandler(deps.Chat))

		sessions := v1.Group("/sessions")
		{
			sessions.GET("/:id", handlers.GetSessionHandler(deps.Sessions, cfg.Redis.HistoryLimit))
			sessions.DELETE("/:id", handlers.DeleteSessionHandler(deps.Sessions))
		}

		v1.GET("/history/:email", handlers.HistoryHandler(deps.History))
	}

	// Root route
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"service": "Interview Companion",
			"version": handlers.Version,
			"status":  "running",
		})
	})
}
