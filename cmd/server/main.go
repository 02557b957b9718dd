package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"interview-companion/internal/analysis"
	"interview-companion/internal/api/routes"
	"interview-companion/internal/chat"
	"interview-companion/internal/config"
	"interview-companion/internal/extract"
	"interview-companion/internal/history"
	"interview-companion/internal/interview"
	"interview-companion/internal/llm"
	"interview-companion/internal/logging"
	"interview-companion/internal/scoring"
	"interview-companion/internal/session"
	"interview-companion/pkg/utils"
)

func main() {
	configPath := utils.GetStringOrDefault(os.Getenv("CONFIG_PATH"), "configs/config.yaml")

	// Load configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logging
	if err := logging.InitializeLogging(cfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.CloseLogging()

	logger := logging.GetGlobalLogger()
	logger.Info("Starting Interview Companion", map[string]interface{}{
		"llm_provider":    cfg.LLM.Provider,
		"history_backend": cfg.History.Backend,
		"redis_enabled":   cfg.Redis.Enabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize LLM manager
	llmManager := llm.NewManager(cfg)
	if err := llmManager.Start(); err != nil {
		logger.WithError(err).Fatal("Failed to start LLM manager")
	}

	sessions, err := session.NewStore(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize session store")
	}

	historyStore, err := history.NewStore(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize history store")
	}

	scorer := scoring.NewScorer(cfg.Scoring.Baseline)
	deps := routes.Dependencies{
		Analysis: analysis.NewService(extract.NewExtractor(), llmManager, scorer, sessions, logger,
			analysis.WithDefaultRole(cfg.Upload.DefaultRole),
			analysis.WithHistory(historyStore),
		),
		Interview: interview.NewService(llmManager, sessions, cfg.Interview.QuestionCount, logger),
		Chat:      chat.NewService(llmManager, sessions, cfg.Redis.HistoryLimit, logger),
		Sessions:  sessions,
		History:   historyStore,
		LLM:       llmManager,
	}

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.HTTPWriteTimeout()
	e.Server.IdleTimeout = cfg.Server.IdleTimeout

	// Setup routes
	routes.SetupRoutes(e, cfg, deps)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Server starting", map[string]interface{}{"address": address})
		if err := e.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		logger.Info("Stopping HTTP server...")
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("Error shutting down server")
		}

		logger.Info("Stopping LLM manager...")
		if err := llmManager.Stop(); err != nil {
			logger.WithError(err).Error("Error stopping LLM manager")
		}

		if err := sessions.Close(); err != nil {
			logger.WithError(err).Error("Error closing session store")
		}
		if err := historyStore.Close(); err != nil {
			logger.WithError(err).Error("Error closing history store")
		}

		logger.Info("Server shutdown complete")
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.WithError(err).Error("Server exited with error")
		logging.CloseLogging()
		os.Exit(1)
	}
}
