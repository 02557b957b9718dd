package handlers

import (
	"context"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"interview-companion/internal/api/middleware"
	"interview-companion/internal/logging"
	"interview-companion/pkg/models"
)

var startTime = time.Now()

// Version is reported by the health endpoints; overridden at build time
var Version = "1.0.0"

// LLMStatus reports the model provider state
type LLMStatus interface {
	IsHealthy() bool
	GetProviderName() string
}

// Pinger is a dependency that can be probed for readiness
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests
func HealthHandler(c echo.Context) error {
	logger := logging.GetGlobalLogger()
	logger.Debug("Health check requested", map[string]interface{}{"request_id": middleware.RequestID(c)})

	response := models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   Version,
		Uptime:    time.Since(startTime),
		Checks: map[string]string{
			"api": "ok",
		},
	}

	return c.JSON(http.StatusOK, response)
}

// ReadinessHandler reports ready while the session store answers. An
// unhealthy model only degrades readiness: uploads still get keyword insights.
func ReadinessHandler(llmStatus LLMStatus, sessions Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		logger := logging.GetGlobalLogger()
		logger.Debug("Readiness check requested", map[string]interface{}{"request_id": middleware.RequestID(c)})

		checks := map[string]string{"api": "ok"}
		status := "ready"
		code := http.StatusOK

		if err := sessions.Ping(c.Request().Context()); err != nil {
			checks["sessions"] = "unavailable"
			status = "not_ready"
			code = http.StatusServiceUnavailable
			logger.WithError(err).Warn("Session store not reachable")
		} else {
			checks["sessions"] = "ok"
		}

		if llmStatus.IsHealthy() {
			checks["llm"] = "ok"
		} else {
			checks["llm"] = "degraded"
		}

		return c.JSON(code, models.HealthResponse{
			Status:    status,
			Timestamp: time.Now(),
			Version:   Version,
			Uptime:    time.Since(startTime),
			Checks:    checks,
		})
	}
}

// LivenessHandler handles liveness probe requests
func LivenessHandler(c echo.Context) error {
	logger := logging.GetGlobalLogger()
	logger.Debug("Liveness check requested", map[string]interface{}{"request_id": middleware.RequestID(c)})

	response := models.HealthResponse{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   Version,
		Uptime:    time.Since(startTime),
	}

	return c.JSON(http.StatusOK, response)
}

// StatusHandler provides detailed service status
func StatusHandler(llmStatus LLMStatus, sessions Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		logger := logging.GetGlobalLogger()
		logger.Debug("Status check requested", map[string]interface{}{"request_id": middleware.RequestID(c)})

		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)

		checks := map[string]string{
			"api":          "operational",
			"llm_provider": llmStatus.GetProviderName(),
			"llm":          "operational",
			"sessions":     "operational",
			"goroutines":   strconv.Itoa(runtime.NumGoroutine()),
			"heap_alloc":   strconv.FormatUint(mem.HeapAlloc, 10),
		}
		if !llmStatus.IsHealthy() {
			checks["llm"] = "degraded"
		}
		if err := sessions.Ping(c.Request().Context()); err != nil {
			checks["sessions"] = "unavailable"
		}

		return c.JSON(http.StatusOK, models.HealthResponse{
			Status:    "operational",
			Timestamp: time.Now(),
			Version:   Version,
			Uptime:    time.Since(startTime),
			Checks:    checks,
		})
	}
}
