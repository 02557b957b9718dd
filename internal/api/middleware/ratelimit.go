package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"interview-companion/pkg/models"
	"interview-companion/pkg/utils"
)

// RateLimit applies a per-client token bucket of requestsPerMinute with burst.
// Health probes are exempt.
func RateLimit(requestsPerMinute, burst int) echo.MiddlewareFunc {
	if burst <= 0 {
		burst = 1
	}

	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(requestsPerMinute) / 60.0),
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return path == "/health" || path == "/health/live" || path == "/health/ready"
		},
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: identifierErrorHandler,
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			ce := utils.NewTooManyRequestsError()
			return c.JSON(ce.Code, models.NewErrorResponse(ce.Kind, ce.Message, RequestID(c)))
		},
	})
}

func identifierErrorHandler(c echo.Context, _ error) error {
	ce := utils.NewForbiddenError("Unable to identify client")
	return c.JSON(ce.Code, models.NewErrorResponse(ce.Kind, ce.Message, RequestID(c)))
}
