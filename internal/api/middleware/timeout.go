package middleware

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// AIRoutePrefixes are the paths that wait on the hosted model
var AIRoutePrefixes = []string{
	"/api/v1/resume/upload",
	"/api/v1/interview/",
	"/api/v1/chat",
}

// IsAIRoute reports whether path is served by a model-backed handler
func IsAIRoute(path string) bool {
	for _, prefix := range AIRoutePrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// SelectiveTimeoutConfig bounds request contexts: aiTimeout for model-backed
// routes and defaultTimeout for everything else.
func SelectiveTimeoutConfig(defaultTimeout, aiTimeout time.Duration) echo.MiddlewareFunc {
	standard := middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{
		Skipper: func(c echo.Context) bool { return IsAIRoute(c.Request().URL.Path) },
		Timeout: defaultTimeout,
	})
	ai := middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{
		Skipper: func(c echo.Context) bool { return !IsAIRoute(c.Request().URL.Path) },
		Timeout: aiTimeout,
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return standard(ai(next))
	}
}
