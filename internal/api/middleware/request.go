package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"interview-companion/pkg/models"
	"interview-companion/pkg/utils"
)

// RequestIDKey is the echo context key holding the request ID
const RequestIDKey = "request_id"

// RequestValidation assigns a request ID and enforces the body size limit.
// Declared lengths over the limit are rejected up front; chunked bodies are
// capped by http.MaxBytesReader.
func RequestValidation(maxBodyBytes int64) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := utils.GenerateRequestID()
			c.Set(RequestIDKey, requestID)
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)

			req := c.Request()
			if maxBodyBytes > 0 && req.Body != nil && req.Body != http.NoBody {
				if req.ContentLength > maxBodyBytes {
					ce := utils.NewPayloadTooLargeError(maxBodyBytes)
					return c.JSON(ce.Code, models.NewErrorResponse(ce.Kind, ce.Error(), requestID))
				}
				req.Body = http.MaxBytesReader(c.Response(), req.Body, maxBodyBytes)
			}

			return next(c)
		}
	}
}

// RequestID returns the ID assigned by RequestValidation, or a fresh one
func RequestID(c echo.Context) string {
	if id, ok := c.Get(RequestIDKey).(string); ok && id != "" {
		return id
	}
	return utils.GenerateRequestID()
}
