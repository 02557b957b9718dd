package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"interview-companion/internal/analysis"
	"interview-companion/internal/api/middleware"
	"interview-companion/internal/chat"
	"interview-companion/internal/extract"
	"interview-companion/internal/interview"
	"interview-companion/internal/logging"
	"interview-companion/internal/session"
	"interview-companion/pkg/models"
	"interview-companion/pkg/utils"
)

// classifyError maps service errors to client errors. Errors it does not
// recognise are handed to fallback.
func classifyError(err error, fallback func(error) *utils.CustomError) *utils.CustomError {
	if ce, ok := utils.AsCustomError(err); ok {
		return ce
	}

	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytesErr):
		return utils.NewPayloadTooLargeError(maxBytesErr.Limit)
	case errors.Is(err, extract.ErrEmptyFile):
		return utils.NewBadRequestError("Uploaded file is empty")
	case errors.Is(err, extract.ErrUnsupportedType):
		return utils.NewUnsupportedFileError("Only PDF, DOCX and plain text resumes are supported", err)
	case errors.Is(err, extract.ErrExtractionFailed):
		return utils.NewUnsupportedFileError("The file could not be read", err)
	case errors.Is(err, session.ErrNotFound):
		return utils.NewNotFoundError("Session not found or expired")
	case errors.Is(err, interview.ErrUnknownRound),
		errors.Is(err, interview.ErrEmptyAnswer),
		errors.Is(err, interview.ErrEmptyRole),
		errors.Is(err, chat.ErrEmptyMessage),
		errors.Is(err, analysis.ErrNoResumeText):
		return utils.NewValidationError(err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return utils.NewTimeoutError()
	}

	if fallback != nil {
		return fallback(err)
	}
	return utils.NewInternalServerError("Internal server error")
}

func llmFallback(err error) *utils.CustomError {
	return utils.NewLLMError("The AI service could not complete the request", err)
}

// respondError logs err and writes the matching ErrorResponse
func respondError(c echo.Context, logger logging.Logger, err error, fallback func(error) *utils.CustomError) error {
	requestID := middleware.RequestID(c)
	ce := classifyError(err, fallback)

	fields := map[string]interface{}{
		"request_id": requestID,
		"status":     ce.Code,
		"kind":       ce.Kind,
		"path":       c.Path(),
	}
	if ce.Code >= http.StatusInternalServerError {
		logger.WithError(err).Error("Request failed", fields)
	} else {
		logger.WithError(err).Warn("Request rejected", fields)
	}

	return c.JSON(ce.Code, models.NewErrorResponse(ce.Kind, ce.Error(), requestID))
}
