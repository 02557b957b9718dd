package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"interview-companion/internal/api/validation"
	"interview-companion/internal/interview"
	"interview-companion/internal/logging"
	"interview-companion/pkg/models"
	"interview-companion/pkg/utils"
)

// GenerateQuestionsHandler handles POST /api/v1/interview/generate
func GenerateQuestionsHandler(svc *interview.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		logger := logging.GetGlobalLogger()

		var req models.GenerateQuestionsRequest
		if err := c.Bind(&req); err != nil {
			return respondError(c, logger, utils.NewBadRequestError("Invalid request body"), nil)
		}
		if err := requestValidator.Struct(&req); err != nil {
			return respondError(c, logger, utils.NewValidationError(validation.Describe(err)), nil)
		}

		questions, round, err := svc.Generate(c.Request().Context(), req.Role, req.Round, req.SessionID)
		if err != nil {
			return respondError(c, logger, err, llmFallback)
		}

		return c.JSON(http.StatusOK, models.GenerateQuestionsResponse{
			Role:      req.Role,
			Round:     round,
			Questions: questions,
		})
	}
}

// EvaluateAnswerHandler handles POST /api/v1/interview/evaluate
func EvaluateAnswerHandler(svc *interview.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		logger := logging.GetGlobalLogger()

		var req models.EvaluateAnswerRequest
		if err := c.Bind(&req); err != nil {
			return respondError(c, logger, utils.NewBadRequestError("Invalid request body"), nil)
		}
		if err := requestValidator.Struct(&req); err != nil {
			return respondError(c, logger, utils.NewValidationError(validation.Describe(err)), nil)
		}

		feedback, err := svc.Evaluate(c.Request().Context(), req.Question, req.Answer, req.SessionID)
		if err != nil {
			return respondError(c, logger, err, llmFallback)
		}

		return c.JSON(http.StatusOK, models.EvaluateAnswerResponse{Feedback: feedback})
	}
}
