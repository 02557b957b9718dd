package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"interview-companion/internal/api/validation"
	"interview-companion/internal/chat"
	"interview-companion/internal/logging"
	"interview-companion/pkg/models"
	"interview-companion/pkg/utils"
)

// ChatHandler handles POST /api/v1/chat
func ChatHandler(svc *chat.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		logger := logging.GetGlobalLogger()

		var req models.ChatRequest
		if err := c.Bind(&req); err != nil {
			return respondError(c, logger, utils.NewBadRequestError("Invalid request body"), nil)
		}
		if err := requestValidator.Struct(&req); err != nil {
			return respondError(c, logger, utils.NewValidationError(validation.Describe(err)), nil)
		}

		reply, sessionID, err := svc.Reply(c.Request().Context(), req.SessionID, req.Message)
		if err != nil {
			return respondError(c, logger, err, llmFallback)
		}

		return c.JSON(http.StatusOK, models.ChatResponse{
			Reply:     reply,
			SessionID: sessionID,
		})
	}
}
