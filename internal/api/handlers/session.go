package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"interview-companion/internal/logging"
	"interview-companion/internal/session"
	"interview-companion/pkg/models"
	"interview-companion/pkg/utils"
)

// GetSessionHandler handles GET /api/v1/sessions/:id.
// The stored resume text is omitted unless include_text=true.
func GetSessionHandler(store session.Store, historyLimit int) echo.HandlerFunc {
	return func(c echo.Context) error {
		logger := logging.GetGlobalLogger()
		id := c.Param("id")

		if err := requestValidator.Var(id, "uuid4"); err != nil {
			return respondError(c, logger, utils.NewNotFoundError("Session not found or expired"), nil)
		}

		sess, err := store.Get(c.Request().Context(), id)
		if err != nil {
			return respondError(c, logger, err, nil)
		}

		messages, err := store.History(c.Request().Context(), id, historyLimit)
		if err != nil {
			return respondError(c, logger, err, nil)
		}

		includeText, _ := strconv.ParseBool(c.QueryParam("include_text"))
		if !includeText {
			sess.ResumeText = ""
		}

		return c.JSON(http.StatusOK, models.SessionResponse{
			Session:  sess,
			Messages: messages,
		})
	}
}

// DeleteSessionHandler handles DELETE /api/v1/sessions/:id
func DeleteSessionHandler(store session.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		logger := logging.GetGlobalLogger()
		id := c.Param("id")

		if err := requestValidator.Var(id, "uuid4"); err != nil {
			return respondError(c, logger, utils.NewNotFoundError("Session not found or expired"), nil)
		}

		if err := store.Delete(c.Request().Context(), id); err != nil {
			return respondError(c, logger, err, nil)
		}

		logger.Info("Session deleted", map[string]interface{}{"session_id": id})
		return c.NoContent(http.StatusNoContent)
	}
}
