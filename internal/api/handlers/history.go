package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"interview-companion/internal/history"
	"interview-companion/internal/logging"
	"interview-companion/pkg/models"
	"interview-companion/pkg/utils"
)

const defaultHistoryLimit = 20

// HistoryHandler handles GET /api/v1/history/:email
func HistoryHandler(store history.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		logger := logging.GetGlobalLogger()

		email := history.NormalizeEmail(c.Param("email"))
		if err := requestValidator.Var(email, "required,email"); err != nil {
			return respondError(c, logger, utils.NewValidationError("email is not a valid address"), nil)
		}

		limit := defaultHistoryLimit
		if raw := c.QueryParam("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 || n > 100 {
				return respondError(c, logger, utils.NewValidationError("limit must be between 1 and 100"), nil)
			}
			limit = n
		}

		entries, err := store.List(c.Request().Context(), email, limit)
		if err != nil {
			return respondError(c, logger, err, nil)
		}

		return c.JSON(http.StatusOK, models.HistoryResponse{
			Email:   email,
			Entries: entries,
			Count:   len(entries),
		})
	}
}
