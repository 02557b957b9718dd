package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"interview-companion/internal/analysis"
	"interview-companion/internal/api/middleware"
	"interview-companion/internal/api/validation"
	"interview-companion/internal/config"
	"interview-companion/internal/logging"
	"interview-companion/internal/scoring"
	"interview-companion/pkg/models"
	"interview-companion/pkg/utils"
)

var requestValidator = validation.New()

// ScoreResumeResponse wraps a heuristic score
type ScoreResumeResponse struct {
	Success bool                `json:"success"`
	Role    string              `json:"role"`
	Result  scoring.MatchResult `json:"result"`
}

// UploadResumeHandler handles POST /api/v1/resume/upload (multipart form)
func UploadResumeHandler(cfg *config.Config, svc *analysis.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := middleware.RequestID(c)
		logger := logging.GetGlobalLogger()

		logger.Info("Processing resume upload request", map[string]interface{}{
			"request_id": requestID,
			"endpoint":   "/api/v1/resume/upload",
			"method":     "POST",
		})

		fileHeader, err := c.FormFile(cfg.Upload.FormField)
		if err != nil {
			if ce := classifyError(err, nil); ce.Code == http.StatusRequestEntityTooLarge {
				return respondError(c, logger, ce, nil)
			}
			return respondError(c, logger, utils.NewBadRequestError(fmt.Sprintf("No file uploaded: expected form field %q", cfg.Upload.FormField)), nil)
		}

		if fileHeader.Size > cfg.Upload.MaxSizeBytes {
			return respondError(c, logger, utils.NewPayloadTooLargeError(cfg.Upload.MaxSizeBytes), nil)
		}

		role := strings.TrimSpace(c.FormValue("role"))
		if role != "" {
			if err := requestValidator.Var(role, "role_name"); err != nil {
				return respondError(c, logger, utils.NewValidationError("role is not a valid role name"), nil)
			}
		}

		email := strings.TrimSpace(c.FormValue("email"))
		if email != "" {
			if err := requestValidator.Var(email, "email"); err != nil {
				return respondError(c, logger, utils.NewValidationError("email is not a valid address"), nil)
			}
		}

		file, err := fileHeader.Open()
		if err != nil {
			return respondError(c, logger, fmt.Errorf("failed to open upload: %w", err), nil)
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, cfg.Upload.MaxSizeBytes+1))
		if err != nil {
			return respondError(c, logger, fmt.Errorf("failed to read upload: %w", err), nil)
		}
		if int64(len(data)) > cfg.Upload.MaxSizeBytes {
			return respondError(c, logger, utils.NewPayloadTooLargeError(cfg.Upload.MaxSizeBytes), nil)
		}

		out, err := svc.Analyze(c.Request().Context(), analysis.AnalyzeInput{
			Role:     role,
			Filename: fileHeader.Filename,
			Data:     data,
			Email:    email,
		})
		if err != nil {
			return respondError(c, logger, err, nil)
		}

		message := "Resume analyzed successfully"
		if out.Insights.Degraded {
			message = "AI analysis unavailable; showing keyword-based insights"
		}

		return c.JSON(http.StatusOK, models.UploadResumeResponse{
			Success:   true,
			Message:   message,
			SessionID: out.SessionID,
			Role:      out.Role,
			Insights:  out.Insights,
		})
	}
}

// ScoreResumeHandler handles POST /api/v1/resume/score (keyword scorer only)
func ScoreResumeHandler(svc *analysis.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		logger := logging.GetGlobalLogger()

		var req models.ScoreResumeRequest
		if err := c.Bind(&req); err != nil {
			return respondError(c, logger, utils.NewBadRequestError("Invalid request body"), nil)
		}
		if err := requestValidator.Struct(&req); err != nil {
			return respondError(c, logger, utils.NewValidationError(validation.Describe(err)), nil)
		}

		result, err := svc.Score(c.Request().Context(), req.Role, req.ResumeText, req.SessionID)
		if err != nil {
			return respondError(c, logger, err, nil)
		}

		return c.JSON(http.StatusOK, ScoreResumeResponse{
			Success: true,
			Role:    req.Role,
			Result:  result,
		})
	}
}
