// Package analysis runs the resume upload flow: extract text, ask the model
// for insights, fall back to the keyword scorer, then persist the session.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"interview-companion/internal/extract"
	"interview-companion/internal/history"
	"interview-companion/internal/llm"
	"interview-companion/internal/logging"
	"interview-companion/internal/scoring"
	"interview-companion/internal/session"
	"interview-companion/pkg/models"
)

// DefaultRole is used when an upload names no role
const DefaultRole = "General Software Engineer"

// ErrNoResumeText is returned by Score when neither text nor a session with text is given
var ErrNoResumeText = errors.New("no resume text available")

// Analyzer is the subset of the LLM manager used for resume insights
type Analyzer interface {
	AnalyzeResume(ctx context.Context, resumeText, role string) (*models.ResumeInsights, error)
}

var _ Analyzer = (*llm.Manager)(nil)

// AnalyzeInput is one uploaded resume
type AnalyzeInput struct {
	Role     string
	Filename string
	Data     []byte
	Email    string
}

// AnalyzeOutput is the result of an upload
type AnalyzeOutput struct {
	SessionID string
	Role      string
	Insights  *models.ResumeInsights
}

// Service orchestrates extraction, insights and persistence
type Service struct {
	extractor   extract.TextExtractor
	analyzer    Analyzer
	scorer      *scoring.Scorer
	sessions    session.Store
	history     history.Store
	defaultRole string
	logger      logging.Logger
}

// Option customises a Service
type Option func(*Service)

// WithDefaultRole overrides DefaultRole
func WithDefaultRole(role string) Option {
	return func(s *Service) {
		if strings.TrimSpace(role) != "" {
			s.defaultRole = role
		}
	}
}

// WithHistory records every analysis that carries an email
func WithHistory(store history.Store) Option {
	return func(s *Service) {
		s.history = store
	}
}

// NewService creates the analysis service
func NewService(extractor extract.TextExtractor, analyzer Analyzer, scorer *scoring.Scorer, sessions session.Store, logger logging.Logger, opts ...Option) *Service {
	if scorer == nil {
		scorer = scoring.NewScorer(scoring.DefaultBaseline)
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	s := &Service{
		extractor:   extractor,
		analyzer:    analyzer,
		scorer:      scorer,
		sessions:    sessions,
		defaultRole: DefaultRole,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze extracts the resume, produces insights and stores a new session.
// Extraction errors are returned unchanged in the chain; model failures are
// absorbed by the heuristic fallback.
func (s *Service) Analyze(ctx context.Context, in AnalyzeInput) (*AnalyzeOutput, error) {
	startTime := time.Now()

	text, err := s.extractor.Extract(ctx, in.Filename, in.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to extract resume text: %w", err)
	}

	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = s.defaultRole
	}

	insights := s.insights(ctx, text, role)

	sess := &models.Session{
		Role:       role,
		Email:      history.NormalizeEmail(in.Email),
		ResumeText: text,
		Insights:   insights,
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	if sess.Email != "" && s.history != nil {
		entry := &models.HistoryEntry{
			Email:           sess.Email,
			Role:            role,
			Filename:        in.Filename,
			MatchScore:      insights.MatchScore,
			Source:          insights.Source,
			MissingKeywords: insights.MissingKeywords,
		}
		// A history failure must not lose the analysis the user is waiting for
		if err := s.history.Append(ctx, entry); err != nil {
			s.logger.WithError(err).Warn("Failed to record analysis history", map[string]interface{}{
				"session_id": sess.ID,
			})
		}
	}

	s.logger.Info("Resume analyzed", map[string]interface{}{
		"session_id":      sess.ID,
		"role":            role,
		"filename":        in.Filename,
		"text_chars":      len(text),
		"match_score":     insights.MatchScore,
		"source":          string(insights.Source),
		"processing_time": time.Since(startTime).String(),
	})

	return &AnalyzeOutput{
		SessionID: sess.ID,
		Role:      role,
		Insights:  insights,
	}, nil
}

// Score runs only the keyword scorer. An empty resumeText is resolved from
// the session; the session must then exist.
func (s *Service) Score(ctx context.Context, role, resumeText, sessionID string) (scoring.MatchResult, error) {
	if strings.TrimSpace(resumeText) == "" && sessionID != "" {
		sess, err := s.sessions.Get(ctx, sessionID)
		if err != nil {
			return scoring.MatchResult{}, err
		}
		resumeText = sess.ResumeText
		if strings.TrimSpace(role) == "" {
			role = sess.Role
		}
	} else if strings.TrimSpace(resumeText) == "" {
		return scoring.MatchResult{}, ErrNoResumeText
	}

	return s.scorer.Score(role, resumeText), nil
}

func (s *Service) insights(ctx context.Context, text, role string) *models.ResumeInsights {
	if s.analyzer != nil {
		insights, err := s.analyzer.AnalyzeResume(ctx, text, role)
		if err == nil {
			insights.Source = models.InsightSourceAI
			return insights
		}
		// The caller's own cancellation is not a model failure worth logging loudly
		if ctx.Err() == nil {
			s.logger.WithError(err).Warn("AI insights unavailable, using keyword scorer", map[string]interface{}{
				"role": role,
			})
		}
	}

	result := s.scorer.Score(role, text)
	return &models.ResumeInsights{
		MatchScore:      result.MatchScore,
		MissingKeywords: result.MissingKeywords,
		Suggestions:     result.Suggestions,
		Source:          models.InsightSourceHeuristic,
		Degraded:        true,
	}
}
