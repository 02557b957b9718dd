// Package interview generates mock-interview questions and evaluates answers.
package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"interview-companion/internal/logging"
	"interview-companion/internal/session"
	"interview-companion/pkg/models"
)

// DefaultQuestionCount is how many questions Generate asks for by default
const DefaultQuestionCount = 5

var (
	ErrUnknownRound = errors.New("unknown interview round")
	ErrEmptyAnswer  = errors.New("answer must not be blank")
	ErrEmptyRole    = errors.New("role must not be blank")
)

// Model is the subset of the LLM manager the interview flow needs
type Model interface {
	GenerateQuestions(ctx context.Context, role, round string, count int, resumeText string) ([]string, error)
	EvaluateAnswer(ctx context.Context, question, answer string) (string, error)
}

// Service runs mock interviews
type Service struct {
	model         Model
	sessions      session.Store
	questionCount int
	logger        logging.Logger
}

// NewService creates the interview service
func NewService(model Model, sessions session.Store, questionCount int, logger logging.Logger) *Service {
	if questionCount <= 0 {
		questionCount = DefaultQuestionCount
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Service{
		model:         model,
		sessions:      sessions,
		questionCount: questionCount,
		logger:        logger,
	}
}

// Generate returns questions for role and round. The resume stored in the
// session, when one is given, is used to tailor them.
func (s *Service) Generate(ctx context.Context, role, round, sessionID string) ([]string, models.InterviewRound, error) {
	r, ok := models.ParseRound(round)
	if !ok {
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownRound, round)
	}

	var resumeText string
	if sessionID != "" {
		sess, err := s.sessions.Get(ctx, sessionID)
		if err != nil {
			return nil, "", err
		}
		resumeText = sess.ResumeText
		if strings.TrimSpace(role) == "" {
			role = sess.Role
		}
	}

	role = strings.TrimSpace(role)
	if role == "" {
		return nil, "", ErrEmptyRole
	}

	questions, err := s.model.GenerateQuestions(ctx, role, string(r), s.questionCount, resumeText)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate questions: %w", err)
	}

	s.logger.Info("Interview questions generated", map[string]interface{}{
		"role":       role,
		"round":      string(r),
		"count":      len(questions),
		"session_id": sessionID,
		"tailored":   resumeText != "",
	})

	return questions, r, nil
}

// Evaluate returns feedback on an answer. With a session, the exchange is
// appended to the session conversation.
func (s *Service) Evaluate(ctx context.Context, question, answer, sessionID string) (string, error) {
	if strings.TrimSpace(answer) == "" {
		return "", ErrEmptyAnswer
	}

	if sessionID != "" {
		if _, err := s.sessions.Get(ctx, sessionID); err != nil {
			return "", err
		}
	}

	feedback, err := s.model.EvaluateAnswer(ctx, question, answer)
	if err != nil {
		return "", fmt.Errorf("failed to evaluate answer: %w", err)
	}

	if sessionID != "" {
		s.record(ctx, sessionID, question, answer, feedback)
	}

	return feedback, nil
}

func (s *Service) record(ctx context.Context, sessionID, question, answer, feedback string) {
	entries := []models.ChatMessage{
		{Role: models.ChatRoleAssistant, Content: question},
		{Role: models.ChatRoleUser, Content: answer},
		{Role: models.ChatRoleAssistant, Content: feedback},
	}
	for _, entry := range entries {
		if err := s.sessions.AppendMessage(ctx, sessionID, entry); err != nil {
			s.logger.WithError(err).Warn("Failed to record interview exchange", map[string]interface{}{
				"session_id": sessionID,
			})
			return
		}
	}
}
