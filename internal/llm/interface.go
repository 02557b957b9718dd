package llm

import (
	"context"
	"errors"

	"interview-companion/internal/llm/types"
	"interview-companion/pkg/models"
)

var (
	// ErrProviderUnavailable is returned while the provider is missing or failed its health check
	ErrProviderUnavailable = errors.New("LLM provider is not available")
	// ErrEmptyResponse is returned when the provider answers with no usable text
	ErrEmptyResponse = errors.New("LLM provider returned an empty response")
)

// LLMProvider defines the interface for LLM providers
type LLMProvider interface {
	// Complete runs a single chat completion and returns the response text
	Complete(ctx context.Context, req types.CompletionRequest) (string, error)

	// IsHealthy checks if the LLM provider is healthy and available
	IsHealthy(ctx context.Context) error

	// GetProviderName returns the name of the LLM provider
	GetProviderName() string
}

// Assistant is the set of interview-preparation tasks backed by a model.
// Manager is the production implementation.
type Assistant interface {
	AnalyzeResume(ctx context.Context, resumeText, role string) (*models.ResumeInsights, error)
	GenerateQuestions(ctx context.Context, role, round string, count int, resumeText string) ([]string, error)
	EvaluateAnswer(ctx context.Context, question, answer string) (string, error)
	Chat(ctx context.Context, history []models.ChatMessage, message string) (string, error)
}
