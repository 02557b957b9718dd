package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"interview-companion/internal/config"
	"interview-companion/internal/llm/processors"
	"interview-companion/internal/llm/prompts"
	"interview-companion/internal/llm/types"
	"interview-companion/internal/logging"
	"interview-companion/pkg/models"
	"interview-companion/pkg/utils"
)

// Manager manages the LLM provider lifecycle and the prompts sent through it
type Manager struct {
	config   *config.Config
	factory  *LLMFactory
	provider LLMProvider
	logger   logging.Logger
	breaker  *gobreaker.CircuitBreaker
	mu       sync.RWMutex
	healthy  bool
	// lastCheck is when the provider was last probed; an unhealthy provider
	// is probed again once BreakerCooldown has passed.
	lastCheck time.Time
	now       func() time.Time
}

// NewManager creates a new LLM manager instance
func NewManager(cfg *config.Config) *Manager {
	logger := logging.GetGlobalLogger()
	return &Manager{
		config:  cfg,
		factory: NewLLMFactory(cfg),
		logger:  logger,
		breaker: newBreaker(cfg, logger),
		now:     time.Now,
	}
}

// NewManagerWithProvider creates a manager around an already constructed provider.
// Start still runs the provider health check.
func NewManagerWithProvider(cfg *config.Config, provider LLMProvider, logger logging.Logger) *Manager {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Manager{
		config:   cfg,
		provider: provider,
		logger:   logger,
		breaker:  newBreaker(cfg, logger),
		now:      time.Now,
	}
}

// newBreaker trips after cfg.LLM.BreakerFailures consecutive failures so a
// failing upstream is not hammered by every request.
func newBreaker(cfg *config.Config, logger logging.Logger) *gobreaker.CircuitBreaker {
	failures := uint32(5)
	if cfg.LLM.BreakerFailures > 0 {
		failures = uint32(cfg.LLM.BreakerFailures)
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "llm",
		MaxRequests: 1,
		Timeout:     cfg.LLM.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("LLM circuit breaker state changed", map[string]interface{}{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
		},
	})
}

// Start initializes the LLM manager and creates the provider
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Info("Starting LLM manager", map[string]interface{}{
		"provider": m.config.LLM.Provider,
	})

	if m.provider == nil {
		provider, err := m.factory.CreateProvider()
		if err != nil {
			return fmt.Errorf("failed to create LLM provider: %w", err)
		}
		m.provider = provider
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.config.LLM.Timeout)
	defer cancel()

	m.lastCheck = m.now()
	if err := m.provider.IsHealthy(ctx); err != nil {
		// The server still starts: resume analysis falls back to the heuristic scorer
		m.logger.WithError(err).Warn("LLM provider health check failed - LLM features will be disabled")
		m.healthy = false
	} else {
		m.healthy = true
		m.logger.Info("LLM manager started successfully", map[string]interface{}{
			"provider": m.provider.GetProviderName(),
		})
	}

	return nil
}

// Stop shuts down the LLM manager
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Info("Stopping LLM manager")
	m.provider = nil
	m.healthy = false
	return nil
}

// IsHealthy checks if the LLM manager and provider are healthy
func (m *Manager) IsHealthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.healthy && m.provider != nil
}

// GetProviderName returns the name of the current LLM provider
func (m *Manager) GetProviderName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.provider != nil {
		return m.provider.GetProviderName()
	}
	return "none"
}

// CheckHealth performs a health check on the LLM provider
func (m *Manager) CheckHealth(ctx context.Context) error {
	m.mu.RLock()
	provider := m.provider
	m.mu.RUnlock()

	if provider == nil {
		return ErrProviderUnavailable
	}

	err := provider.IsHealthy(ctx)

	m.mu.Lock()
	m.healthy = (err == nil)
	m.lastCheck = m.now()
	m.mu.Unlock()

	return err
}

// ensureHealthy reports whether calls may reach the provider, re-probing an
// unhealthy provider at most once per BreakerCooldown.
func (m *Manager) ensureHealthy(ctx context.Context) bool {
	m.mu.Lock()
	if m.provider == nil {
		m.mu.Unlock()
		return false
	}
	if m.healthy {
		m.mu.Unlock()
		return true
	}
	if m.now().Sub(m.lastCheck) < m.config.LLM.BreakerCooldown {
		m.mu.Unlock()
		return false
	}
	// Claim the probe so concurrent callers keep failing fast meanwhile
	m.lastCheck = m.now()
	m.mu.Unlock()

	probeCtx := ctx
	if m.config.LLM.Timeout > 0 {
		var cancel context.CancelFunc
		probeCtx, cancel = context.WithTimeout(ctx, m.config.LLM.Timeout)
		defer cancel()
	}

	if err := m.CheckHealth(probeCtx); err != nil {
		m.logger.WithError(err).Warn("LLM provider still unhealthy")
		return false
	}
	m.logger.Info("LLM provider recovered", map[string]interface{}{
		"provider": m.GetProviderName(),
	})
	return true
}

// AnalyzeResume asks the model for structured feedback on a resume
func (m *Manager) AnalyzeResume(ctx context.Context, resumeText, role string) (*models.ResumeInsights, error) {
	startTime := time.Now()

	raw, err := m.complete(ctx, types.CompletionRequest{
		System: prompts.ResumeEvaluatorSystem,
		Messages: []types.Message{{
			Role:    types.RoleUser,
			Content: prompts.ResumeInsights(role, m.truncateResume(resumeText)),
		}},
		JSON: true,
	})
	if err != nil {
		return nil, err
	}

	insights, err := processors.ParseInsights(raw)
	if err != nil {
		m.logger.Warn("Unparseable resume insights", map[string]interface{}{
			"response": utils.TruncateForLog(raw, 200),
		})
		return nil, err
	}

	m.logger.Info("Resume analysis completed", map[string]interface{}{
		"role":            role,
		"match_score":     insights.MatchScore,
		"processing_time": time.Since(startTime).String(),
	})

	return insights, nil
}

// GenerateQuestions returns up to count interview questions for the role and round
func (m *Manager) GenerateQuestions(ctx context.Context, role, round string, count int, resumeText string) ([]string, error) {
	raw, err := m.complete(ctx, types.CompletionRequest{
		System: prompts.InterviewerSystem,
		Messages: []types.Message{{
			Role:    types.RoleUser,
			Content: prompts.Questions(role, round, count, m.truncateResume(resumeText)),
		}},
	})
	if err != nil {
		return nil, err
	}

	questions := processors.SplitQuestions(raw, count)
	if len(questions) == 0 {
		return nil, ErrEmptyResponse
	}
	return questions, nil
}

// EvaluateAnswer returns short constructive feedback on an answer
func (m *Manager) EvaluateAnswer(ctx context.Context, question, answer string) (string, error) {
	raw, err := m.complete(ctx, types.CompletionRequest{
		System: prompts.InterviewerSystem,
		Messages: []types.Message{{
			Role:    types.RoleUser,
			Content: prompts.EvaluateAnswer(question, answer),
		}},
	})
	if err != nil {
		return "", err
	}
	return raw, nil
}

// Chat continues a conversation with the assistant persona
func (m *Manager) Chat(ctx context.Context, history []models.ChatMessage, message string) (string, error) {
	messages := make([]types.Message, 0, len(history)+1)
	for _, msg := range history {
		role := types.RoleUser
		if msg.Role == models.ChatRoleAssistant {
			role = types.RoleAssistant
		}
		messages = append(messages, types.Message{Role: role, Content: msg.Content})
	}
	messages = append(messages, types.Message{Role: types.RoleUser, Content: message})

	return m.complete(ctx, types.CompletionRequest{
		System:   prompts.ChatSystem,
		Messages: messages,
	})
}

func (m *Manager) complete(ctx context.Context, req types.CompletionRequest) (string, error) {
	if !m.ensureHealthy(ctx) {
		return "", ErrProviderUnavailable
	}

	m.mu.RLock()
	provider := m.provider
	m.mu.RUnlock()
	if provider == nil {
		return "", ErrProviderUnavailable
	}

	if m.config.LLM.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.config.LLM.Timeout)
		defer cancel()
	}

	result, err := m.breaker.Execute(func() (interface{}, error) {
		return provider.Complete(ctx, req)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	if err != nil {
		return "", fmt.Errorf("%s completion failed: %w", provider.GetProviderName(), err)
	}

	text := strings.TrimSpace(result.(string))
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func (m *Manager) truncateResume(text string) string {
	limit := m.config.LLM.MaxResumeChars
	if limit <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	m.logger.Debug("Resume text truncated to fit prompt budget", map[string]interface{}{
		"original_chars": len(runes),
		"limit":          limit,
	})
	return string(runes[:limit])
}
