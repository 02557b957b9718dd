package llm

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interview-companion/internal/config"
	"interview-companion/internal/llm/processors"
	"interview-companion/internal/llm/types"
	"interview-companion/pkg/models"
)

type stubProvider struct {
	mu        sync.Mutex
	response  string
	err       error
	healthErr error
	requests  []types.CompletionRequest
}

func (s *stubProvider) Complete(_ context.Context, req types.CompletionRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	return s.response, s.err
}

func (s *stubProvider) IsHealthy(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.healthErr
}

func (s *stubProvider) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func (s *stubProvider) GetProviderName() string { return "stub" }

func (s *stubProvider) lastRequest(t *testing.T) types.CompletionRequest {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.requests)
	return s.requests[len(s.requests)-1]
}

func startedManager(t *testing.T, provider *stubProvider) *Manager {
	t.Helper()
	m := NewManagerWithProvider(config.Default(), provider, nil)
	require.NoError(t, m.Start())
	return m
}

func TestManagerAnalyzeResume(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{
		response: "```json\n{\"matchScore\": 81, \"missingKeywords\": [\"Go\"], \"opinion\": \"Good fit\", \"suggestions\": [\"Quantify impact\"]}\n```",
	}
	m := startedManager(t, provider)

	insights, err := m.AnalyzeResume(context.Background(), "Built React apps", "Frontend Developer")
	require.NoError(t, err)
	assert.Equal(t, 81, insights.MatchScore)
	assert.Equal(t, []string{"Go"}, insights.MissingKeywords)
	assert.Equal(t, models.InsightSourceAI, insights.Source)

	req := provider.lastRequest(t)
	assert.True(t, req.JSON)
	require.Len(t, req.Messages, 1)
	assert.Contains(t, req.Messages[0].Content, `"Frontend Developer"`)
	assert.Contains(t, req.Messages[0].Content, "Built React apps")
}

func TestManagerAnalyzeResumeInvalidJSON(t *testing.T) {
	t.Parallel()

	m := startedManager(t, &stubProvider{response: "Sorry, I can't do that."})

	_, err := m.AnalyzeResume(context.Background(), "text", "Developer")
	assert.ErrorIs(t, err, processors.ErrInvalidJSON)
}

func TestManagerTruncatesResume(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{response: `{"matchScore": 50}`}
	cfg := config.Default()
	cfg.LLM.MaxResumeChars = 10
	m := NewManagerWithProvider(cfg, provider, nil)
	require.NoError(t, m.Start())

	_, err := m.AnalyzeResume(context.Background(), strings.Repeat("é", 50), "Developer")
	require.NoError(t, err)

	prompt := provider.lastRequest(t).Messages[0].Content
	assert.Contains(t, prompt, strings.Repeat("é", 10))
	assert.NotContains(t, prompt, strings.Repeat("é", 11))
}

func TestManagerGenerateQuestions(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{response: "1. Q one?\n2. Q two?\n3. Q three?"}
	m := startedManager(t, provider)

	questions, err := m.GenerateQuestions(context.Background(), "Backend Developer", "technical", 2, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Q one?", "Q two?"}, questions)
	assert.Contains(t, provider.lastRequest(t).Messages[0].Content, "Generate 2 technical interview questions for Backend Developer")
}

func TestManagerEvaluateAnswer(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{response: "  Good structure. Add a concrete example.  "}
	m := startedManager(t, provider)

	feedback, err := m.EvaluateAnswer(context.Background(), "Tell me about yourself", "I am an engineer")
	require.NoError(t, err)
	assert.Equal(t, "Good structure. Add a concrete example.", feedback)
}

func TestManagerChatMapsHistory(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{response: "Sure!"}
	m := startedManager(t, provider)

	history := []models.ChatMessage{
		{Role: models.ChatRoleUser, Content: "hi"},
		{Role: models.ChatRoleAssistant, Content: "hello"},
	}
	reply, err := m.Chat(context.Background(), history, "help me prepare")
	require.NoError(t, err)
	assert.Equal(t, "Sure!", reply)

	req := provider.lastRequest(t)
	require.Len(t, req.Messages, 3)
	assert.Equal(t, types.RoleAssistant, req.Messages[1].Role)
	assert.Equal(t, types.Message{Role: types.RoleUser, Content: "help me prepare"}, req.Messages[2])
}

func TestManagerUnavailable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		manager func() *Manager
	}{
		{
			name: "unhealthy provider",
			manager: func() *Manager {
				m := NewManagerWithProvider(config.Default(), &stubProvider{healthErr: errors.New("no key")}, nil)
				require.NoError(t, m.Start())
				return m
			},
		},
		{
			name: "stopped",
			manager: func() *Manager {
				m := NewManagerWithProvider(config.Default(), &stubProvider{}, nil)
				require.NoError(t, m.Start())
				require.NoError(t, m.Stop())
				return m
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := tt.manager()
			assert.False(t, m.IsHealthy())

			_, err := m.AnalyzeResume(context.Background(), "text", "Developer")
			assert.ErrorIs(t, err, ErrProviderUnavailable)

			_, err = m.Chat(context.Background(), nil, "hi")
			assert.ErrorIs(t, err, ErrProviderUnavailable)
		})
	}
}

func TestManagerProviderErrorAndEmptyResponse(t *testing.T) {
	t.Parallel()

	upstream := errors.New("rate limited")
	m := startedManager(t, &stubProvider{err: upstream})
	_, err := m.EvaluateAnswer(context.Background(), "q", "a")
	assert.ErrorIs(t, err, upstream)

	m = startedManager(t, &stubProvider{response: "   "})
	_, err = m.GenerateQuestions(context.Background(), "Developer", "hr", 5, "")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestManagerCheckHealthUpdatesFlag(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{healthErr: errors.New("down")}
	m := startedManager(t, provider)
	assert.False(t, m.IsHealthy())
	assert.Equal(t, "stub", m.GetProviderName())

	provider.mu.Lock()
	provider.healthErr = nil
	provider.mu.Unlock()

	require.NoError(t, m.CheckHealth(context.Background()))
	assert.True(t, m.IsHealthy())
}

func TestManagerRecoversAfterFailedStartupCheck(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.LLM.BreakerCooldown = time.Minute
	provider := &stubProvider{response: "hello", healthErr: errors.New("dns lookup failed")}
	m := NewManagerWithProvider(cfg, provider, nil)

	clock := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }
	require.NoError(t, m.Start())
	require.False(t, m.IsHealthy())

	provider.mu.Lock()
	provider.healthErr = nil
	provider.mu.Unlock()

	// Within the cooldown the provider is not probed again
	_, err := m.Chat(context.Background(), nil, "hi")
	assert.ErrorIs(t, err, ErrProviderUnavailable)
	assert.Equal(t, 0, provider.calls())

	clock = clock.Add(2 * time.Minute)
	for i := 0; i < 3; i++ {
		reply, err := m.Chat(context.Background(), nil, "hi")
		require.NoError(t, err)
		assert.Equal(t, "hello", reply)
	}
	assert.True(t, m.IsHealthy())
	assert.Equal(t, 3, provider.calls())
}

func TestManagerStillUnhealthyAfterCooldown(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.LLM.BreakerCooldown = time.Minute
	provider := &stubProvider{response: "hello", healthErr: errors.New("down")}
	m := NewManagerWithProvider(cfg, provider, nil)

	clock := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }
	require.NoError(t, m.Start())

	clock = clock.Add(2 * time.Minute)
	_, err := m.Chat(context.Background(), nil, "hi")
	assert.ErrorIs(t, err, ErrProviderUnavailable)
	assert.False(t, m.IsHealthy())
	assert.Equal(t, 0, provider.calls())
}

func TestFactory(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	f := NewLLMFactory(cfg)
	assert.Equal(t, []string{"claude", "gemini"}, f.GetSupportedProviders())

	p, err := f.CreateProvider()
	require.NoError(t, err)
	assert.Equal(t, "claude", p.GetProviderName())

	cfg.LLM.Provider = "Gemini"
	p, err = NewLLMFactory(cfg).CreateProvider()
	require.NoError(t, err)
	assert.Equal(t, "gemini", p.GetProviderName())

	cfg.LLM.Provider = "openai"
	_, err = NewLLMFactory(cfg).CreateProvider()
	assert.Error(t, err)
}

func TestManagerBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.LLM.BreakerFailures = 2
	provider := &stubProvider{err: errors.New("upstream 500")}
	m := NewManagerWithProvider(cfg, provider, nil)
	require.NoError(t, m.Start())

	for i := 0; i < 2; i++ {
		_, err := m.EvaluateAnswer(context.Background(), "q", "a")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrProviderUnavailable)
	}

	_, err := m.EvaluateAnswer(context.Background(), "q", "a")
	assert.ErrorIs(t, err, ErrProviderUnavailable)

	assert.Equal(t, 2, provider.calls())
}
