package providers

import (
	"context"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interview-companion/internal/config"
	"interview-companion/internal/llm/types"
)

func TestToClaudeMessages(t *testing.T) {
	t.Parallel()

	got := toClaudeMessages([]types.Message{
		{Role: types.RoleUser, Content: "hi"},
		{Role: types.RoleAssistant, Content: "hello"},
	})

	require.Len(t, got, 2)
	assert.Equal(t, anthropic.MessageParamRoleUser, got[0].Role)
	assert.Equal(t, anthropic.MessageParamRoleAssistant, got[1].Role)
	require.Len(t, got[1].Content, 1)
	assert.Equal(t, "hello", got[1].Content[0].OfText.Text)
}

func TestClaudeProviderModelSelection(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	assert.Equal(t, defaultClaudeModel, NewClaudeProvider(cfg).model)

	cfg.LLM.Model = "claude-sonnet-4-0"
	assert.Equal(t, anthropic.Model("claude-sonnet-4-0"), NewClaudeProvider(cfg).model)
}

func TestClaudeProviderUnhealthyWithoutKey(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.LLM.APIKey = ""

	err := NewClaudeProvider(cfg).IsHealthy(context.Background())
	assert.ErrorContains(t, err, "LLM_API_KEY")
}

func TestGeminiProviderWithoutKey(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.LLM.Provider = "gemini"
	cfg.LLM.APIKey = ""

	gp, err := NewGeminiProvider(cfg)
	require.NoError(t, err)
	assert.Equal(t, defaultGeminiModel, gp.model)
	assert.Equal(t, "gemini", gp.GetProviderName())
	assert.Error(t, gp.IsHealthy(context.Background()))

	_, err = gp.Complete(context.Background(), types.CompletionRequest{})
	assert.Error(t, err)
}
