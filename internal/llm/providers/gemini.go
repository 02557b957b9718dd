package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"interview-companion/internal/config"
	"interview-companion/internal/llm/types"
	"interview-companion/internal/logging"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiProvider implements the LLM provider interface using Google Gemini
type GeminiProvider struct {
	client *genai.Client
	config *config.Config
	model  string
	logger logging.Logger
}

// NewGeminiProvider creates a Gemini provider. A missing API key yields a
// provider that reports itself unhealthy instead of an error, so the server
// can still start.
func NewGeminiProvider(cfg *config.Config) (*GeminiProvider, error) {
	model := strings.TrimSpace(cfg.LLM.Model)
	if model == "" {
		model = defaultGeminiModel
	}

	gp := &GeminiProvider{
		config: cfg,
		model:  model,
		logger: logging.GetGlobalLogger(),
	}

	apiKey := strings.TrimSpace(cfg.LLM.APIKey)
	if apiKey == "" {
		return gp, nil
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	gp.client = client

	return gp, nil
}

// Complete sends the conversation to Gemini and returns the joined candidate text
func (gp *GeminiProvider) Complete(ctx context.Context, req types.CompletionRequest) (string, error) {
	if gp.client == nil {
		return "", errors.New("gemini client is not initialized")
	}
	startTime := time.Now()

	maxTokens := gp.config.LLM.MaxTokens
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}

	genCfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(gp.config.LLM.Temperature),
		MaxOutputTokens: int32(maxTokens),
	}
	if req.System != "" {
		genCfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		}
	}
	if req.JSON {
		genCfg.ResponseMIMEType = "application/json"
	}

	contents := make([]*genai.Content, 0, len(req.Messages))
	for _, msg := range req.Messages {
		role := genai.RoleUser
		if msg.Role == types.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: msg.Content}},
		})
	}

	resp, err := gp.client.Models.GenerateContent(ctx, gp.model, contents, genCfg)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || strings.TrimSpace(part.Text) == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(part.Text)
		}
	}

	gp.logger.Debug("Gemini completion received", map[string]interface{}{
		"model":           gp.model,
		"candidates":      len(resp.Candidates),
		"processing_time": time.Since(startTime).String(),
	})

	return builder.String(), nil
}

// IsHealthy checks that the API key is set and the configured model is reachable
func (gp *GeminiProvider) IsHealthy(ctx context.Context) error {
	if gp.client == nil {
		return fmt.Errorf("Gemini API key not configured - set LLM_API_KEY environment variable")
	}

	if _, err := gp.client.Models.Get(ctx, gp.model, nil); err != nil {
		return fmt.Errorf("Gemini API health check failed: %w", err)
	}
	return nil
}

// GetProviderName returns the name of the LLM provider
func (gp *GeminiProvider) GetProviderName() string {
	return "gemini"
}
