// Package types holds the provider-neutral completion request shared by LLM providers.
package types

// Role is the author of a conversation turn
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one conversation turn
type Message struct {
	Role    Role
	Content string
}

// CompletionRequest is a single chat-completion call
type CompletionRequest struct {
	System   string
	Messages []Message
	// JSON asks the provider for a JSON-only response where it supports that
	JSON bool
	// MaxTokens overrides the configured limit when positive
	MaxTokens int
}
