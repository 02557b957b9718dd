package models

import "time"

// ChatRole identifies the author of a conversation message
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatMessage is one entry of a session conversation
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      ChatRole  `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session replaces client-side storage of the uploaded resume
type Session struct {
	ID         string          `json:"id"`
	Role       string          `json:"role,omitempty"`
	Email      string          `json:"email,omitempty"`
	ResumeText string          `json:"resumeText,omitempty"`
	Insights   *ResumeInsights `json:"insights,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// ChatResponse is the assistant reply
type ChatResponse struct {
	Reply     string `json:"reply"`
	SessionID string `json:"sessionId"`
}

// SessionResponse exposes a session and its conversation
type SessionResponse struct {
	Session  *Session      `json:"session"`
	Messages []ChatMessage `json:"messages"`
}
