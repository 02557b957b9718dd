// Package chat is the free-form interview assistant conversation.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"interview-companion/internal/logging"
	"interview-companion/internal/session"
	"interview-companion/pkg/models"
)

// ErrEmptyMessage is returned for blank user messages
var ErrEmptyMessage = errors.New("message must not be blank")

// Model is the subset of the LLM manager used for chat
type Model interface {
	Chat(ctx context.Context, history []models.ChatMessage, message string) (string, error)
}

// Service keeps per-session assistant conversations
type Service struct {
	model        Model
	sessions     session.Store
	historyLimit int
	logger       logging.Logger
}

// NewService creates the chat service. historyLimit bounds the turns sent
// back to the model with each message.
func NewService(model Model, sessions session.Store, historyLimit int, logger logging.Logger) *Service {
	if historyLimit <= 0 {
		historyLimit = 50
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Service{
		model:        model,
		sessions:     sessions,
		historyLimit: historyLimit,
		logger:       logger,
	}
}

// Reply answers message within sessionID's conversation, creating a session
// when sessionID is empty. It returns the reply and the session used.
func (s *Service) Reply(ctx context.Context, sessionID, message string) (string, string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", sessionID, ErrEmptyMessage
	}

	var history []models.ChatMessage
	if sessionID != "" {
		var err error
		history, err = s.sessions.History(ctx, sessionID, s.historyLimit)
		if err != nil {
			return "", sessionID, err
		}
	}

	reply, err := s.model.Chat(ctx, history, message)
	if err != nil {
		return "", sessionID, fmt.Errorf("failed to get assistant reply: %w", err)
	}

	// New conversations get a session only once there is a reply to store
	if sessionID == "" {
		sess := &models.Session{}
		if err := s.sessions.Create(ctx, sess); err != nil {
			return "", "", fmt.Errorf("failed to create session: %w", err)
		}
		sessionID = sess.ID
	}

	for _, msg := range []models.ChatMessage{
		{Role: models.ChatRoleUser, Content: message},
		{Role: models.ChatRoleAssistant, Content: reply},
	} {
		if err := s.sessions.AppendMessage(ctx, sessionID, msg); err != nil {
			return "", sessionID, fmt.Errorf("failed to save conversation: %w", err)
		}
	}

	s.logger.Debug("Chat reply generated", map[string]interface{}{
		"session_id":    sessionID,
		"history_turns": len(history),
	})

	return reply, sessionID, nil
}
