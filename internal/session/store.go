// Package session keeps the per-user state the client previously held in
// browser storage: the uploaded resume text, the role, the latest insights
// and the assistant conversation.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"interview-companion/internal/config"
	"interview-companion/internal/logging"
	"interview-companion/pkg/models"
)

// ErrNotFound is returned for unknown or expired sessions
var ErrNotFound = errors.New("session not found")

// Store persists sessions and their conversation history
type Store interface {
	Create(ctx context.Context, s *models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Update(ctx context.Context, s *models.Session) error
	Delete(ctx context.Context, id string) error

	// AppendMessage adds a conversation entry, keeping only the most recent entries
	AppendMessage(ctx context.Context, id string, msg models.ChatMessage) error
	// History returns up to limit most recent entries, oldest first
	History(ctx context.Context, id string, limit int) ([]models.ChatMessage, error)

	Ping(ctx context.Context) error
	Close() error
}

// NewStore returns the redis store when enabled and reachable, otherwise the in-memory store
func NewStore(ctx context.Context, cfg *config.Config, logger logging.Logger) (Store, error) {
	if !cfg.Redis.Enabled {
		logger.Info("Using in-memory session store")
		return NewMemoryStore(cfg.Redis.SessionTTL, cfg.Redis.HistoryLimit), nil
	}

	store, err := NewRedisStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Redis.Timeout)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("redis session store unreachable: %w", err)
	}

	logger.Info("Using redis session store", map[string]interface{}{
		"url": redactURL(cfg.Redis.URL),
	})
	return store, nil
}

func redactURL(raw string) string {
	at := strings.LastIndex(raw, "@")
	scheme := strings.Index(raw, "://")
	if at == -1 || scheme == -1 || at < scheme {
		return raw
	}
	return raw[:scheme+3] + "***" + raw[at:]
}
