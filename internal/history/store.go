// Package history records past resume analyses per user email.
package history

import (
	"context"
	"fmt"
	"strings"

	"interview-companion/internal/config"
	"interview-companion/internal/logging"
	"interview-companion/pkg/models"
)

// Store appends and lists analysis history entries
type Store interface {
	Append(ctx context.Context, entry *models.HistoryEntry) error
	// List returns up to limit entries for email, newest first
	List(ctx context.Context, email string, limit int) ([]models.HistoryEntry, error)
	Close() error
}

// NewStore selects the backend named by history.backend
func NewStore(ctx context.Context, cfg *config.Config, logger logging.Logger) (Store, error) {
	switch strings.ToLower(cfg.History.Backend) {
	case "postgres":
		store, err := NewPostgresStore(ctx, cfg.History.DatabaseURL)
		if err != nil {
			return nil, err
		}
		logger.Info("Using postgres history store")
		return store, nil
	case "memory", "":
		logger.Info("Using in-memory history store")
		return NewMemoryStore(cfg.History.MaxEntries), nil
	default:
		return nil, fmt.Errorf("unsupported history backend: %s", cfg.History.Backend)
	}
}

// NormalizeEmail is the key entries are stored under
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
