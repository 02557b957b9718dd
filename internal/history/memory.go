package history

import (
	"context"
	"slices"
	"sync"
	"time"

	"interview-companion/pkg/models"
	"interview-companion/pkg/utils"
)

// MemoryStore keeps the most recent maxEntries analyses per email
type MemoryStore struct {
	mu         sync.RWMutex
	entries    map[string][]models.HistoryEntry
	maxEntries int
}

// NewMemoryStore creates an in-memory history store
func NewMemoryStore(maxEntries int) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = 100
	}
	return &MemoryStore{
		entries:    make(map[string][]models.HistoryEntry),
		maxEntries: maxEntries,
	}
}

func (m *MemoryStore) Append(_ context.Context, entry *models.HistoryEntry) error {
	entry.Email = NormalizeEmail(entry.Email)
	if entry.ID == "" {
		entry.ID = utils.GenerateRequestID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	stored := *entry
	stored.MissingKeywords = slices.Clone(entry.MissingKeywords)

	m.mu.Lock()
	defer m.mu.Unlock()

	list := append(m.entries[entry.Email], stored)
	if len(list) > m.maxEntries {
		trimmed := make([]models.HistoryEntry, m.maxEntries)
		copy(trimmed, list[len(list)-m.maxEntries:])
		list = trimmed
	}
	m.entries[entry.Email] = list
	return nil
}

func (m *MemoryStore) List(_ context.Context, email string, limit int) ([]models.HistoryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := m.entries[NormalizeEmail(email)]
	out := make([]models.HistoryEntry, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		out = append(out, list[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *MemoryStore) Close() error { return nil }
