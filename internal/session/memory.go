package session

import (
	"context"
	"slices"
	"sync"
	"time"

	"interview-companion/pkg/models"
	"interview-companion/pkg/utils"
)

type memoryEntry struct {
	session   models.Session
	messages  []models.ChatMessage
	expiresAt time.Time
}

// maxSweepInterval bounds how long expired sessions may linger unread
const maxSweepInterval = time.Minute

// MemoryStore is a process-local Store. Expired entries are dropped on access
// and swept from Create at most once per sweep interval.
type MemoryStore struct {
	mu           sync.Mutex
	entries      map[string]*memoryEntry
	ttl          time.Duration
	historyLimit int
	now          func() time.Time
	lastSweep    time.Time
}

// NewMemoryStore creates an in-memory store
func NewMemoryStore(ttl time.Duration, historyLimit int) *MemoryStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if historyLimit <= 0 {
		historyLimit = 50
	}
	return &MemoryStore{
		entries:      make(map[string]*memoryEntry),
		ttl:          ttl,
		historyLimit: historyLimit,
		now:          time.Now,
	}
}

func (m *MemoryStore) Create(_ context.Context, s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now().UTC()
	m.sweep(now)
	if s.ID == "" {
		s.ID = utils.GenerateSessionID()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now

	m.entries[s.ID] = &memoryEntry{
		session:   cloneSession(s),
		expiresAt: now.Add(m.ttl),
	}
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.lookup(id)
	if !ok {
		return nil, ErrNotFound
	}
	s := cloneSession(&entry.session)
	return &s, nil
}

func (m *MemoryStore) Update(_ context.Context, s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.lookup(s.ID)
	if !ok {
		return ErrNotFound
	}
	now := m.now().UTC()
	s.UpdatedAt = now
	entry.session = cloneSession(s)
	entry.expiresAt = now.Add(m.ttl)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.lookup(id); !ok {
		return ErrNotFound
	}
	delete(m.entries, id)
	return nil
}

func (m *MemoryStore) AppendMessage(_ context.Context, id string, msg models.ChatMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.lookup(id)
	if !ok {
		return ErrNotFound
	}

	now := m.now().UTC()
	if msg.ID == "" {
		msg.ID = utils.GenerateRequestID()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = now
	}

	entry.messages = append(entry.messages, msg)
	if len(entry.messages) > m.historyLimit {
		entry.messages = append([]models.ChatMessage(nil), entry.messages[len(entry.messages)-m.historyLimit:]...)
	}
	entry.expiresAt = now.Add(m.ttl)
	return nil
}

func (m *MemoryStore) History(_ context.Context, id string, limit int) ([]models.ChatMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.lookup(id)
	if !ok {
		return nil, ErrNotFound
	}

	msgs := entry.messages
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return append([]models.ChatMessage{}, msgs...), nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) Close() error { return nil }

// lookup returns a live entry, evicting it when expired. Callers hold mu.
func (m *MemoryStore) lookup(id string) (*memoryEntry, bool) {
	entry, ok := m.entries[id]
	if !ok {
		return nil, false
	}
	if m.now().After(entry.expiresAt) {
		delete(m.entries, id)
		return nil, false
	}
	return entry, true
}

// sweep evicts every expired entry when the sweep interval has passed. Callers hold mu.
func (m *MemoryStore) sweep(now time.Time) {
	if now.Sub(m.lastSweep) < min(m.ttl, maxSweepInterval) {
		return
	}
	m.lastSweep = now
	for id, entry := range m.entries {
		if now.After(entry.expiresAt) {
			delete(m.entries, id)
		}
	}
}

func cloneSession(s *models.Session) models.Session {
	out := *s
	if s.Insights != nil {
		insights := *s.Insights
		insights.MissingKeywords = slices.Clone(s.Insights.MissingKeywords)
		insights.Suggestions = slices.Clone(s.Insights.Suggestions)
		out.Insights = &insights
	}
	return out
}
