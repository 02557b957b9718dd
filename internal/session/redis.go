package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"interview-companion/internal/config"
	"interview-companion/internal/logging"
	"interview-companion/pkg/models"
	"interview-companion/pkg/utils"
)

// RedisStore keeps sessions as JSON strings and conversations as capped lists
type RedisStore struct {
	client       *redis.Client
	ttl          time.Duration
	historyLimit int
	logger       logging.Logger
}

// NewRedisStore creates a redis backed store from the redis config section
func NewRedisStore(cfg *config.Config, logger logging.Logger) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}

	timeout := cfg.Redis.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	opts.DialTimeout = timeout
	opts.ReadTimeout = timeout
	opts.WriteTimeout = timeout

	return newRedisStore(redis.NewClient(opts), cfg.Redis.SessionTTL, cfg.Redis.HistoryLimit, logger), nil
}

func newRedisStore(client *redis.Client, ttl time.Duration, historyLimit int, logger logging.Logger) *RedisStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if historyLimit <= 0 {
		historyLimit = 50
	}
	return &RedisStore{
		client:       client,
		ttl:          ttl,
		historyLimit: historyLimit,
		logger:       logger,
	}
}

// Ping tests the Redis connection
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (r *RedisStore) Close() error {
	return r.client.Close()
}

// Create stores a new session, assigning an ID and timestamps when missing
func (r *RedisStore) Create(ctx context.Context, s *models.Session) error {
	now := time.Now().UTC()
	if s.ID == "" {
		s.ID = utils.GenerateSessionID()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now

	return r.save(ctx, s)
}

// Get retrieves a session record
func (r *RedisStore) Get(ctx context.Context, id string) (*models.Session, error) {
	data, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var s models.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &s, nil
}

// Update overwrites an existing session and refreshes its expiry
func (r *RedisStore) Update(ctx context.Context, s *models.Session) error {
	exists, err := r.client.Exists(ctx, sessionKey(s.ID)).Result()
	if err != nil {
		return fmt.Errorf("failed to check if session exists: %w", err)
	}
	if exists == 0 {
		return ErrNotFound
	}

	s.UpdatedAt = time.Now().UTC()
	if err := r.save(ctx, s); err != nil {
		return err
	}
	return r.client.Expire(ctx, messagesKey(s.ID), r.ttl).Err()
}

// Delete removes the session and its conversation
func (r *RedisStore) Delete(ctx context.Context, id string) error {
	removed, err := r.client.Del(ctx, sessionKey(id), messagesKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if removed == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendMessage pushes a conversation entry and trims the list to the history limit
func (r *RedisStore) AppendMessage(ctx context.Context, id string, msg models.ChatMessage) error {
	exists, err := r.client.Exists(ctx, sessionKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to check if session exists: %w", err)
	}
	if exists == 0 {
		return ErrNotFound
	}

	if msg.ID == "" {
		msg.ID = utils.GenerateRequestID()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	entryJSON, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal conversation entry: %w", err)
	}

	key := messagesKey(id)
	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, key, entryJSON)
	pipe.LTrim(ctx, key, int64(-r.historyLimit), -1)
	pipe.Expire(ctx, key, r.ttl)
	pipe.Expire(ctx, sessionKey(id), r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Failed to save conversation entry", map[string]interface{}{
			"session_id": id,
			"entry_id":   msg.ID,
			"error":      err.Error(),
		})
		return fmt.Errorf("failed to save conversation entry: %w", err)
	}

	return nil
}

// History returns up to limit of the most recent conversation entries
func (r *RedisStore) History(ctx context.Context, id string, limit int) ([]models.ChatMessage, error) {
	exists, err := r.client.Exists(ctx, sessionKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to check if session exists: %w", err)
	}
	if exists == 0 {
		return nil, ErrNotFound
	}

	if limit <= 0 || limit > r.historyLimit {
		limit = r.historyLimit
	}

	raw, err := r.client.LRange(ctx, messagesKey(id), int64(-limit), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation history: %w", err)
	}

	messages := make([]models.ChatMessage, 0, len(raw))
	for _, item := range raw {
		var msg models.ChatMessage
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			r.logger.Warn("Skipping malformed conversation entry", map[string]interface{}{
				"session_id": id,
				"error":      err.Error(),
			})
			continue
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func (r *RedisStore) save(ctx context.Context, s *models.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey(s.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func sessionKey(id string) string {
	return "session:" + id
}

func messagesKey(id string) string {
	return "session:" + id + ":messages"
}
